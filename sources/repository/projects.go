package repository

import (
	"context"
	"errors"
	"time"

	"sakuracore/sources/persistence/entities"
	"sakuracore/sources/platform"
	"sakuracore/sources/tracing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectsRepository struct {
	db *gorm.DB
}

func NewProjectsRepository(db *gorm.DB) *ProjectsRepository {
	return &ProjectsRepository{db: db}
}

func (x *ProjectsRepository) Create(logger *tracing.Logger, project *entities.Project) error {
	defer tracing.ProfilePoint(logger, "Projects create completed", "repository.projects.create", tracing.UserId, project.UserID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).Create(project).Error
	if err != nil {
		logger.E("Failed to create project", tracing.InnerError, err)
		return err
	}

	logger.I("Project created", tracing.ProjectId, project.ID, tracing.ToolName, project.Tool)
	return nil
}

func (x *ProjectsRepository) GetByIDForUser(logger *tracing.Logger, id, userID uuid.UUID) (*entities.Project, error) {
	defer tracing.ProfilePoint(logger, "Projects get by id completed", "repository.projects.get.by.id", tracing.ProjectId, id)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var project entities.Project
	err := x.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.W("Project not found when expected", tracing.ProjectId, id)
			return nil, ErrProjectNotFound
		}
		logger.E("Failed to get project", tracing.InnerError, err)
		return nil, err
	}

	return &project, nil
}

func (x *ProjectsRepository) UpdateOutput(logger *tracing.Logger, id uuid.UUID, output string, tokensUsed int) error {
	defer tracing.ProfilePoint(logger, "Projects update output completed", "repository.projects.update.output", tracing.ProjectId, id)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).
		Model(&entities.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"output":      output,
			"tokens_used": tokensUsed,
			"updated_at":  time.Now(),
		}).Error

	if err != nil {
		logger.E("Failed to update project output", tracing.InnerError, err)
		return err
	}

	return nil
}

func (x *ProjectsRepository) ListByUser(logger *tracing.Logger, userID uuid.UUID, limit int) ([]*entities.Project, error) {
	defer tracing.ProfilePoint(logger, "Projects list by user completed", "repository.projects.list.by.user", tracing.UserId, userID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var projects []*entities.Project
	err := x.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&projects).Error

	if err != nil {
		logger.E("Failed to list projects", tracing.InnerError, err)
		return nil, err
	}

	return projects, nil
}
