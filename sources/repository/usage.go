package repository

import (
	"context"
	"time"

	"sakuracore/sources/persistence/entities"
	"sakuracore/sources/platform"
	"sakuracore/sources/tracing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

type ToolCount struct {
	Tool     string `json:"tool"`
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

func (x *UsageRepository) Save(logger *tracing.Logger, usage *entities.Usage) error {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).Create(usage).Error
	if err != nil {
		logger.E("Failed to save usage", tracing.InnerError, err)
		return err
	}

	logger.I("Usage saved", tracing.ToolName, usage.Tool, tracing.ToolCategory, usage.Category, tracing.AiTokens, usage.Tokens, "credits", usage.Credits, tracing.AiCost, usage.Cost, "success", usage.Success)
	return nil
}

func (x *UsageRepository) TopToolsByUser(logger *tracing.Logger, userID uuid.UUID, since time.Time, limit int) ([]ToolCount, error) {
	defer tracing.ProfilePoint(logger, "Usage top tools by user completed", "repository.usage.top.tools.by.user", tracing.UserId, userID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var rows []ToolCount
	err := x.db.WithContext(ctx).
		Model(&entities.Usage{}).
		Select("tool, category, COUNT(*) AS count").
		Where("user_id = ? AND created_at >= ?", userID, since).
		Group("tool, category").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error

	if err != nil {
		logger.E("Failed to get top tools", tracing.InnerError, err)
		return nil, err
	}

	return rows, nil
}

func (x *UsageRepository) TotalTokensSince(logger *tracing.Logger, since time.Time) (int64, error) {
	defer tracing.ProfilePoint(logger, "Usage total tokens since completed", "repository.usage.total.tokens.since")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var total *int64
	err := x.db.WithContext(ctx).
		Model(&entities.Usage{}).
		Select("SUM(tokens)").
		Where("created_at >= ?", since).
		Row().Scan(&total)

	if err != nil {
		logger.E("Failed to get total tokens", tracing.InnerError, err)
		return 0, err
	}

	if total == nil {
		return 0, nil
	}

	return *total, nil
}

func (x *UsageRepository) TotalCostSince(logger *tracing.Logger, since time.Time) (decimal.Decimal, error) {
	defer tracing.ProfilePoint(logger, "Usage total cost since completed", "repository.usage.total.cost.since")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var total *decimal.Decimal
	err := x.db.WithContext(ctx).
		Model(&entities.Usage{}).
		Select("SUM(cost)").
		Where("created_at >= ?", since).
		Row().Scan(&total)

	if err != nil {
		logger.E("Failed to get total cost", tracing.InnerError, err)
		return decimal.Zero, err
	}

	if total == nil {
		return decimal.Zero, nil
	}

	return *total, nil
}

func (x *UsageRepository) ActiveUsersCount(logger *tracing.Logger, since time.Time) (int64, error) {
	defer tracing.ProfilePoint(logger, "Usage active users count completed", "repository.usage.active.users.count")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var count int64
	err := x.db.WithContext(ctx).
		Model(&entities.Usage{}).
		Where("created_at >= ?", since).
		Distinct("user_id").
		Count(&count).Error

	if err != nil {
		logger.E("Failed to get active users count", tracing.InnerError, err)
		return 0, err
	}

	return count, nil
}
