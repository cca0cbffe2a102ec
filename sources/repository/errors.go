package repository

import (
	"context"
	"time"

	"sakuracore/sources/persistence/entities"
	"sakuracore/sources/platform"
	"sakuracore/sources/tracing"

	"gorm.io/gorm"
)

type ErrorsRepository struct {
	db *gorm.DB
}

func NewErrorsRepository(db *gorm.DB) *ErrorsRepository {
	return &ErrorsRepository{db: db}
}

// Save is best-effort bookkeeping. Callers log and move on when it fails.
func (x *ErrorsRepository) Save(logger *tracing.Logger, entry *entities.ErrorLog) error {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).Create(entry).Error
	if err != nil {
		logger.E("Failed to save error log", tracing.InnerError, err)
		return err
	}

	return nil
}
