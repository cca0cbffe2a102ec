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

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrWebhookAlreadySeen  = errors.New("webhook event already processed")
	ErrProjectNotFound     = errors.New("project not found")
)

type UsersRepository struct {
	db *gorm.DB
}

func NewUsersRepository(db *gorm.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

func (x *UsersRepository) GetByID(logger *tracing.Logger, id uuid.UUID) (*entities.User, error) {
	defer tracing.ProfilePoint(logger, "Users get by id completed", "repository.users.get.by.id", tracing.UserId, id)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var user entities.User
	err := x.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.W("User not found when expected")
			return nil, ErrUserNotFound
		}
		logger.E("Failed to get user", tracing.InnerError, err)
		return nil, err
	}

	return &user, nil
}

func (x *UsersRepository) GetByToken(logger *tracing.Logger, token string) (*entities.User, error) {
	defer tracing.ProfilePoint(logger, "Users get by token completed", "repository.users.get.by.token")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var user entities.User
	err := x.db.WithContext(ctx).Where("api_token = ?", token).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.E("Failed to get user by token", tracing.InnerError, err)
		return nil, err
	}

	return &user, nil
}

func (x *UsersRepository) GetByStripeCustomer(logger *tracing.Logger, customerID string) (*entities.User, error) {
	defer tracing.ProfilePoint(logger, "Users get by stripe customer completed", "repository.users.get.by.stripe.customer")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var user entities.User
	err := x.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.E("Failed to get user by stripe customer", tracing.InnerError, err)
		return nil, err
	}

	return &user, nil
}

// DeductCredits decrements atomically and refuses to go below zero.
func (x *UsersRepository) DeductCredits(logger *tracing.Logger, id uuid.UUID, amount int64) error {
	defer tracing.ProfilePoint(logger, "Users deduct credits completed", "repository.users.deduct.credits", tracing.UserId, id)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	result := x.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ? AND credits >= ?", id, amount).
		Update("credits", gorm.Expr("credits - ?", amount))

	if result.Error != nil {
		logger.E("Failed to deduct credits", tracing.InnerError, result.Error)
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.W("Credit deduction refused", tracing.UserId, id, "amount", amount)
		return ErrInsufficientBalance
	}

	logger.I("Credits deducted", tracing.UserId, id, "amount", amount)
	return nil
}

func (x *UsersRepository) AddTokensUsed(logger *tracing.Logger, id uuid.UUID, tokens int64) error {
	defer tracing.ProfilePoint(logger, "Users add tokens used completed", "repository.users.add.tokens.used", tracing.UserId, id)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		Update("monthly_tokens_used", gorm.Expr("monthly_tokens_used + ?", tokens)).Error

	if err != nil {
		logger.E("Failed to add tokens used", tracing.InnerError, err)
		return err
	}

	return nil
}

func (x *UsersRepository) ResetMonthlyTokens(logger *tracing.Logger, id uuid.UUID) error {
	defer tracing.ProfilePoint(logger, "Users reset monthly tokens completed", "repository.users.reset.monthly.tokens", tracing.UserId, id)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"monthly_tokens_used": 0,
			"tokens_reset_at":     time.Now(),
		}).Error

	if err != nil {
		logger.E("Failed to reset monthly tokens", tracing.InnerError, err)
		return err
	}

	logger.I("Monthly tokens reset", tracing.UserId, id)
	return nil
}

// ApplyPlanChange rewrites the billing state authoritatively after a
// subscription event. Credits and monthly counters are set, not adjusted.
func (x *UsersRepository) ApplyPlanChange(logger *tracing.Logger, id uuid.UUID, plan platform.Plan, credits int64, status string) error {
	defer tracing.ProfilePoint(logger, "Users apply plan change completed", "repository.users.apply.plan.change", tracing.UserId, id)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"plan":                string(plan),
			"credits":             credits,
			"monthly_tokens_used": 0,
			"tokens_reset_at":     time.Now(),
			"subscription_status": status,
		}).Error

	if err != nil {
		logger.E("Failed to apply plan change", tracing.InnerError, err)
		return err
	}

	logger.I("Plan change applied", tracing.UserId, id, tracing.UserPlan, plan, "credits", credits)
	return nil
}

func (x *UsersRepository) SetSubscriptionStatus(logger *tracing.Logger, id uuid.UUID, status string) error {
	defer tracing.ProfilePoint(logger, "Users set subscription status completed", "repository.users.set.subscription.status", tracing.UserId, id)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		Update("subscription_status", status).Error

	if err != nil {
		logger.E("Failed to set subscription status", tracing.InnerError, err)
		return err
	}

	return nil
}

func (x *UsersRepository) HasRight(user *entities.User, right string) bool {
	for _, r := range user.Rights {
		if r == right {
			return true
		}
	}
	return false
}

func (x *UsersRepository) GetTotalUsersCount(logger *tracing.Logger) (int64, error) {
	defer tracing.ProfilePoint(logger, "Users get total users count completed", "repository.users.get.total.users.count")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var count int64
	err := x.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error
	if err != nil {
		logger.E("Failed to count total users", tracing.InnerError, err)
		return 0, err
	}

	return count, nil
}
