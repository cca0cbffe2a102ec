package billing

import (
	"errors"
	"time"

	"sakuracore/sources/persistence/entities"
	"sakuracore/sources/platform"
	"sakuracore/sources/repository"
	"sakuracore/sources/tracing"

	"github.com/google/uuid"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

type authUsers interface {
	GetByToken(log *tracing.Logger, token string) (*entities.User, error)
	ResetMonthlyTokens(log *tracing.Logger, id uuid.UUID) error
	HasRight(user *entities.User, right string) bool
}

type Authenticator struct {
	users authUsers
}

func NewAuthenticator(users *repository.UsersRepository) *Authenticator {
	return &Authenticator{users: users}
}

// Authenticate resolves a bearer token to an active user. The monthly
// token counter resets lazily here on the first request of a new month,
// so no scheduled job is needed.
func (x *Authenticator) Authenticate(log *tracing.Logger, token string) (*entities.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	user, err := x.users.GetByToken(log, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if !platform.BoolValue(user.IsActive) {
		log.W("Inactive user rejected", tracing.UserId, user.ID)
		return nil, ErrForbidden
	}

	now := time.Now()
	if user.TokensResetAt.Month() != now.Month() || user.TokensResetAt.Year() != now.Year() {
		if err := x.users.ResetMonthlyTokens(log, user.ID); err == nil {
			user.MonthlyTokensUsed = 0
			user.TokensResetAt = now
		}
	}

	return user, nil
}

func (x *Authenticator) RequireAdmin(log *tracing.Logger, user *entities.User) error {
	if !x.users.HasRight(user, platform.RightAdmin) {
		log.W("Admin right required", tracing.UserId, user.ID)
		return ErrForbidden
	}
	return nil
}
