package billing

import (
	"errors"
	"testing"
	"time"

	"sakuracore/sources/persistence/entities"
	"sakuracore/sources/platform"
	"sakuracore/sources/repository"
	"sakuracore/sources/tracing"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type stubAuthUsers struct {
	user   *entities.User
	getErr error
	resets int
}

func (s *stubAuthUsers) GetByToken(log *tracing.Logger, token string) (*entities.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.user, nil
}

func (s *stubAuthUsers) ResetMonthlyTokens(log *tracing.Logger, id uuid.UUID) error {
	s.resets++
	return nil
}

func (s *stubAuthUsers) HasRight(user *entities.User, right string) bool {
	for _, r := range user.Rights {
		if r == right {
			return true
		}
	}
	return false
}

func activeUser() *entities.User {
	return &entities.User{
		ID:            uuid.New(),
		Plan:          "starter",
		IsActive:      platform.BoolPtr(true),
		TokensResetAt: time.Now(),
	}
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		users    *stubAuthUsers
		expected error
	}{
		{
			name:     "empty token",
			token:    "",
			users:    &stubAuthUsers{},
			expected: ErrUnauthorized,
		},
		{
			name:     "unknown token",
			token:    "sk-bad",
			users:    &stubAuthUsers{getErr: repository.ErrUserNotFound},
			expected: ErrUnauthorized,
		},
		{
			name:     "inactive user",
			token:    "sk-ok",
			users:    &stubAuthUsers{user: &entities.User{ID: uuid.New(), IsActive: platform.BoolPtr(false)}},
			expected: ErrForbidden,
		},
		{
			name:     "active user",
			token:    "sk-ok",
			users:    &stubAuthUsers{user: activeUser()},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &Authenticator{users: tt.users}
			_, err := auth.Authenticate(testLog, tt.token)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Authenticate() error = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestAuthenticateLazyMonthlyReset(t *testing.T) {
	stale := activeUser()
	stale.MonthlyTokensUsed = 4000
	stale.TokensResetAt = time.Now().AddDate(0, -2, 0)

	users := &stubAuthUsers{user: stale}
	auth := &Authenticator{users: users}

	user, err := auth.Authenticate(testLog, "sk-ok")
	if err != nil {
		t.Fatalf("Authenticate() error = %v, expected nil", err)
	}

	if users.resets != 1 {
		t.Errorf("resets = %d, expected 1 for a stale month", users.resets)
	}
	if user.MonthlyTokensUsed != 0 {
		t.Errorf("MonthlyTokensUsed = %d, expected 0 after reset", user.MonthlyTokensUsed)
	}

	if _, err := auth.Authenticate(testLog, "sk-ok"); err != nil {
		t.Fatalf("Authenticate() error = %v, expected nil", err)
	}
	if users.resets != 1 {
		t.Errorf("resets = %d, expected no second reset within the month", users.resets)
	}
}

func TestRequireAdmin(t *testing.T) {
	users := &stubAuthUsers{}
	auth := &Authenticator{users: users}

	admin := activeUser()
	admin.Rights = pq.StringArray{platform.RightAdmin}

	if err := auth.RequireAdmin(testLog, admin); err != nil {
		t.Errorf("RequireAdmin(admin) = %v, expected nil", err)
	}
	if err := auth.RequireAdmin(testLog, activeUser()); !errors.Is(err, ErrForbidden) {
		t.Errorf("RequireAdmin(plain) = %v, expected ErrForbidden", err)
	}
}
