package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type (
	User struct {
		ID                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		Email              string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
		APIToken           string         `gorm:"size:128;uniqueIndex;not null;column:api_token" json:"-"`
		Plan               string         `gorm:"size:32;not null;default:'free'" json:"plan"`
		Credits            int64          `gorm:"not null;default:10" json:"credits"`
		MonthlyTokensUsed  int64          `gorm:"not null;default:0" json:"monthly_tokens_used"`
		TokensResetAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"tokens_reset_at"`
		StripeCustomerID   *string        `gorm:"size:255" json:"stripe_customer_id"`
		SubscriptionStatus *string        `gorm:"size:32" json:"subscription_status"`
		Rights             pq.StringArray `gorm:"type:text[];not null;default:ARRAY[]::text[]" json:"rights"`
		IsActive           *bool          `gorm:"not null;default:true" json:"is_active"`
		CreatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

		Projects []Project `gorm:"foreignKey:UserID;references:ID" json:"projects"`
		Usages   []Usage   `gorm:"foreignKey:UserID;references:ID" json:"usages"`
	}

	Project struct {
		ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
		Tool       string    `gorm:"size:64;not null" json:"tool"`
		Input      string    `gorm:"type:text;not null" json:"input"`
		Output     string    `gorm:"type:text" json:"output"`
		OutputType string    `gorm:"size:16;not null;default:'text'" json:"output_type"`
		TokensUsed int       `gorm:"not null;default:0" json:"tokens_used"`
		CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
		UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

		User User `gorm:"foreignKey:UserID;references:ID" json:"user"`
	}

	Usage struct {
		ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		UserID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
		Tool       string          `gorm:"size:64;not null" json:"tool"`
		Category   string          `gorm:"size:32;not null;default:''" json:"category"`
		Provider   *string         `gorm:"size:32" json:"provider"`
		Model      *string         `gorm:"size:64" json:"model"`
		Tokens     int             `gorm:"not null;default:0" json:"tokens"`
		Credits    int             `gorm:"not null;default:0" json:"credits"`
		Cost       decimal.Decimal `gorm:"type:decimal(10,6);not null;default:0" json:"cost"`
		Success    bool            `gorm:"not null;default:true" json:"success"`
		DurationMs int64           `gorm:"not null;default:0" json:"duration_ms"`
		CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

		User User `gorm:"foreignKey:UserID;references:ID" json:"user"`
	}

	ErrorLog struct {
		ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
		Tool      *string    `gorm:"size:64" json:"tool"`
		Message   string     `gorm:"type:text;not null" json:"message"`
		Stack     *string    `gorm:"type:text" json:"stack"`
		CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	}

	WebhookEvent struct {
		ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		EventID     string     `gorm:"size:255;uniqueIndex;not null" json:"event_id"`
		Type        string     `gorm:"size:64;not null" json:"type"`
		Payload     *string    `gorm:"type:json" json:"payload"`
		Processed   bool       `gorm:"not null;default:false" json:"processed"`
		ProcessedAt *time.Time `json:"processed_at"`
		CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	}
)

func (User) TableName() string         { return "sakura_users" }
func (Project) TableName() string      { return "sakura_projects" }
func (Usage) TableName() string        { return "sakura_usage" }
func (ErrorLog) TableName() string     { return "sakura_error_logs" }
func (WebhookEvent) TableName() string { return "sakura_webhook_events" }
