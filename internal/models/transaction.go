// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction records a fiat on/off-ramp movement against a user's native
// balance. License fees and royalties settle inside the registry and appear
// in the event journal, not here.
type Transaction struct {
	BaseModel
	TransactionType  TransactionType   `json:"transaction_type" gorm:"type:varchar(20);not null;index"`
	UserID           uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	Amount           int64             `json:"amount" gorm:"not null"`
	PaymentReference string            `json:"payment_reference" gorm:"size:255"`
	Status           TransactionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ProcessedAt      *time.Time        `json:"processed_at"`
	FailureReason    string            `json:"failure_reason,omitempty" gorm:"type:text"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   string     `json:"resource_id,omitempty" gorm:"size:100;index"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type Notification struct {
	BaseModel
	UserID  uuid.UUID          `json:"user_id" gorm:"type:uuid;not null;index"`
	Type    string             `json:"type" gorm:"type:varchar(50);not null;index"`
	Title   string             `json:"title" gorm:"size:255;not null"`
	Message string             `json:"message" gorm:"type:text;not null"`
	Data    JSONB              `json:"data" gorm:"type:jsonb"`
	Status  NotificationStatus `json:"status" gorm:"type:varchar(20);default:'unread';index"`
	ReadAt  *time.Time         `json:"read_at"`
}
