package audit

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLog struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"index" json:"user_id"`
	Action       string         `gorm:"size:50;index" json:"action"`
	ResourceType string         `gorm:"size:50;index" json:"resource_type"`
	ResourceID   string         `gorm:"size:255" json:"resource_id"`
	OldData      datatypes.JSON `gorm:"type:jsonb" json:"old_data,omitempty"`
	NewData      datatypes.JSON `gorm:"type:jsonb" json:"new_data,omitempty"`
	IPAddress    string         `gorm:"size:64" json:"ip_address"`
	UserAgent    string         `gorm:"size:255" json:"user_agent"`
	Description  string         `gorm:"type:text" json:"description"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

const (
	ActionUpsertForm   = "upsert_form"
	ActionReviewStatus = "review_status"

	ResourceForm       = "form_configuration"
	ResourceSubmission = "submission"
)
