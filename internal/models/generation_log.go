package models

import (
	"time"
)

// GenerationLog records the metadata of one generation attempt. Candidate
// results are deliberately not stored; only the current session holds them.
type GenerationLog struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`

	RequestID string `json:"request_id" gorm:"type:uuid;not null;index" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID    string `json:"user_id" gorm:"type:uuid;not null;index" example:"550e8400-e29b-41d4-a716-446655440001"`

	Topic          string `json:"topic" gorm:"type:text;not null"`
	Tone           string `json:"tone" gorm:"type:varchar(50)" example:"curiosity_gap"`
	VariationCount int    `json:"variation_count" example:"5"`

	State      string `json:"state" gorm:"type:varchar(20);not null;index" example:"success"` // "success", "failure"
	Outcome    string `json:"outcome" gorm:"type:varchar(20);not null" example:"titles"`      // "titles", "opaque", "failure"
	TitleCount int    `json:"title_count" example:"5"`
	HTTPStatus int    `json:"http_status,omitempty" example:"200"`
	DurationMs int64  `json:"duration_ms" example:"3250"`
	ErrorText  string `json:"error_text,omitempty" gorm:"type:text"`
}

// TableName specifies the table name for the GenerationLog model
func (GenerationLog) TableName() string {
	return "generation_logs"
}
