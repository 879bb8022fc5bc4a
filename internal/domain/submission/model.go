package submission

import (
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusReceived  Status = "received"
	StatusProcessed Status = "processed"
)

// Submission is one end-user answer set. It is written once and never updated here.
type Submission struct {
	ID          string            `json:"id" gorm:"type:char(36);primaryKey"`
	FormID      uint              `json:"form_id" gorm:"not null;index:idx_submission_form_time,priority:1"`
	Data        datatypes.JSONMap `json:"data"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	SubmittedAt time.Time         `json:"submitted_at" gorm:"not null;index:idx_submission_form_time,priority:2"`
	Status      Status            `json:"status" gorm:"size:20;not null;default:'received'"`
}

func (Submission) TableName() string { return "submissions" }

// Stats aggregates the submissions of one form.
type Stats struct {
	FormID           uint       `json:"form_id"`
	Total            int64      `json:"total"`
	Received         int64      `json:"received"`
	Processed        int64      `json:"processed"`
	FirstSubmittedAt *time.Time `json:"first_submitted_at"`
	LastSubmittedAt  *time.Time `json:"last_submitted_at"`
}
