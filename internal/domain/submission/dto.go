package submission

import "time"

type CreateSubmissionDTO struct {
	FormID   uint           `json:"form_id" binding:"required" example:"1"`
	Data     map[string]any `json:"data" binding:"required"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type ReceiptDTO struct {
	SubmissionID string    `json:"submission_id"`
	FormID       uint      `json:"form_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Status       Status    `json:"status"`
}

func NewReceipt(s *Submission) ReceiptDTO {
	return ReceiptDTO{
		SubmissionID: s.ID,
		FormID:       s.FormID,
		SubmittedAt:  s.SubmittedAt,
		Status:       s.Status,
	}
}
