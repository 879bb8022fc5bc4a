package application

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/linskybing/formbuilder-go/internal/apperr"
	"github.com/linskybing/formbuilder-go/internal/domain/form"
	"github.com/linskybing/formbuilder-go/internal/domain/submission"
	"github.com/linskybing/formbuilder-go/internal/feed"
	"github.com/linskybing/formbuilder-go/internal/metrics"
	"github.com/linskybing/formbuilder-go/internal/notify"
	"github.com/linskybing/formbuilder-go/internal/repository"
)

type SubmissionService struct {
	Repos    *repository.Repos
	hub      *feed.Hub
	notifier *notify.Dispatcher
	metrics  *metrics.Metrics
}

// NewSubmissionService builds the recorder. hub, notifier and m may be nil.
func NewSubmissionService(repos *repository.Repos, hub *feed.Hub, notifier *notify.Dispatcher, m *metrics.Metrics) *SubmissionService {
	return &SubmissionService{
		Repos:    repos,
		hub:      hub,
		notifier: notifier,
		metrics:  m,
	}
}

// CreateSubmission records answers against an active form. Nothing is stored
// when the form is missing, inactive or a required field is unanswered.
func (s *SubmissionService) CreateSubmission(ctx context.Context, input submission.CreateSubmissionDTO) (submission.Submission, error) {
	const op = "submission.Create"
	repos := s.Repos.WithContext(ctx)

	f, err := repos.Form.GetFormTree(input.FormID)
	if err != nil {
		err = storeErr(op, "form", err)
		s.metrics.SubmissionRejected(string(apperr.KindOf(err)))
		return submission.Submission{}, err
	}
	if !f.IsActive {
		s.metrics.SubmissionRejected(string(apperr.KindInactive))
		return submission.Submission{}, apperr.Inactivef(op, "form is not accepting submissions")
	}
	if err := checkRequired(op, f, input.Data); err != nil {
		s.metrics.SubmissionRejected(string(apperr.KindValidation))
		return submission.Submission{}, err
	}

	metadata := input.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	sub := submission.Submission{
		ID:          uuid.NewString(),
		FormID:      f.ID,
		Data:        input.Data,
		Metadata:    metadata,
		SubmittedAt: time.Now().UTC(),
		Status:      submission.StatusReceived,
	}
	if err := repos.Submission.CreateSubmission(&sub); err != nil {
		return submission.Submission{}, storeErr(op, "submission", err)
	}

	s.afterCreate(f, sub)
	return sub, nil
}

func (s *SubmissionService) afterCreate(f form.Form, sub submission.Submission) {
	s.metrics.SubmissionAccepted()
	s.hub.Publish(feed.Event{
		FormID:       sub.FormID,
		SubmissionID: sub.ID,
		SubmittedAt:  sub.SubmittedAt,
		Status:       string(sub.Status),
		Data:         sub.Data,
	})

	settings := f.Settings.Data()
	if settings.NotifyOnSubmit {
		s.notifier.Dispatch(notify.Notification{
			FormID:       f.ID,
			FormName:     f.Name,
			SubmissionID: sub.ID,
			SubmittedAt:  sub.SubmittedAt,
			NotifyEmail:  settings.NotifyEmail,
			WebhookURL:   settings.WebhookURL,
			Data:         sub.Data,
		})
	}
}

// GetSubmissionsByForm lists submissions newest first.
func (s *SubmissionService) GetSubmissionsByForm(ctx context.Context, formID uint) ([]submission.Submission, error) {
	const op = "submission.ListByForm"
	repos := s.Repos.WithContext(ctx)
	if _, err := repos.Form.GetFormByID(formID); err != nil {
		return nil, storeErr(op, "form", err)
	}
	subs, err := repos.Submission.ListSubmissionsByForm(formID)
	if err != nil {
		return nil, storeErr(op, "submission", err)
	}
	return subs, nil
}

func (s *SubmissionService) GetSubmissionStats(ctx context.Context, formID uint) (submission.Stats, error) {
	const op = "submission.Stats"
	repos := s.Repos.WithContext(ctx)
	if _, err := repos.Form.GetFormByID(formID); err != nil {
		return submission.Stats{}, storeErr(op, "form", err)
	}

	counts, err := repos.Submission.CountByStatus(formID)
	if err != nil {
		return submission.Stats{}, storeErr(op, "submission", err)
	}
	stats := submission.Stats{FormID: formID}
	for _, c := range counts {
		stats.Total += c.Total
		switch c.Status {
		case submission.StatusReceived:
			stats.Received = c.Total
		case submission.StatusProcessed:
			stats.Processed = c.Total
		}
	}

	first, last, err := repos.Submission.SubmittedRange(formID)
	if err != nil {
		return submission.Stats{}, storeErr(op, "submission", err)
	}
	stats.FirstSubmittedAt = first
	stats.LastSubmittedAt = last
	return stats, nil
}

// checkRequired rejects answers that leave a required field empty. Answers
// are keyed by field id; file and hidden fields are not checked.
func checkRequired(op string, f form.Form, data map[string]any) error {
	for _, field := range f.AllFields() {
		if !field.Required || field.Type == form.FieldFile || field.Type == form.FieldHidden {
			continue
		}
		if isBlank(data[strconv.FormatUint(uint64(field.ID), 10)]) {
			return apperr.Validationf(op, "required field missing: %s", field.Label)
		}
	}
	return nil
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0
	}
	return false
}
