package repository

import (
	"time"

	"github.com/linskybing/formbuilder-go/internal/domain/submission"
	"gorm.io/gorm"
)

type StatusCount struct {
	Status submission.Status
	Total  int64
}

type SubmissionRepo interface {
	CreateSubmission(s *submission.Submission) error
	ListSubmissionsByForm(formID uint) ([]submission.Submission, error)
	CountByStatus(formID uint) ([]StatusCount, error)
	SubmittedRange(formID uint) (first, last *time.Time, err error)
	WithTx(tx *gorm.DB) SubmissionRepo
}

type DBSubmissionRepo struct {
	Crud[submission.Submission]
	db *gorm.DB
}

func NewSubmissionRepo(db *gorm.DB) *DBSubmissionRepo {
	return &DBSubmissionRepo{
		Crud: NewCrud[submission.Submission](db),
		db:   db,
	}
}

func (r *DBSubmissionRepo) CreateSubmission(s *submission.Submission) error {
	return r.Create(s)
}

func (r *DBSubmissionRepo) ListSubmissionsByForm(formID uint) ([]submission.Submission, error) {
	var subs []submission.Submission
	err := r.db.Where("form_id = ?", formID).
		Order("submitted_at DESC, id DESC").
		Find(&subs).Error
	return subs, err
}

func (r *DBSubmissionRepo) CountByStatus(formID uint) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.Model(&submission.Submission{}).
		Select("status, COUNT(*) AS total").
		Where("form_id = ?", formID).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// SubmittedRange returns the oldest and newest submission times, or nils when
// the form has no submissions.
func (r *DBSubmissionRepo) SubmittedRange(formID uint) (*time.Time, *time.Time, error) {
	var first, last []submission.Submission
	if err := r.db.Where("form_id = ?", formID).Order("submitted_at ASC").Limit(1).Find(&first).Error; err != nil {
		return nil, nil, err
	}
	if len(first) == 0 {
		return nil, nil, nil
	}
	if err := r.db.Where("form_id = ?", formID).Order("submitted_at DESC").Limit(1).Find(&last).Error; err != nil {
		return nil, nil, err
	}
	return &first[0].SubmittedAt, &last[0].SubmittedAt, nil
}

func (r *DBSubmissionRepo) WithTx(tx *gorm.DB) SubmissionRepo {
	if tx == nil {
		return r
	}
	return NewSubmissionRepo(tx)
}
