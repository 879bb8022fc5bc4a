package repository

import (
	"time"

	"github.com/linskybing/formbuilder-go/internal/domain/audit"
	"gorm.io/gorm"
)

type AuditQueryParams struct {
	UserID       *uint
	ResourceType *string
	ResourceID   *string
	Action       *string
	Since        *time.Time
	Until        *time.Time
	Limit        int
	Offset       int
}

type AuditRepo interface {
	GetAuditLogs(params AuditQueryParams) ([]audit.AuditLog, error)
	CreateAuditLog(entry *audit.AuditLog) error
	PruneAuditLogs(before time.Time) (int64, error)
	WithTx(tx *gorm.DB) AuditRepo
}

type DBAuditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *DBAuditRepo {
	return &DBAuditRepo{
		db: db,
	}
}

func (r *DBAuditRepo) GetAuditLogs(params AuditQueryParams) ([]audit.AuditLog, error) {
	var logs []audit.AuditLog
	query := r.db.Model(&audit.AuditLog{})

	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.ResourceType != nil {
		query = query.Where("resource_type = ?", *params.ResourceType)
	}
	if params.ResourceID != nil {
		query = query.Where("resource_id = ?", *params.ResourceID)
	}
	if params.Action != nil {
		query = query.Where("action = ?", *params.Action)
	}
	if params.Since != nil {
		query = query.Where("created_at >= ?", *params.Since)
	}
	if params.Until != nil {
		query = query.Where("created_at <= ?", *params.Until)
	}

	query = query.Order("created_at DESC, id DESC")
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	err := query.Find(&logs).Error
	return logs, err
}

func (r *DBAuditRepo) CreateAuditLog(entry *audit.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *DBAuditRepo) PruneAuditLogs(before time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", before).Delete(&audit.AuditLog{})
	return res.RowsAffected, res.Error
}

func (r *DBAuditRepo) WithTx(tx *gorm.DB) AuditRepo {
	if tx == nil {
		return r
	}
	return &DBAuditRepo{
		db: tx,
	}
}
