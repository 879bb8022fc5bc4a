package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repos is the unit of work handed to services. Inside ExecTx every member is
// rebound to the same transaction handle.
type Repos struct {
	Form       FormRepo
	Page       PageRepo
	Field      FieldRepo
	Submission SubmissionRepo
	User       UserRepo
	Audit      AuditRepo

	db *gorm.DB
}

func NewRepositories(db *gorm.DB) *Repos {
	return &Repos{
		Form:       NewFormRepo(db),
		Page:       NewPageRepo(db),
		Field:      NewFieldRepo(db),
		Submission: NewSubmissionRepo(db),
		User:       NewUserRepo(db),
		Audit:      NewAuditRepo(db),
		db:         db,
	}
}

func (r *Repos) WithTx(tx *gorm.DB) *Repos {
	return &Repos{
		Form:       withTx(r.Form, tx),
		Page:       withTx(r.Page, tx),
		Field:      withTx(r.Field, tx),
		Submission: withTx(r.Submission, tx),
		User:       withTx(r.User, tx),
		Audit:      withTx(r.Audit, tx),
		db:         tx,
	}
}

// WithContext binds every repository to ctx. Repos built by hand in tests
// have no handle and are returned unchanged.
func (r *Repos) WithContext(ctx context.Context) *Repos {
	if r.db == nil || ctx == nil {
		return r
	}
	return r.WithTx(r.db.WithContext(ctx))
}

// ExecTx runs fn in one database transaction. Any error returned by fn rolls
// back every write made through the repositories it was given.
func (r *Repos) ExecTx(ctx context.Context, fn func(*Repos) error) error {
	if r.db == nil {
		return fn(r)
	}
	db := r.db
	if ctx != nil {
		db = db.WithContext(ctx)
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// DB exposes the underlying handle for health checks and migrations.
func (r *Repos) DB() *gorm.DB {
	return r.db
}

func withTx[R interface{ WithTx(*gorm.DB) R }](repo R, tx *gorm.DB) R {
	var zero R
	if any(repo) == nil {
		return zero
	}
	return repo.WithTx(tx)
}
