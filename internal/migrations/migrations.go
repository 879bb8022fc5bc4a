// Package migrations brings the schema up to date with the domain models.
package migrations

import (
	"fmt"

	"github.com/linskybing/formbuilder-go/internal/domain/audit"
	"github.com/linskybing/formbuilder-go/internal/domain/form"
	"github.com/linskybing/formbuilder-go/internal/domain/submission"
	"github.com/linskybing/formbuilder-go/internal/domain/user"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&user.User{},
		&form.Form{},
		&form.Page{},
		&form.Field{},
		&submission.Submission{},
		&audit.AuditLog{},
	}
}

func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
