package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Crud is the single-table capability shared by every repository. Entity
// specific queries live on the repositories that embed it.
type Crud[T any] struct {
	db *gorm.DB
}

func NewCrud[T any](db *gorm.DB) Crud[T] {
	return Crud[T]{db: db}
}

func (c Crud[T]) Create(v *T) error {
	return c.db.Omit(clause.Associations).Create(v).Error
}

func (c Crud[T]) Get(id any) (T, error) {
	var v T
	err := c.db.First(&v, "id = ?", id).Error
	return v, err
}

// Save writes every column of v. Child collections are never cascaded.
func (c Crud[T]) Save(v *T) error {
	return c.db.Omit(clause.Associations).Save(v).Error
}

func (c Crud[T]) Delete(id any) error {
	var v T
	return c.db.Delete(&v, "id = ?", id).Error
}
