package repository

import (
	"github.com/linskybing/formbuilder-go/internal/domain/form"
	"gorm.io/gorm"
)

type PageRepo interface {
	CreatePage(p *form.Page) error
	GetPageByID(id uint) (form.Page, error)
	ListPagesByForm(formID uint) ([]form.Page, error)
	CountPagesByForm(formID uint) (int64, error)
	UpdatePage(p *form.Page) error
	DeletePage(id uint) error
	ParkPositions(formID uint) error
	SetPosition(id uint, position int) error
	WithTx(tx *gorm.DB) PageRepo
}

type DBPageRepo struct {
	Crud[form.Page]
	db *gorm.DB
}

func NewPageRepo(db *gorm.DB) *DBPageRepo {
	return &DBPageRepo{
		Crud: NewCrud[form.Page](db),
		db:   db,
	}
}

func (r *DBPageRepo) CreatePage(p *form.Page) error {
	return r.Create(p)
}

func (r *DBPageRepo) GetPageByID(id uint) (form.Page, error) {
	return r.Get(id)
}

func (r *DBPageRepo) ListPagesByForm(formID uint) ([]form.Page, error) {
	var pages []form.Page
	err := r.db.Preload("Fields", byPosition).
		Where("form_id = ?", formID).
		Order("position ASC").
		Find(&pages).Error
	return pages, err
}

func (r *DBPageRepo) CountPagesByForm(formID uint) (int64, error) {
	var count int64
	err := r.db.Model(&form.Page{}).Where("form_id = ?", formID).Count(&count).Error
	return count, err
}

func (r *DBPageRepo) UpdatePage(p *form.Page) error {
	return r.Save(p)
}

// DeletePage removes the page together with its fields.
func (r *DBPageRepo) DeletePage(id uint) error {
	if err := r.db.Where("page_id = ?", id).Delete(&form.Field{}).Error; err != nil {
		return err
	}
	return r.Delete(id)
}

// ParkPositions moves every page of the form to a negative position so that
// final positions can be assigned without tripping the unique index.
func (r *DBPageRepo) ParkPositions(formID uint) error {
	return r.db.Model(&form.Page{}).
		Where("form_id = ?", formID).
		Update("position", gorm.Expr("-position - 1")).Error
}

func (r *DBPageRepo) SetPosition(id uint, position int) error {
	return r.db.Model(&form.Page{}).Where("id = ?", id).Update("position", position).Error
}

func (r *DBPageRepo) WithTx(tx *gorm.DB) PageRepo {
	if tx == nil {
		return r
	}
	return NewPageRepo(tx)
}
