package repository

import (
	"github.com/linskybing/formbuilder-go/internal/domain/form"
	"gorm.io/gorm"
)

type FieldRepo interface {
	CreateField(f *form.Field) error
	GetFieldByID(id uint) (form.Field, error)
	ListFieldsByPage(pageID uint) ([]form.Field, error)
	ListFieldsByForm(formID uint) ([]form.Field, error)
	UpdateField(f *form.Field) error
	DeleteField(id uint) error
	ParkPositions(pageID uint) error
	SetPosition(id uint, position int) error
	WithTx(tx *gorm.DB) FieldRepo
}

type DBFieldRepo struct {
	Crud[form.Field]
	db *gorm.DB
}

func NewFieldRepo(db *gorm.DB) *DBFieldRepo {
	return &DBFieldRepo{
		Crud: NewCrud[form.Field](db),
		db:   db,
	}
}

func (r *DBFieldRepo) CreateField(f *form.Field) error {
	return r.Create(f)
}

func (r *DBFieldRepo) GetFieldByID(id uint) (form.Field, error) {
	return r.Get(id)
}

func (r *DBFieldRepo) ListFieldsByPage(pageID uint) ([]form.Field, error) {
	var fields []form.Field
	err := r.db.Where("page_id = ?", pageID).Order("position ASC").Find(&fields).Error
	return fields, err
}

func (r *DBFieldRepo) ListFieldsByForm(formID uint) ([]form.Field, error) {
	var fields []form.Field
	err := r.db.Table("form_fields").
		Select("form_fields.*").
		Joins("JOIN form_pages ON form_pages.id = form_fields.page_id").
		Where("form_fields.form_id = ?", formID).
		Order("form_pages.position ASC, form_fields.position ASC").
		Find(&fields).Error
	return fields, err
}

func (r *DBFieldRepo) UpdateField(f *form.Field) error {
	return r.Save(f)
}

func (r *DBFieldRepo) DeleteField(id uint) error {
	return r.Delete(id)
}

func (r *DBFieldRepo) ParkPositions(pageID uint) error {
	return r.db.Model(&form.Field{}).
		Where("page_id = ?", pageID).
		Update("position", gorm.Expr("-position - 1")).Error
}

func (r *DBFieldRepo) SetPosition(id uint, position int) error {
	return r.db.Model(&form.Field{}).Where("id = ?", id).Update("position", position).Error
}

func (r *DBFieldRepo) WithTx(tx *gorm.DB) FieldRepo {
	if tx == nil {
		return r
	}
	return NewFieldRepo(tx)
}
