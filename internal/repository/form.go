package repository

import (
	"github.com/linskybing/formbuilder-go/internal/domain/form"
	"gorm.io/gorm"
)

type FormRepo interface {
	CreateForm(f *form.Form) error
	GetFormByID(id uint) (form.Form, error)
	GetFormTree(id uint) (form.Form, error)
	GetFormBySlug(slug string) (form.Form, error)
	SlugExists(slug string, excludeID uint) (bool, error)
	GetOwnerID(id uint) (uint, error)
	ListFormsByUser(userID uint) ([]form.Form, error)
	ListForms() ([]form.Form, error)
	UpdateForm(f *form.Form) error
	DeleteForm(id uint) error
	WithTx(tx *gorm.DB) FormRepo
}

type DBFormRepo struct {
	Crud[form.Form]
	db *gorm.DB
}

func NewFormRepo(db *gorm.DB) *DBFormRepo {
	return &DBFormRepo{
		Crud: NewCrud[form.Form](db),
		db:   db,
	}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *DBFormRepo) withTree() *gorm.DB {
	return r.db.Preload("Pages", byPosition).Preload("Pages.Fields", byPosition)
}

func (r *DBFormRepo) CreateForm(f *form.Form) error {
	return r.Create(f)
}

func (r *DBFormRepo) GetFormByID(id uint) (form.Form, error) {
	return r.Get(id)
}

func (r *DBFormRepo) GetFormTree(id uint) (form.Form, error) {
	var f form.Form
	err := r.withTree().First(&f, "id = ?", id).Error
	return f, err
}

func (r *DBFormRepo) GetFormBySlug(slug string) (form.Form, error) {
	var f form.Form
	err := r.withTree().Where("slug = ?", slug).First(&f).Error
	return f, err
}

// SlugExists also sees soft-deleted forms, whose slugs stay reserved.
func (r *DBFormRepo) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Unscoped().Model(&form.Form{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *DBFormRepo) GetOwnerID(id uint) (uint, error) {
	var f form.Form
	err := r.db.Select("id", "user_id").First(&f, "id = ?", id).Error
	return f.UserID, err
}

func (r *DBFormRepo) ListFormsByUser(userID uint) ([]form.Form, error) {
	var forms []form.Form
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&forms).Error
	return forms, err
}

func (r *DBFormRepo) ListForms() ([]form.Form, error) {
	var forms []form.Form
	err := r.db.Order("created_at DESC, id DESC").Find(&forms).Error
	return forms, err
}

func (r *DBFormRepo) UpdateForm(f *form.Form) error {
	return r.Save(f)
}

func (r *DBFormRepo) DeleteForm(id uint) error {
	return r.Delete(id)
}

func (r *DBFormRepo) WithTx(tx *gorm.DB) FormRepo {
	if tx == nil {
		return r
	}
	return NewFormRepo(tx)
}
