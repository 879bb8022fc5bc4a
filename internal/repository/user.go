package repository

import (
	"github.com/linskybing/formbuilder-go/internal/domain/user"
	"gorm.io/gorm"
)

type UserRepo interface {
	GetUserByID(id uint) (user.User, error)
	GetUserByUsername(username string) (user.User, error)
	CreateUser(u *user.User) error
	SaveUser(u *user.User) error
	WithTx(tx *gorm.DB) UserRepo
}

type DBUserRepo struct {
	Crud[user.User]
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *DBUserRepo {
	return &DBUserRepo{
		Crud: NewCrud[user.User](db),
		db:   db,
	}
}

func (r *DBUserRepo) GetUserByID(id uint) (user.User, error) {
	return r.Get(id)
}

func (r *DBUserRepo) GetUserByUsername(username string) (user.User, error) {
	var u user.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		return u, err
	}
	return u, nil
}

func (r *DBUserRepo) CreateUser(u *user.User) error {
	return r.Create(u)
}

func (r *DBUserRepo) SaveUser(u *user.User) error {
	return r.Save(u)
}

func (r *DBUserRepo) WithTx(tx *gorm.DB) UserRepo {
	if tx == nil {
		return r
	}
	return NewUserRepo(tx)
}
