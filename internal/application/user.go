package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/linskybing/formbuilder-go/internal/api/middleware"
	"github.com/linskybing/formbuilder-go/internal/apperr"
	"github.com/linskybing/formbuilder-go/internal/domain/user"
	"github.com/linskybing/formbuilder-go/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	Repos *repository.Repos

	adminUsername string
	tokenTTL      time.Duration
}

func NewUserService(repos *repository.Repos, adminUsername string, tokenTTL time.Duration) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &UserService{
		Repos:         repos,
		adminUsername: adminUsername,
		tokenTTL:      tokenTTL,
	}
}

func (s *UserService) RegisterUser(ctx context.Context, input user.CreateUserInput) (user.User, error) {
	const op = "user.Register"
	if s.isReserved(input.Username) {
		return user.User{}, apperr.Validationf(op, "username is reserved")
	}
	repos := s.Repos.WithContext(ctx)

	_, err := repos.User.GetUserByUsername(input.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return user.User{}, storeErr(op, "user", err)
	}
	if err == nil {
		return user.User{}, apperr.Validationf(op, "username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, apperr.Persistence(op, err)
	}

	usr := user.User{
		Username: input.Username,
		Password: string(hashed),
		Email:    input.Email,
		FullName: input.FullName,
	}
	if err := repos.User.CreateUser(&usr); err != nil {
		return user.User{}, storeErr(op, "username", err)
	}
	return usr, nil
}

// LoginUser checks the password and issues a signed token. Unknown users and
// wrong passwords get the same error.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (user.TokenDTO, error) {
	const op = "user.Login"
	usr, err := s.Repos.WithContext(ctx).User.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.TokenDTO{}, apperr.Unauthorizedf(op, "invalid credentials")
		}
		return user.TokenDTO{}, storeErr(op, "user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte(password)); err != nil {
		return user.TokenDTO{}, apperr.Unauthorizedf(op, "invalid credentials")
	}

	token, err := middleware.GenerateToken(usr.ID, usr.Username, usr.IsAdmin, s.tokenTTL)
	if err != nil {
		return user.TokenDTO{}, apperr.Persistence(op, err)
	}
	return user.TokenDTO{
		Token:    token,
		UserID:   usr.ID,
		Username: usr.Username,
		IsAdmin:  usr.IsAdmin,
	}, nil
}

// EnsureAdmin creates the administrator account, or resets its password and
// admin flag when it already exists. It is a no-op when either the configured
// admin username or password is empty.
func (s *UserService) EnsureAdmin(ctx context.Context, password string) error {
	const op = "user.EnsureAdmin"
	if s.adminUsername == "" || password == "" {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Persistence(op, err)
	}

	repos := s.Repos.WithContext(ctx)
	usr, err := repos.User.GetUserByUsername(s.adminUsername)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		usr = user.User{Username: s.adminUsername, Password: string(hashed), IsAdmin: true}
		return storeErr(op, "user", repos.User.CreateUser(&usr))
	case err != nil:
		return storeErr(op, "user", err)
	}
	usr.Password = string(hashed)
	usr.IsAdmin = true
	return storeErr(op, "user", repos.User.SaveUser(&usr))
}

func (s *UserService) isReserved(username string) bool {
	return s.adminUsername != "" && strings.EqualFold(strings.TrimSpace(username), s.adminUsername)
}

func (s *UserService) TokenTTL() time.Duration {
	return s.tokenTTL
}
