package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/formbuilder-go/internal/application"
	"github.com/linskybing/formbuilder-go/internal/domain/user"
	"github.com/linskybing/formbuilder-go/pkg/response"
	"github.com/linskybing/formbuilder-go/pkg/utils"
)

type UserHandler struct {
	svc          *application.UserService
	secureCookie bool
}

func NewUserHandler(svc *application.UserService, secureCookie bool) *UserHandler {
	return &UserHandler{svc: svc, secureCookie: secureCookie}
}

// Register godoc
// @Summary User registration
// @Tags auth
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param input body user.CreateUserInput true "User registration info"
// @Success 201 {object} response.Envelope{data=user.User} "User registered successfully"
// @Failure 400 {object} response.Envelope "Invalid input"
// @Failure 422 {object} response.Envelope "Username already taken"
// @Router /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input user.CreateUserInput
	if !bind(c, &input) {
		return
	}

	usr, err := h.svc.RegisterUser(utils.RequestContext(c), input)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "User registered successfully", usr)
}

// Login godoc
// @Summary User login
// @Tags auth
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} response.TokenResponse "JWT token and user info"
// @Failure 400 {object} response.Envelope "Invalid input"
// @Failure 401 {object} response.Envelope "Invalid username or password"
// @Router /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input user.LoginInput
	if !bind(c, &input) {
		return
	}

	tok, err := h.svc.LoginUser(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", tok.Token, int(h.svc.TokenTTL().Seconds()), "/", "", h.secureCookie, true)

	c.JSON(http.StatusOK, response.TokenResponse{
		Token:    tok.Token,
		UID:      tok.UserID,
		Username: tok.Username,
		IsAdmin:  tok.IsAdmin,
	})
}

// Logout godoc
// @Summary User logout
// @Tags auth
// @Produce json
// @Success 200 {object} response.Envelope "Logout successful"
// @Router /logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", h.secureCookie, true)
	response.Success(c, http.StatusOK, "Logout successful", nil)
}
