package marketapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/agriconnect/agrimarket/internal/domain"
	"github.com/agriconnect/agrimarket/internal/webserver"
	"github.com/agriconnect/agrimarket/pkg/common"
)

func registerAuthRoutes() {
	webserver.ApiPOST("/auth/signup", signup)
	webserver.ApiPOST("/auth/login", login)
}

type signupPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func signup(c echo.Context) error {
	var payload signupPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse signup request", nil)
	}

	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Please provide all required fields", nil)
	}

	var existing domain.User
	if err := GetDB(c).Where("email = ?", payload.Email).First(&existing).Error; err == nil {
		return fail(c, http.StatusBadRequest, "DUPLICATE_USER", "User with this email already exists", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Server error during sign up", nil)
	}

	user := domain.User{
		ID:       common.UUIDint64(),
		Name:     payload.Name,
		Email:    payload.Email,
		Password: string(hashed),
	}
	if err := GetDB(c).Create(&user).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Server error during sign up", nil)
	}

	return created(c, echo.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login request", nil)
	}
	if payload.Email == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Please provide both email and password", nil)
	}

	var user domain.User
	err := GetDB(c).Where("email = ?", strings.ToLower(strings.TrimSpace(payload.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "USER_NOT_FOUND", "User not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Server error during login", nil)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_PASSWORD", "Invalid password", nil)
	}

	token, err := webserver.CreateToken(GetApp(c).Config().Web.Secret, user.ID, user.Name)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Server error during login", nil)
	}

	GetDB(c).Model(&domain.User{}).Where("id = ?", user.ID).Update("last_login", time.Now())

	return ok(c, echo.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"token": token,
	})
}
