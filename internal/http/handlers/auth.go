package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	intconfig "github.com/designarthur/catdump/internal/config"
	"github.com/designarthur/catdump/internal/domain/models"
	"github.com/designarthur/catdump/internal/http/middleware"
	"github.com/designarthur/catdump/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthUser is the user payload returned by login/register.
type AuthUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var (
		user         AuthUser
		passwordHash string
	)
	err := intconfig.DB.QueryRow(`
		SELECT id, name, email, phone, role, password_hash
		FROM users
		WHERE email = ?
	`, utils.NormalizeEmail(req.Email)).Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.Role, &passwordHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Same message as a wrong password.
			RespondError(c, http.StatusUnauthorized, "Invalid email or password")
		} else {
			RespondError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		RespondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tokenString, err := signSessionToken(user.ID, user.Role)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, tokenString, int((24 * time.Hour).Seconds()), "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   tokenString,
		"user":    user,
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	name := utils.NormalizeSpace(req.Name)
	email := utils.NormalizeEmail(req.Email)
	if name == "" || !utils.ValidEmail(email) {
		RespondError(c, http.StatusBadRequest, "Name and a valid email are required")
		return
	}
	if len(req.Password) < 8 {
		RespondError(c, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO users (name, email, phone, address, city, state, zip, role, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, '', '', '', '', ?, ?, NOW(), NOW())
	`, name, email, utils.TrimOrEmpty(req.Phone), string(models.RoleCustomer), string(hash))
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			RespondError(c, http.StatusConflict, "An account with this email already exists")
			return
		}
		RespondError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user": AuthUser{
			ID:    id,
			Name:  name,
			Email: email,
			Phone: utils.TrimOrEmpty(req.Phone),
			Role:  string(models.RoleCustomer),
		},
	})
}

// GET /api/auth/csrf issues the double-submit token for browser clients.
func CSRFToken(c *gin.Context) {
	token := middleware.IssueCSRFToken(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "csrf_token": token})
}

func signSessionToken(userID int64, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(jwtSecret)
}
