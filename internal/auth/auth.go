package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tripdesk/registration-api/internal/config"
	"github.com/tripdesk/registration-api/internal/models"
	"gorm.io/gorm"
)

const TokenDuration = 24 * time.Hour

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// AuthInput is embedded in protected huma operations so the raw Cookie
// header is available to Authorize.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Session cookie carrying the auth_token JWT"`
}

func (h *AuthHandler) GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// Authorize extracts and validates the auth_token cookie from a raw Cookie
// header and returns the authenticated user ID.
func (h *AuthHandler) Authorize(ctx context.Context, cookieHeader string) (uint, error) {
	if cookieHeader == "" {
		return 0, huma.Error401Unauthorized("Unauthorized: no token found")
	}

	req := http.Request{Header: http.Header{"Cookie": {cookieHeader}}}
	cookie, err := req.Cookie("auth_token")
	if err != nil {
		return 0, huma.Error401Unauthorized("Unauthorized: no token found")
	}

	userID, err := h.parseToken(cookie.Value)
	if err != nil {
		return 0, huma.Error401Unauthorized("Unauthorized: invalid token")
	}
	if userID == 0 {
		return 0, huma.Error401Unauthorized("Unauthorized: invalid token claims")
	}

	return userID, nil
}

// AuthorizeAdmin is Authorize plus an admin check on the user record.
func (h *AuthHandler) AuthorizeAdmin(ctx context.Context, cookieHeader string) (uint, error) {
	userID, err := h.Authorize(ctx, cookieHeader)
	if err != nil {
		return 0, err
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return 0, huma.Error401Unauthorized("Unauthorized: unknown user")
	}
	if !user.IsAdmin {
		return 0, huma.Error403Forbidden("Access denied: admin role required")
	}

	return userID, nil
}

func (h *AuthHandler) parseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	return uint(userIDFloat), nil
}

type MeInput struct {
	AuthInput
}

type MeOutput struct {
	Body struct {
		ID          uint   `json:"id"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		Email       string `json:"email"`
		MobilePhone string `json:"mobile_phone"`
		IsAdmin     bool   `json:"is_admin"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *MeInput) (*MeOutput, error) {
	userID, err := h.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}

	res := &MeOutput{}
	res.Body.ID = user.ID
	res.Body.FirstName = user.FirstName
	res.Body.LastName = user.LastName
	res.Body.Email = user.Email
	res.Body.MobilePhone = user.MobilePhone
	res.Body.IsAdmin = user.IsAdmin
	return res, nil
}
