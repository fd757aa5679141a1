package server

import (
	"fmt"
	"strconv"
	"time"

	"socialconnect/internal/cache"
	"socialconnect/internal/models"
	"socialconnect/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// tokenPair is the response body for login, register and refresh.
type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username, email, and password are required"))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if createErr := s.userRepo.Create(c.Context(), user); createErr != nil {
		return models.RespondWithError(c, mapServiceError(createErr), createErr)
	}

	tokens, err := s.generateTokenPair(user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":    user,
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var user *models.User
	var err error
	switch {
	case req.Email != "":
		user, err = s.userRepo.GetByEmail(c.Context(), req.Email)
	case req.Username != "":
		user, err = s.userRepo.GetByUsername(c.Context(), req.Username)
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username or email is required"))
	}
	if err != nil {
		// A missing account and a wrong password are indistinguishable.
		if mapServiceError(err) == fiber.StatusNotFound {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid credentials"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	tokens, err := s.generateTokenPair(user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"user":    user,
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
	})
}

// RefreshToken handles POST /api/auth/token/refresh. Refresh tokens are
// rotated: the presented token is denylisted for its remaining lifetime and
// a fresh pair is issued.
func (s *Server) RefreshToken(c *fiber.Ctx) error {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.BodyParser(&req); err != nil || req.Refresh == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Refresh token is required"))
	}

	userID, jti, expiresAt, err := s.parseRefreshToken(req.Refresh)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}
	if cache.IsTokenDenylisted(c.Context(), jti) {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Token has been revoked"))
	}

	// The account may have been removed since the token was issued.
	if _, err := s.userRepo.GetByID(c.Context(), userID); err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	tokens, err := s.generateTokenPair(userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if remaining := time.Until(expiresAt); remaining > 0 {
		_ = cache.DenylistToken(c.Context(), jti, remaining)
	}

	return c.JSON(tokens)
}

// ChangePassword handles POST /api/auth/change-password
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError("old_password", "Current password is incorrect"))
	}
	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError("new_password", err.Error()))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user.Password = string(hashedPassword)
	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"detail": "Password changed"})
}

// Logout handles POST /api/auth/logout by denylisting the refresh token.
func (s *Server) Logout(c *fiber.Ctx) error {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.BodyParser(&req); err != nil || req.Refresh == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Refresh token is required"))
	}

	_, jti, expiresAt, err := s.parseRefreshToken(req.Refresh)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}

	if remaining := time.Until(expiresAt); remaining > 0 {
		_ = cache.DenylistToken(c.Context(), jti, remaining)
	}

	return c.JSON(fiber.Map{"detail": "Logged out"})
}

// generateTokenPair issues a short-lived access token and a refresh token
// carrying a jti so it can be revoked.
func (s *Server) generateTokenPair(userID uint) (tokenPair, error) {
	if s.config.JWTSecret == "" {
		return tokenPair{}, fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	sub := strconv.FormatUint(uint64(userID), 10)

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        sub,
		"token_type": "access",
		"exp":        now.Add(accessTokenTTL).Unix(),
		"iat":        now.Unix(),
	})
	accessStr, err := access.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return tokenPair{}, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        sub,
		"token_type": "refresh",
		"jti":        uuid.NewString(),
		"exp":        now.Add(refreshTokenTTL).Unix(),
		"iat":        now.Unix(),
	})
	refreshStr, err := refresh.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return tokenPair{}, err
	}

	return tokenPair{Access: accessStr, Refresh: refreshStr}, nil
}

// parseRefreshToken validates a refresh token and returns its subject, jti
// and expiry. Access tokens are rejected so they cannot be replayed through
// the refresh endpoint.
func (s *Server) parseRefreshToken(tokenString string) (uint, string, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", time.Time{}, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", time.Time{}, models.NewUnauthorizedError("Invalid token claims")
	}
	if typ, _ := claims["token_type"].(string); typ != "refresh" {
		return 0, "", time.Time{}, models.NewUnauthorizedError("Invalid token type")
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, "", time.Time{}, models.NewUnauthorizedError("Invalid user ID in token")
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return 0, "", time.Time{}, models.NewUnauthorizedError("Invalid token claims")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, "", time.Time{}, models.NewUnauthorizedError("Invalid token claims")
	}

	return uint(userID), jti, exp.Time, nil
}
