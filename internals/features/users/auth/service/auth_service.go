package service

import (
	"errors"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gerejaku_backend/internals/configs"
	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/users/auth/model"
	helper "gerejaku_backend/internals/helpers"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

var validate = validator.New()

/* ========================== REGISTER ========================== */
// POST /api/auth/register
func Register(db *gorm.DB, c *fiber.Ctx) error {
	var req struct {
		UserName string     `json:"user_name" validate:"required,min=3,max=50"`
		Email    string     `json:"email"     validate:"required,email"`
		Password string     `json:"password"  validate:"required,min=8"`
		ChurchID *uuid.UUID `json:"church_id" validate:"omitempty,uuid4"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := model.UserModel{
		UserName: req.UserName,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashed),
		ChurchID: req.ChurchID,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "Email already registered")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to register user")
	}

	return helper.JsonCreated(c, "Registration successful", fiber.Map{
		"id":        user.ID,
		"user_name": user.UserName,
		"email":     user.Email,
		"role":      user.Role,
	})
}

/* ========================== LOGIN ========================== */
// POST /api/auth/login
func Login(db *gorm.DB, c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"    validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var user model.UserModel
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}
	if !user.IsActive {
		return fiber.NewError(fiber.StatusForbidden, "Account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}

	return issueTokens(c, &user)
}

/* ========================== LOGIN GOOGLE ========================== */
// POST /api/auth/login-google
func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var req struct {
		IDToken string `json:"id_token" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if configs.GoogleClientID == "" {
		return fiber.NewError(fiber.StatusInternalServerError, "Google login is not configured")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(req.IDToken, []string{configs.GoogleClientID}); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid Google token")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(req.IDToken)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid Google token")
	}

	email := strings.ToLower(strings.TrimSpace(claimSet.Email))
	var user model.UserModel
	err = db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = model.UserModel{
			UserName: claimSet.Name,
			Email:    email,
			Password: "-", // Google accounts never log in by password
			GoogleID: &claimSet.Sub,
		}
		if err := db.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create user")
		}
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "DB error")
	}
	if !user.IsActive {
		return fiber.NewError(fiber.StatusForbidden, "Account is disabled")
	}

	return issueTokens(c, &user)
}

/* ========================== LOGOUT ========================== */
// POST /api/auth/logout
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	tokenString := helper.GetRawAccessToken(c)
	if tokenString == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing token")
	}

	expiredAt := time.Now().Add(accessTokenTTL)
	if token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{}); err == nil {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if exp, ok := claims["exp"].(float64); ok {
				expiredAt = time.Unix(int64(exp), 0)
			}
		}
	}

	if err := db.Create(&model.TokenBlacklistModel{
		Token:     tokenString,
		ExpiredAt: expiredAt,
	}).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to revoke token")
	}

	c.ClearCookie("access_token", "refresh_token")
	return helper.JsonOK(c, "Logged out", nil)
}

/* ========================== CHANGE PASSWORD ========================== */
// POST /api/auth/change-password
func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req struct {
		OldPassword string `json:"old_password" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var user model.UserModel
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Old password is wrong")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password")
	}
	if err := db.Model(&model.UserModel{}).
		Where("id = ?", user.ID).
		Update("password", string(hashed)).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update password")
	}

	return helper.JsonUpdated(c, "Password updated", nil)
}

/* ========================== REFRESH TOKEN ========================== */
// POST /api/auth/refresh-token
func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	refreshCookie := helper.GetRefreshTokenFromCookie(c)
	if refreshCookie == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing refresh token")
	}
	if configs.JWTRefreshSecret == "" {
		return fiber.NewError(fiber.StatusInternalServerError, "Missing refresh secret")
	}

	tok, err := jwt.Parse(refreshCookie, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return fiber.NewError(fiber.StatusUnauthorized, "Refresh token invalid")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Refresh token invalid")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Refresh token invalid")
	}

	var user model.UserModel
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "User not found")
	}
	if !user.IsActive {
		return fiber.NewError(fiber.StatusForbidden, "Account is disabled")
	}

	return issueTokens(c, &user)
}

/* ========================== TOKEN ISSUING ========================== */

func churchAdminIDs(user *model.UserModel) []string {
	if user.ChurchID == nil {
		return nil
	}
	switch user.Role {
	case constants.RoleOwner, constants.RoleAdmin, constants.RoleStaff:
		return []string{user.ChurchID.String()}
	}
	return nil
}

func issueTokens(c *fiber.Ctx, user *model.UserModel) error {
	if configs.JWTSecret == "" || configs.JWTRefreshSecret == "" {
		log.Println("[ERROR] JWT secrets are not configured")
		return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT configuration")
	}

	now := time.Now()
	accessClaims := jwt.MapClaims{
		"sub":              user.ID.String(),
		"user_name":        user.UserName,
		"role":             user.Role,
		"church_admin_ids": churchAdminIDs(user),
		"iat":              now.Unix(),
		"exp":              now.Add(accessTokenTTL).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to sign access token")
	}

	refreshClaims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTokenTTL).Unix(),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(configs.JWTRefreshSecret))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to sign refresh token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  now.Add(accessTokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  now.Add(refreshTokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return helper.JsonOK(c, "Login successful", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": fiber.Map{
			"id":               user.ID,
			"user_name":        user.UserName,
			"email":            user.Email,
			"role":             user.Role,
			"church_admin_ids": churchAdminIDs(user),
		},
	})
}
