// internals/features/users/auth/service/token_service.go
package service

import (
	"crypto/sha256"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leanmaker_backend/internals/configs"
	authModel "leanmaker_backend/internals/features/users/auth/model"
	userModel "leanmaker_backend/internals/features/users/user/model"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// AuthSubject is the small value object token verification yields; handlers
// fetch full entities only when they need them.
type AuthSubject struct {
	UserID    uuid.UUID
	Email     string
	Role      string
	ExpiresAt time.Time
}

func nowUTC() time.Time { return time.Now().UTC() }

func computeRefreshHash(token string) []byte {
	h := sha256.Sum256([]byte(token + configs.JWTRefreshSecret))
	return h[:]
}

func buildAccessClaims(u *userModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": u.ID.String(),
		"email":   u.Email,
		"role":    u.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(configs.AccessTokenTTL).Unix(),
	}
}

func buildRefreshClaims(userID uuid.UUID, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(configs.RefreshTokenTTL).Unix(),
	}
}

// IssueTokenPair signs a fresh access+refresh pair and persists the refresh
// hash for rotation.
func IssueTokenPair(db *gorm.DB, u *userModel.UserModel, userAgent, ip string) (access, refresh string, err error) {
	now := nowUTC()

	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(u, now)).
		SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return "", "", err
	}

	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, buildRefreshClaims(u.ID, now)).
		SignedString([]byte(configs.JWTRefreshSecret))
	if err != nil {
		return "", "", err
	}

	rt := authModel.RefreshToken{
		UserID:    u.ID,
		TokenHash: computeRefreshHash(refresh),
		ExpiresAt: now.Add(configs.RefreshTokenTTL),
	}
	if ua := strings.TrimSpace(userAgent); ua != "" {
		rt.UserAgent = &ua
	}
	if ip = strings.TrimSpace(ip); ip != "" {
		rt.IP = &ip
	}
	if err = db.Create(&rt).Error; err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// VerifyAccessToken checks signature and expiry and returns the subject.
// It does NOT hit the database; callers decide whether the user must still
// exist.
func VerifyAccessToken(tokenString string) (AuthSubject, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return []byte(configs.JWTSecret), nil
	})
	if err != nil || !tok.Valid {
		if err != nil && strings.Contains(err.Error(), "expired") {
			return AuthSubject{}, ErrTokenExpired
		}
		return AuthSubject{}, ErrTokenInvalid
	}

	idStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(idStr)
	if err != nil {
		return AuthSubject{}, ErrTokenInvalid
	}

	exp, _ := claims["exp"].(float64)
	expAt := time.Unix(int64(exp), 0).UTC()
	if !expAt.After(nowUTC()) {
		return AuthSubject{}, ErrTokenExpired
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return AuthSubject{UserID: userID, Email: email, Role: role, ExpiresAt: expAt}, nil
}

// RotateRefreshToken validates a refresh JWT against the stored hash,
// revokes it and issues a new pair.
func RotateRefreshToken(db *gorm.DB, refreshToken, userAgent, ip string) (access, refresh string, u *userModel.UserModel, err error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return "", "", nil, ErrTokenInvalid
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return "", "", nil, ErrTokenInvalid
	}

	// the stored hash must still be live
	var rt authModel.RefreshToken
	if err := db.
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", computeRefreshHash(refreshToken), nowUTC()).
		First(&rt).Error; err != nil {
		return "", "", nil, ErrTokenInvalid
	}

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return "", "", nil, ErrTokenInvalid
	}
	if !user.IsActive {
		return "", "", nil, ErrTokenInvalid
	}

	// ROTATE: revoke the old token before issuing the new one
	now := nowUTC()
	if err := db.Model(&authModel.RefreshToken{}).
		Where("id = ?", rt.ID).
		Update("revoked_at", now).Error; err != nil {
		return "", "", nil, err
	}

	access, refresh, err = IssueTokenPair(db, &user, userAgent, ip)
	if err != nil {
		return "", "", nil, err
	}
	return access, refresh, &user, nil
}

// RevokeUserRefreshTokens revokes every live refresh token of a user
// (logout-everywhere semantics).
func RevokeUserRefreshTokens(db *gorm.DB, userID uuid.UUID) error {
	return db.Model(&authModel.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", nowUTC()).Error
}

// BlacklistAccessToken stores the raw access token until its natural expiry.
func BlacklistAccessToken(db *gorm.DB, tokenString string, expiresAt time.Time) error {
	entry := authModel.TokenBlacklist{
		Token:     tokenString,
		ExpiredAt: expiresAt,
	}
	return db.Create(&entry).Error
}
