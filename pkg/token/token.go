package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/hertz-contrib/jwt"

	"SpendWise/config"
	pkgerrors "SpendWise/pkg/errors"
)

const (
	IdentityKey = "uid"
)

var (
	errUnexpectedSigningMethod = errors.New("unexpected signing method")
	errInvalidToken            = errors.New("invalid token")
	errInvalidTokenType        = errors.New("invalid token type")
	errUserIDNotFound          = errors.New("user id not found in claims")

	// middleware 和本包共用同一个生成器实例
	sharedGenerator *jwt.HertzJWTMiddleware
)

func Init() error {
	if config.Cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	var err error
	sharedGenerator, err = jwt.New(&jwt.HertzJWTMiddleware{
		Key:         []byte(config.Cfg.JWTSecret),
		Timeout:     accessTokenTTL(),
		MaxRefresh:  refreshTokenTTL(),
		IdentityKey: IdentityKey,
		TimeFunc:    time.Now,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token generator: %w", err)
	}

	return nil
}

// GetGenerator 获取共享的 token 生成器（供 middleware 使用）
func GetGenerator() *jwt.HertzJWTMiddleware {
	return sharedGenerator
}

func accessTokenTTL() time.Duration {
	return time.Duration(config.Cfg.JWTExpireMinutes) * time.Minute
}

func refreshTokenTTL() time.Duration {
	return time.Duration(config.Cfg.JWTRefreshDays) * 24 * time.Hour
}

func signClaims(claims jwtv5.MapClaims) (string, error) {
	obj := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return obj.SignedString([]byte(config.Cfg.JWTSecret))
}

// GenerateTokenPair 生成 access token 和 refresh token
func GenerateTokenPair(userID string) (accessToken, refreshToken string, expiresIn int, err error) {
	if sharedGenerator == nil {
		return "", "", 0, pkgerrors.TokenGeneratorNotInit
	}

	now := time.Now()
	expiresAt := now.Add(accessTokenTTL())

	accessToken, err = signClaims(jwtv5.MapClaims{
		IdentityKey: userID,
		"iat":       now.Unix(),
		"exp":       expiresAt.Unix(),
	})
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err = signClaims(jwtv5.MapClaims{
		IdentityKey: userID,
		"iat":       now.Unix(),
		"type":      "refresh",
		"exp":       now.Add(refreshTokenTTL()).Unix(),
	})
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresIn = int(time.Until(expiresAt).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}

	return accessToken, refreshToken, expiresIn, nil
}

// ValidateRefreshToken 验证 refresh token 并返回用户 ID
func ValidateRefreshToken(tokenString string) (string, error) {
	parsed, err := jwtv5.ParseWithClaims(tokenString, jwtv5.MapClaims{}, func(t *jwtv5.Token) (interface{}, error) {
		if t.Method != jwtv5.SigningMethodHS256 {
			return nil, fmt.Errorf("%w: %v, expected HS256", errUnexpectedSigningMethod, t.Header["alg"])
		}
		return []byte(config.Cfg.JWTSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid {
		return "", errInvalidToken
	}

	claims, ok := parsed.Claims.(jwtv5.MapClaims)
	if !ok {
		return "", errInvalidToken
	}

	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return "", errInvalidTokenType
	}

	switch uid := claims[IdentityKey].(type) {
	case string:
		return uid, nil
	case float64:
		return strconv.FormatInt(int64(uid), 10), nil
	default:
		return "", errUserIDNotFound
	}
}
