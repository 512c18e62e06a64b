package handler

import (
	"errors"
	"net/http"
	"strings"

	"tablelog/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Причина отказа в аутентификации. Решение о том, auth-ошибка это или нет,
// принимается один раз здесь, на границе - call sites дальше по цепочке
// видят только user_id и не гадают по полям ошибок.
var (
	ErrSessionMissing = errors.New("session token missing")
	ErrSessionInvalid = errors.New("session token invalid")
	ErrSessionExpired = errors.New("session token expired")
)

// JWTClaims структура claims для JWT токена внешнего identity provider
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware проверяет JWT токен в запросах
type AuthMiddleware struct {
	jwtSecret string
}

// NewAuthMiddleware создает новый middleware для аутентификации
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// Authenticate проверяет токен и кладёт user_id в контекст Gin.
// Протухшие и невалидные сессии - ожидаемый шум, логируются на debug,
// а не подавлением глобальных логгеров.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := m.authenticate(c.GetHeader("Authorization"))
		if err != nil {
			logger.Debug().
				Err(err).
				Str("path", c.Request.URL.Path).
				Msg("Session rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrSessionMissing
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrSessionInvalid
	}

	token, err := jwt.ParseWithClaims(parts[1], &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrSessionExpired
		}
		return "", ErrSessionInvalid
	}
	if !token.Valid {
		return "", ErrSessionInvalid
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || claims.UserID == "" {
		return "", ErrSessionInvalid
	}

	return claims.UserID, nil
}

// currentUserID достаёт user_id аутентифицированного пользователя из контекста
func currentUserID(c *gin.Context) string {
	userID, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	if s, ok := userID.(string); ok {
		return s
	}
	return ""
}
