package middleware

import (
	"net/http"
	"strings"

	"paytrack/internal/app/config"
	"paytrack/internal/app/ds"
	"paytrack/internal/app/dto"
	"paytrack/internal/app/redis"
	"paytrack/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
)

type AuthMiddleware struct {
	RedisClient *redis.Client
	Config      *config.Config
}

func NewAuthMiddleware(redisClient *redis.Client, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		RedisClient: redisClient,
		Config:      cfg,
	}
}

// WithAuthCheck middleware для проверки авторизации с ролями
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		jwtStr := BearerToken(gCtx)
		if jwtStr == "" {
			abort(gCtx, http.StatusUnauthorized, "Требуется авторизация")
			return
		}

		// Проверяем токен в blacklist Redis
		if am.RedisClient != nil {
			err := am.RedisClient.CheckJWTInBlacklist(gCtx.Request.Context(), jwtStr)
			if err == nil {
				// Токен в blacklist
				abort(gCtx, http.StatusUnauthorized, "Сессия завершена")
				return
			}
		}

		// Парсим и проверяем JWT токен
		token, err := am.ParseJWTToken(jwtStr)
		if err != nil {
			logrus.Debugf("jwt rejected: %v", err)
			abort(gCtx, http.StatusUnauthorized, "Недействительный токен")
			return
		}

		claims, ok := token.Claims.(*ds.JWTClaims)
		if !ok || !token.Valid {
			abort(gCtx, http.StatusUnauthorized, "Недействительный токен")
			return
		}

		// Проверяем роли пользователя
		if len(assignedRoles) > 0 && !hasRequiredRole(claims.Role, assignedRoles) {
			abort(gCtx, http.StatusForbidden, "Недостаточно прав")
			return
		}

		// Сохраняем данные пользователя в контексте для последующего использования
		setCurrentUser(gCtx, claims)

		gCtx.Next()
	}
}

// ParseJWTToken парсит и валидирует JWT токен
func (am *AuthMiddleware) ParseJWTToken(tokenString string) (*jwt.Token, error) {
	return ParseJWT(tokenString, am.Config.JWT.Token)
}

// ParseJWT проверяет подпись HMAC и срок действия токена
func ParseJWT(tokenString, secret string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.NewValidationError("unexpected signing method", jwt.ValidationErrorSignatureInvalid)
		}
		return []byte(secret), nil
	})
}

// BearerToken достаёт токен из заголовка Authorization
func BearerToken(gCtx *gin.Context) string {
	jwtStr := gCtx.GetHeader("Authorization")
	// Убираем префикс "Bearer " если он есть
	if len(jwtStr) > 7 && strings.EqualFold(jwtStr[:7], "Bearer ") {
		jwtStr = jwtStr[7:]
	}
	return strings.TrimSpace(jwtStr)
}

// hasRequiredRole проверяет, есть ли у пользователя необходимая роль
func hasRequiredRole(userRole role.Role, requiredRoles []role.Role) bool {
	for _, requiredRole := range requiredRoles {
		if userRole == requiredRole {
			return true
		}
	}
	return false
}

func abort(gCtx *gin.Context, status int, message string) {
	gCtx.AbortWithStatusJSON(status, dto.Envelope{Success: false, Message: message})
}
