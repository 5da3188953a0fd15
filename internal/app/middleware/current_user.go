package middleware

import (
	"paytrack/internal/app/ds"
	"paytrack/internal/app/role"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "userID"
	ctxUserUUID = "userUUID"
	ctxUserRole = "userRole"
)

// CurrentUser - пользователь из JWT текущего запроса
type CurrentUser struct {
	ID   uint
	UUID string
	Role role.Role
}

func setCurrentUser(c *gin.Context, claims *ds.JWTClaims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxUserUUID, claims.UserUUID.String())
	c.Set(ctxUserRole, claims.Role)
}

// GetUserFromContext извлекает пользователя из контекста; ok = false, если запрос без авторизации
func GetUserFromContext(c *gin.Context) (*CurrentUser, bool) {
	id, exists := c.Get(ctxUserID)
	if !exists {
		return nil, false
	}
	userID, ok := id.(uint)
	if !ok || userID == 0 {
		return nil, false
	}

	user := &CurrentUser{ID: userID, UUID: c.GetString(ctxUserUUID)}
	if r, ok := c.Get(ctxUserRole); ok {
		user.Role, _ = r.(role.Role)
	}
	return user, true
}
