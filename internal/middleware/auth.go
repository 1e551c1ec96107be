package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
	"tg-miniapp-backend/internal/services"
	"tg-miniapp-backend/internal/utils"
)

const (
	KeyUserID    = "user_id"
	KeyRole      = "role"
	KeyUser      = "user"
	KeyModerator = "moderator"
)

func abort(c *gin.Context, status int, e *services.Error) {
	c.AbortWithStatusJSON(status, gin.H{"error": e.Code, "message": e.Message})
}

// AuthRequired verifies the bearer token (or ?token= for websocket upgrades) and stores its claims.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			abort(c, http.StatusUnauthorized, services.ErrUnauthorized)
			return
		}

		claims, err := utils.ParseToken(secret, tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, services.ErrUnauthorized)
			return
		}

		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}

// UserRequired admits Mini App users whose account exists and is not banned.
func UserRequired(users repository.UserRepository, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(KeyRole) != utils.RoleUser {
			abort(c, http.StatusForbidden, services.ErrForbidden)
			return
		}

		user, err := users.GetUser(c.Request.Context(), c.GetString(KeyUserID))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				abort(c, http.StatusUnauthorized, services.ErrUnauthorized)
				return
			}
			log.WithError(err).Error("failed to load user for request")
			abort(c, http.StatusInternalServerError, services.Internal(err))
			return
		}
		if user.Status == models.UserStatusBanned {
			abort(c, http.StatusForbidden, services.ErrUserBanned)
			return
		}

		c.Set(KeyUser, user)
		c.Next()
	}
}

// ModeratorRequired admits active moderator accounts.
func ModeratorRequired(mods repository.ModeratorRepository, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(KeyRole) != utils.RoleModerator {
			abort(c, http.StatusForbidden, services.ErrForbidden)
			return
		}

		mod, err := mods.GetModerator(c.Request.Context(), c.GetString(KeyUserID))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				abort(c, http.StatusForbidden, services.ErrForbidden)
				return
			}
			log.WithError(err).Error("failed to load moderator for request")
			abort(c, http.StatusInternalServerError, services.Internal(err))
			return
		}
		if !mod.IsActive {
			abort(c, http.StatusForbidden, services.ErrForbidden)
			return
		}

		c.Set(KeyModerator, mod)
		c.Next()
	}
}
