package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tg-miniapp-backend/internal/config"
	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
	"tg-miniapp-backend/internal/services"
	"tg-miniapp-backend/internal/telegram"
	"tg-miniapp-backend/internal/utils"
)

type AuthHandler struct {
	users repository.UserRepository
	mods  repository.ModeratorRepository
	cfg   *config.Config
	log   *logrus.Entry
}

type TelegramAuthRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

type ModeratorLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      *models.User      `json:"user,omitempty"`
	Moderator *models.Moderator `json:"moderator,omitempty"`
}

func NewAuthHandler(users repository.UserRepository, mods repository.ModeratorRepository, cfg *config.Config, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		users: users,
		mods:  mods,
		cfg:   cfg,
		log:   log.WithField("handler", "auth"),
	}
}

// Telegram exchanges Mini App init data for an API token.
func (h *AuthHandler) Telegram(c *gin.Context) {
	var req TelegramAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	data, err := telegram.ValidateInitData(req.InitData, h.cfg.TelegramBotToken, h.cfg.InitDataTTL)
	if err != nil {
		h.log.WithError(err).Debug("rejected init data")
		respondError(c, h.log, services.ErrUnauthorized)
		return
	}

	tu := data.User
	user, err := h.users.UpsertTelegramUser(c.Request.Context(), repository.UpsertTelegramUserArgs{
		TelegramID: tu.ID,
		Username:   optional(tu.Username),
		FirstName:  tu.FirstName,
		LastName:   optional(tu.LastName),
		LangCode:   optional(tu.LanguageCode),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if user.IsBanned() {
		respondError(c, h.log, services.ErrUserBanned)
		return
	}

	h.issue(c, user.ID, utils.RoleUser, func(r *AuthResponse) { r.User = user })
}

// Moderator logs a moderator in with email and password.
func (h *AuthHandler) Moderator(c *gin.Context) {
	var req ModeratorLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	mod, err := h.mods.GetModeratorByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, h.log, services.ErrUnauthorized)
			return
		}
		respondError(c, h.log, err)
		return
	}
	if !utils.CheckPassword(mod.PasswordHash, req.Password) {
		respondError(c, h.log, services.ErrUnauthorized)
		return
	}
	if !mod.IsActive {
		respondError(c, h.log, services.ErrForbidden)
		return
	}

	h.issue(c, mod.ID, utils.RoleModerator, func(r *AuthResponse) { r.Moderator = mod })
}

func (h *AuthHandler) issue(c *gin.Context, id, role string, fill func(*AuthResponse)) {
	token, err := utils.GenerateToken(h.cfg.JWTSecret, id, role, h.cfg.JWTExpiry)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := &AuthResponse{Token: token, ExpiresAt: time.Now().Add(h.cfg.JWTExpiry)}
	fill(resp)
	c.JSON(http.StatusOK, resp)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
