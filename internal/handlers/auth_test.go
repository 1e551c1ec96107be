package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tg-miniapp-backend/internal/config"
	"tg-miniapp-backend/internal/mocks"
	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository/memstore"
	"tg-miniapp-backend/internal/telegram"
	"tg-miniapp-backend/internal/utils"
)

const botToken = "42:bot-token"

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "secret",
		JWTExpiry:        time.Hour,
		TelegramBotToken: botToken,
		InitDataTTL:      time.Hour,
	}
}

func initData(telegramID int64) string {
	values := url.Values{}
	values.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))
	values.Set("user", `{"id":`+strconv.FormatInt(telegramID, 10)+`,"first_name":"Ann","username":"ann"}`)
	return telegram.SignInitData(values, botToken)
}

func authRouter(h *AuthHandler) *gin.Engine {
	r := newRouter()
	r.POST("/auth/telegram", h.Telegram)
	r.POST("/auth/moderator", h.Moderator)
	return r
}

func TestTelegramAuth(t *testing.T) {
	store := memstore.New()
	cfg := testConfig()
	r := authRouter(NewAuthHandler(store, store, cfg, nullLogger()))

	w := doJSON(t, r, http.MethodPost, "/auth/telegram", "", gin.H{"init_data": initData(777)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	claims, err := utils.ParseToken(cfg.JWTSecret, body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, utils.RoleUser, claims.Role)

	user := body["user"].(map[string]interface{})
	assert.Equal(t, claims.UserID, user["id"])
	assert.EqualValues(t, 777, user["telegram_id"])

	// a second login maps to the same account
	w = doJSON(t, r, http.MethodPost, "/auth/telegram", "", gin.H{"init_data": initData(777)})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, claims.UserID, decode(t, w)["user"].(map[string]interface{})["id"])
}

func TestTelegramAuthRejects(t *testing.T) {
	store := memstore.New()
	r := authRouter(NewAuthHandler(store, store, testConfig(), nullLogger()))

	w := doJSON(t, r, http.MethodPost, "/auth/telegram", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/telegram", "", gin.H{"init_data": "auth_date=1&hash=00"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", decode(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/auth/telegram", "", gin.H{"init_data": initData(5)})
	require.Equal(t, http.StatusOK, w.Code)
	id := decode(t, w)["user"].(map[string]interface{})["id"].(string)
	_, err := store.SetUserStatus(context.Background(), id, models.UserStatusBanned)
	require.NoError(t, err)

	w = doJSON(t, r, http.MethodPost, "/auth/telegram", "", gin.H{"init_data": initData(5)})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "USER_BANNED", decode(t, w)["error"])
}

func TestTelegramAuthStorageFailure(t *testing.T) {
	users := &mocks.UserRepositoryMock{}
	users.On("UpsertTelegramUser", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	r := authRouter(NewAuthHandler(users, memstore.New(), testConfig(), nullLogger()))
	w := doJSON(t, r, http.MethodPost, "/auth/telegram", "", gin.H{"init_data": initData(1)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "INTERNAL_ERROR", body["error"])
	assert.NotContains(t, body["message"], "connection reset")
	users.AssertExpectations(t)
}

func TestModeratorLogin(t *testing.T) {
	store := memstore.New()
	hash, err := utils.HashPassword("hunter22")
	require.NoError(t, err)
	mod, err := store.CreateModerator(context.Background(), "Mod@Example.com", "Mod", hash)
	require.NoError(t, err)

	cfg := testConfig()
	r := authRouter(NewAuthHandler(store, store, cfg, nullLogger()))

	w := doJSON(t, r, http.MethodPost, "/auth/moderator", "", gin.H{"email": "mod@example.com", "password": "hunter22"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	claims, err := utils.ParseToken(cfg.JWTSecret, decode(t, w)["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, mod.ID, claims.UserID)
	assert.Equal(t, utils.RoleModerator, claims.Role)

	w = doJSON(t, r, http.MethodPost, "/auth/moderator", "", gin.H{"email": "mod@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/moderator", "", gin.H{"email": "nobody@example.com", "password": "hunter22"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/moderator", "", gin.H{"email": "not-an-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
