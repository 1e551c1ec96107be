package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-miniapp-backend/internal/config"
	"tg-miniapp-backend/internal/events"
	"tg-miniapp-backend/internal/handlers"
	"tg-miniapp-backend/internal/repository/memstore"
	"tg-miniapp-backend/internal/services"
	"tg-miniapp-backend/internal/telegram"
	"tg-miniapp-backend/internal/utils"
	"tg-miniapp-backend/internal/websocket"
)

const testBotToken = "1:router-test"

func init() {
	gin.SetMode(gin.TestMode)
	if err := handlers.RegisterValidators(); err != nil {
		panic(err)
	}
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *memstore.Store
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	log, _ := test.NewNullLogger()
	cfg := &config.Config{
		JWTSecret:          "router-secret",
		JWTExpiry:          time.Hour,
		TelegramBotToken:   testBotToken,
		InitDataTTL:        time.Hour,
		CORSAllowedOrigins: []string{"https://web.telegram.org"},
	}
	store := memstore.New()
	router := setupRoutes(routerDeps{
		Config:  cfg,
		Logger:  log,
		Repo:    store,
		Swipes:  services.NewSwipeService(store, events.Nop{}, log),
		Reports: services.NewReportService(store, events.Nop{}, log),
		Hub:     websocket.NewHub(log),
	})
	return &testServer{t: t, router: router, store: store, cfg: cfg}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

// login signs in a telegram user and creates their dating profile.
func (s *testServer) login(telegramID int64) (token, userID, profileID string) {
	s.t.Helper()
	values := url.Values{}
	values.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))
	values.Set("user", fmt.Sprintf(`{"id":%d,"first_name":"u%d"}`, telegramID, telegramID))

	code, body := s.do(http.MethodPost, "/api/v1/auth/telegram", "", gin.H{"init_data": telegram.SignInitData(values, testBotToken)})
	require.Equal(s.t, http.StatusOK, code, body)
	token = body["token"].(string)
	userID = body["user"].(map[string]interface{})["id"].(string)

	code, body = s.do(http.MethodPut, "/api/v1/dating/profile", token, gin.H{
		"display_name": fmt.Sprintf("u%d", telegramID), "age": 30, "gender": "other", "looking_for": "any",
	})
	require.Equal(s.t, http.StatusOK, code, body)
	return token, userID, body["id"].(string)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "miniapp_http_requests_total")
}

func TestRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodGet, "/api/v1/dating/feed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", body["error"])

	userToken, _, _ := s.login(1)
	code, _ = s.do(http.MethodGet, "/api/v1/admin/stats", userToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	modToken, err := utils.GenerateToken(s.cfg.JWTSecret, "00000000-0000-0000-0000-000000000001", utils.RoleModerator, time.Hour)
	require.NoError(t, err)
	code, _ = s.do(http.MethodGet, "/api/v1/dating/feed", modToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestSwipeToMatchFlow(t *testing.T) {
	s := newTestServer(t)
	aToken, aID, aProfile := s.login(10)
	bToken, bID, bProfile := s.login(20)

	code, body := s.do(http.MethodGet, "/api/v1/dating/feed", aToken, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["profiles"], 1)

	code, body = s.do(http.MethodPost, "/api/v1/dating/swipes", aToken, gin.H{"profile_id": bProfile, "decision": "like"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, false, body["match_created"])

	code, body = s.do(http.MethodPost, "/api/v1/dating/swipes", bToken, gin.H{"profile_id": aProfile, "decision": "like"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, body["match_created"])

	code, body = s.do(http.MethodGet, "/api/v1/dating/matches", aToken, nil)
	require.Equal(t, http.StatusOK, code)
	matches := body["matches"].([]interface{})
	require.Len(t, matches, 1)
	assert.Equal(t, bID, matches[0].(map[string]interface{})["user_id"])

	code, body = s.do(http.MethodGet, "/api/v1/dating/matches", bToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, aID, body["matches"].([]interface{})[0].(map[string]interface{})["user_id"])
}

func TestReportEscalationBansUser(t *testing.T) {
	s := newTestServer(t)
	targetToken, targetID, _ := s.login(100)

	for i := 1; i <= services.EscalationThreshold; i++ {
		token, _, _ := s.login(int64(100 + i))
		code, body := s.do(http.MethodPost, "/api/v1/dating/reports", token, gin.H{"user_id": targetID, "reason": "spam"})
		require.Equal(t, http.StatusCreated, code, body)
		assert.EqualValues(t, i, body["open_reports"])
		assert.Equal(t, i == services.EscalationThreshold, body["banned_after_this_report"])
	}

	code, body := s.do(http.MethodGet, "/api/v1/dating/profile", targetToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "USER_BANNED", body["error"])
}
