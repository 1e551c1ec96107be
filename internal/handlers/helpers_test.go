package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"tg-miniapp-backend/internal/middleware"
	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

const testUserHeader = "X-Test-User"

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

func nullLogger() *logrus.Logger {
	log, _ := test.NewNullLogger()
	return log
}

// newRouter stands in for AuthRequired by trusting the test user header.
func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.KeyUserID, c.GetHeader(testUserHeader))
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(testUserHeader, userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func mustMakeUser(t *testing.T, repo repository.UserRepository) *models.User {
	t.Helper()
	u, err := repo.UpsertTelegramUser(context.Background(), repository.UpsertTelegramUserArgs{
		TelegramID: rand.Int63(),
		FirstName:  "user",
	})
	require.NoError(t, err)
	return u
}

func mustMakeProfile(t *testing.T, repo repository.ProfileRepository, userID string) *models.Profile {
	t.Helper()
	p, err := repo.SaveProfile(context.Background(), repository.SaveProfileArgs{
		UserID:      userID,
		DisplayName: "profile",
		Age:         30,
		Gender:      "female",
		LookingFor:  "any",
	})
	require.NoError(t, err)
	return p
}
