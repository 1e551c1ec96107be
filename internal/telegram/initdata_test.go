package telegram

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123456:TEST-TOKEN"

func signedInitData(t *testing.T, authDate time.Time, user string) string {
	t.Helper()
	values := url.Values{}
	values.Set("query_id", "AAE-test")
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	if user != "" {
		values.Set("user", user)
	}
	return SignInitData(values, testBotToken)
}

func TestValidateInitData(t *testing.T) {
	now := time.Now()
	raw := signedInitData(t, now.Add(-time.Minute), `{"id":42,"first_name":"Ann","username":"ann","language_code":"en"}`)

	data, err := ValidateInitData(raw, testBotToken, time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 42, data.User.ID)
	assert.Equal(t, "Ann", data.User.FirstName)
	assert.Equal(t, "ann", data.User.Username)
	assert.Equal(t, "AAE-test", data.QueryID)
	assert.Equal(t, now.Add(-time.Minute).Unix(), data.AuthDate.Unix())
}

func TestValidateInitDataRejects(t *testing.T) {
	now := time.Now()
	user := `{"id":42,"first_name":"Ann"}`

	t.Run("wrong token", func(t *testing.T) {
		_, err := ValidateInitData(signedInitData(t, now, user), "other-token", time.Hour)
		assert.ErrorIs(t, err, ErrInvalidHash)
	})

	t.Run("tampered field", func(t *testing.T) {
		values, err := url.ParseQuery(signedInitData(t, now, user))
		require.NoError(t, err)
		values.Set("user", `{"id":7,"first_name":"Eve"}`)
		_, err = ValidateInitData(values.Encode(), testBotToken, time.Hour)
		assert.ErrorIs(t, err, ErrInvalidHash)
	})

	t.Run("missing hash", func(t *testing.T) {
		_, err := ValidateInitData("auth_date=1&user=%7B%7D", testBotToken, time.Hour)
		assert.ErrorIs(t, err, ErrMissingHash)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := ValidateInitData(signedInitData(t, now.Add(-2*time.Hour), user), testBotToken, time.Hour)
		assert.ErrorIs(t, err, ErrExpired)
	})

	t.Run("age check disabled", func(t *testing.T) {
		_, err := ValidateInitData(signedInitData(t, now.Add(-48*time.Hour), user), testBotToken, 0)
		assert.NoError(t, err)
	})

	t.Run("no user", func(t *testing.T) {
		_, err := ValidateInitData(signedInitData(t, now, ""), testBotToken, time.Hour)
		assert.ErrorIs(t, err, ErrMissingUser)
	})

	t.Run("user without id", func(t *testing.T) {
		_, err := ValidateInitData(signedInitData(t, now, `{"first_name":"Ann"}`), testBotToken, time.Hour)
		assert.ErrorIs(t, err, ErrMalformedData)
	})
}
