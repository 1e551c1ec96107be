package telegram

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"
)

var (
	ErrMissingHash   = errors.New("init data has no hash")
	ErrInvalidHash   = errors.New("init data signature mismatch")
	ErrExpired       = errors.New("init data expired")
	ErrMissingUser   = errors.New("init data has no user")
	ErrMalformedData = errors.New("malformed init data")
)

// WebAppUser is the user object Telegram embeds in Mini App init data.
type WebAppUser struct {
	ID           int64
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
	IsBot        bool
}

// InitData is the verified content of window.Telegram.WebApp.initData.
type InitData struct {
	User     WebAppUser
	AuthDate time.Time
	QueryID  string
}

// ValidateInitData checks the signature of raw init data against the bot token and rejects
// data older than ttl (ttl <= 0 disables the age check).
func ValidateInitData(raw, botToken string, ttl time.Duration) (*InitData, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	if err := initdata.Validate(raw, botToken, ttl); err != nil {
		switch {
		case errors.Is(err, initdata.ErrSignMissing):
			return nil, ErrMissingHash
		case errors.Is(err, initdata.ErrSignInvalid):
			return nil, ErrInvalidHash
		case errors.Is(err, initdata.ErrExpired):
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	if values.Get("user") == "" {
		return nil, ErrMissingUser
	}
	data, err := initdata.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	if data.User.ID == 0 {
		return nil, fmt.Errorf("%w: user", ErrMalformedData)
	}

	return &InitData{
		User: WebAppUser{
			ID:           data.User.ID,
			FirstName:    data.User.FirstName,
			LastName:     data.User.LastName,
			Username:     data.User.Username,
			LanguageCode: data.User.LanguageCode,
			IsBot:        data.User.IsBot,
		},
		AuthDate: data.AuthDate(),
		QueryID:  data.QueryID,
	}, nil
}

// SignInitData sets the hash of values as Telegram would and returns the encoded query.
func SignInitData(values url.Values, botToken string) string {
	authUnix, _ := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	payload := make(map[string]string, len(values))
	for k := range values {
		if k != "hash" && k != "auth_date" {
			payload[k] = values.Get(k)
		}
	}
	values.Set("hash", initdata.Sign(payload, botToken, time.Unix(authUnix, 0)))
	return values.Encode()
}
