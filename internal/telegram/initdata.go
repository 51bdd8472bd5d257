package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// VerifyInitData checks the signature of a Telegram WebApp initData string
// and returns the embedded user. The check follows the platform scheme:
// the secret is HMAC-SHA256 of the bot token keyed with "WebAppData", and
// the reported hash must match HMAC-SHA256 of the sorted key=value lines.
// maxAge <= 0 disables the freshness check.
func VerifyInitData(raw, botToken string, maxAge time.Duration) (WebAppUser, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return WebAppUser{}, ErrBadInitData
	}

	reported := values.Get("hash")
	if reported == "" {
		return WebAppUser{}, ErrBadInitData
	}
	values.Del("hash")

	pairs := make([]string, 0, len(values))
	for k := range values {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(reported)) {
		return WebAppUser{}, ErrBadInitData
	}

	if maxAge > 0 {
		authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil {
			return WebAppUser{}, ErrBadInitData
		}
		if time.Since(time.Unix(authDate, 0)) > maxAge {
			return WebAppUser{}, ErrStaleData
		}
	}

	var user WebAppUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil {
		return WebAppUser{}, ErrBadInitData
	}
	if user.ID == 0 {
		return WebAppUser{}, ErrBadInitData
	}
	return user, nil
}

// SignInitData produces a valid initData string for the given user and bot
// token. It exists for tests and the local mock client.
func SignInitData(user WebAppUser, botToken string, authDate time.Time) string {
	userJSON, _ := json.Marshal(user)
	values := url.Values{}
	values.Set("user", string(userJSON))
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))

	pairs := make([]string, 0, len(values))
	for k := range values {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	sort.Strings(pairs)

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))

	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}
