// Package cookie выставляет и очищает cookie с токеном сессии.
package cookie

import (
	"net/http"
	"strings"
	"time"
)

// Name имя cookie с токеном.
const Name = "token"

// Set записывает токен в HttpOnly cookie на весь срок его жизни.
func Set(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, build(token, int(ttl.Seconds()), secure))
}

// Clear удаляет cookie с токеном у клиента.
func Clear(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, build("", -1, secure))
}

func build(value string, maxAge int, secure bool) *http.Cookie {
	c := &http.Cookie{
		Name:     Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	// SameSite=None браузеры принимают только вместе с Secure
	if secure {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// Token достаёт токен из заголовка Authorization: Bearer или из cookie.
func Token(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if c, err := r.Cookie(Name); err == nil {
		return c.Value
	}
	return ""
}
