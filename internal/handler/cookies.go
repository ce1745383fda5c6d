package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pavelanni/scanner/internal/quiz"
)

const (
	participantCookieName = "scanner_sid"
	cheerCookieName       = "scanner_cheer"
	cheerCookieMaxAge     = 60
	maxNameRunes          = 60
)

func (h *Handler) cookiePath() string {
	if h.config.BasePath != "" {
		return h.config.BasePath + "/"
	}
	return "/"
}

// setCookie writes an HttpOnly cookie scoped to the base path. maxAge < 0
// deletes it; 0 makes it a browser-session cookie.
func (h *Handler) setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     h.cookiePath(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// flashCelebrator collects bursts so the next page view can fire them in
// the browser.
type flashCelebrator struct {
	bursts []quiz.Burst
}

func (c *flashCelebrator) Celebrate(_ context.Context, bursts ...quiz.Burst) error {
	c.bursts = append(c.bursts, bursts...)
	return nil
}

func (h *Handler) putCheer(w http.ResponseWriter, bursts []quiz.Burst) {
	if len(bursts) == 0 {
		return
	}
	data, err := json.Marshal(bursts)
	if err != nil {
		slog.Debug("celebration skipped", "error", err)
		return
	}
	h.setCookie(w, cheerCookieName, base64.RawURLEncoding.EncodeToString(data), cheerCookieMaxAge)
}

// takeCheer reads and clears the one-shot celebration cookie. Anything
// unreadable is dropped silently.
func (h *Handler) takeCheer(w http.ResponseWriter, r *http.Request) []quiz.Burst {
	c, err := r.Cookie(cheerCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	h.setCookie(w, cheerCookieName, "", -1)

	data, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var bursts []quiz.Burst
	if err := json.Unmarshal(data, &bursts); err != nil {
		return nil
	}
	return bursts
}
