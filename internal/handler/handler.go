package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pavelanni/scanner/internal/handler/views"
	appI18n "github.com/pavelanni/scanner/internal/i18n"
	"github.com/pavelanni/scanner/internal/llm"
	"github.com/pavelanni/scanner/internal/metrics"
	"github.com/pavelanni/scanner/internal/model"
	"github.com/pavelanni/scanner/internal/quiz"
	"github.com/pavelanni/scanner/internal/sessions"
	"github.com/pavelanni/scanner/internal/store"
)

const insightTimeout = 30 * time.Second

// Insighter writes a personal reflection for a finished quiz.
type Insighter interface {
	Reflect(ctx context.Context, req llm.Request) (*llm.Insight, error)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	sessions sessions.Repository
	bank     quiz.Bank
	metrics  *metrics.Metrics
	insight  Insighter
	config   model.ScannerConfig
}

// New creates a new Handler. insight may be nil to disable reflections.
func New(s *store.Store, repo sessions.Repository, bank quiz.Bank, m *metrics.Metrics, insight Insighter, cfg model.ScannerConfig) (*Handler, error) {
	if s == nil || repo == nil || m == nil {
		return nil, errors.New("handler needs a store, a session repository and metrics")
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	if insight == nil {
		cfg.InsightsEnabled = false
	}
	return &Handler{store: s, sessions: repo, bank: bank, metrics: m, insight: insight, config: cfg}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, h.path("/quiz"), http.StatusSeeOther)
	})
	// Fetched by the share button; must not rotate the CSRF cookie.
	r.Get("/quiz/share", h.handleShare)

	r.Group(func(r chi.Router) {
		r.Use(h.csrfMiddleware)

		r.Get("/quiz", h.handleQuiz)
		r.Post("/quiz/choose", h.handleChoose)
		r.Post("/quiz/name", h.handleName)
		r.Post("/quiz/next", h.handleNext)
		r.Post("/quiz/back", h.handleBack)
		r.Post("/quiz/restart", h.handleRestart)
		r.Post("/quiz/insight", h.handleInsight)

		r.Get("/login", h.handleLoginPage)
		r.Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Get("/admin", h.handleAdminScansPage)
			r.Get("/admin/export", h.handleAdminExport)

			r.Group(func(r chi.Router) {
				r.Use(requireRole(model.UserRoleAdmin))
				r.Post("/admin/scans/clear", h.handleClearScans)
				r.Get("/admin/users", h.handleAdminUsersPage)
				r.Post("/admin/users", h.handleCreateUser)
				r.Post("/admin/users/{userID}/toggle", h.handleToggleUserActive)
			})
		})
	})
}

// loadSession returns the participant's quiz, starting a fresh one when the
// cookie is missing, the state expired, or it no longer fits the bank.
func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (*quiz.Session, string, error) {
	if c, err := r.Cookie(participantCookieName); err == nil {
		if _, perr := uuid.Parse(c.Value); perr == nil {
			st, err := h.sessions.Load(r.Context(), c.Value)
			switch {
			case err == nil:
				s, rerr := quiz.Restore(h.bank, st)
				if rerr == nil {
					return s, c.Value, nil
				}
				slog.Warn("discarding unreadable quiz session", "error", rerr)
			case !errors.Is(err, sessions.ErrNotFound):
				return nil, "", err
			}
			return quiz.NewSession(h.bank), c.Value, nil
		}
	}

	id := uuid.NewString()
	h.setCookie(w, participantCookieName, id, int(h.config.SessionTTL.Seconds()))
	return quiz.NewSession(h.bank), id, nil
}

func (h *Handler) saveSession(ctx context.Context, id string, s *quiz.Session) error {
	return h.sessions.Save(ctx, id, s.State())
}

// withSession loads the participant's quiz, runs fn and saves the result.
// fn returns the HTTP status to fail with, or 0 to redirect back to the quiz.
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(s *quiz.Session) (int, error)) {
	s, id, err := h.loadSession(w, r)
	if err != nil {
		slog.Error("failed to load quiz session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	status, ferr := fn(s)
	if err := h.saveSession(r.Context(), id, s); err != nil {
		slog.Error("failed to save quiz session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if ferr != nil {
		if status >= http.StatusInternalServerError {
			slog.Error("quiz action failed", "path", r.URL.Path, "error", ferr)
		} else {
			slog.Debug("quiz action rejected", "path", r.URL.Path, "error", ferr)
		}
		http.Error(w, ferr.Error(), status)
		return
	}
	http.Redirect(w, r, h.path("/quiz"), http.StatusSeeOther)
}

// quizErrorStatus maps core errors to HTTP codes. An unknown archetype key
// is a broken bank, not a bad request.
func quizErrorStatus(err error) int {
	switch {
	case errors.Is(err, quiz.ErrIncomplete), errors.Is(err, quiz.ErrFinalStage):
		return http.StatusConflict
	case errors.Is(err, quiz.ErrUnknownQuestion), errors.Is(err, quiz.ErrUnknownOption):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleQuiz(w http.ResponseWriter, r *http.Request) {
	s, id, err := h.loadSession(w, r)
	if err != nil {
		slog.Error("failed to load quiz session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	// Saving on every view keeps the session alive for another TTL.
	if err := h.saveSession(r.Context(), id, s); err != nil {
		slog.Error("failed to save quiz session", "error", err)
	}

	v := h.quizView(s)
	if s.Stage().IsResults() {
		v.Cheer = h.takeCheer(w, r)
	}
	h.render(w, r, http.StatusOK, views.QuizPage(v))
}

func (h *Handler) quizView(s *quiz.Session) views.QuizView {
	st := s.State()
	v := views.QuizView{
		Stage:      st.Stage,
		Selections: st.Selections,
		Name:       st.Name,
		Answers:    s.Answers(),
		Complete:   s.Complete(),
	}
	if m, ok := s.Module(); ok {
		v.Module = m
		return v
	}
	v.Top = s.Top()
	v.Breakdown = s.Breakdown()
	v.MaxPoints = quiz.AdvertisedMaxPoints
	v.InsightsEnabled = h.config.InsightsEnabled
	return v
}

func (h *Handler) handleChoose(w http.ResponseWriter, r *http.Request) {
	qid, oid := r.FormValue("question"), r.FormValue("option")
	h.withSession(w, r, func(s *quiz.Session) (int, error) {
		m, _ := s.Module()
		if err := s.Choose(qid, oid); err != nil {
			return quizErrorStatus(err), err
		}
		h.metrics.Answers.WithLabelValues(string(m.Kind)).Inc()
		return 0, nil
	})
}

func (h *Handler) handleName(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	if len([]rune(name)) > maxNameRunes {
		name = string([]rune(name)[:maxNameRunes])
	}
	h.withSession(w, r, func(s *quiz.Session) (int, error) {
		s.SetName(name)
		return 0, nil
	})
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(s *quiz.Session) (int, error) {
		stage, err := s.Advance()
		if err != nil {
			return quizErrorStatus(err), err
		}
		if stage.IsResults() {
			h.finish(w, r, s)
		}
		return 0, nil
	})
}

// finish runs once per transition into the results stage.
func (h *Handler) finish(w http.ResponseWriter, r *http.Request, s *quiz.Session) {
	top := s.Top()
	h.metrics.Results.WithLabelValues(top[0].Key).Inc()

	id, err := h.store.RecordScan(model.ScanRecord{
		DisplayName: s.Name(),
		Primary:     top[0].Key,
		Secondary:   top[1].Key,
		Scores:      s.Scores(),
		Answers:     s.Answers(),
	})
	if err != nil {
		slog.Error("failed to record scan", "error", err)
	} else {
		slog.Info("scan completed", "scan_id", id, "primary", top[0].Key, "secondary", top[1].Key)
	}

	c := &flashCelebrator{}
	quiz.Cheer(r.Context(), c)
	h.putCheer(w, c.bursts)
}

func (h *Handler) handleBack(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(s *quiz.Session) (int, error) {
		before := s.Stage()
		if after := s.Retreat(); after == quiz.StageImages && before != quiz.StageImages {
			h.metrics.Resets.Inc()
		}
		return 0, nil
	})
}

func (h *Handler) handleRestart(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(s *quiz.Session) (int, error) {
		s.Reset()
		h.metrics.Resets.Inc()
		return 0, nil
	})
}

func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) {
	s, _, err := h.loadSession(w, r)
	if err != nil {
		slog.Error("failed to load quiz session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !s.Stage().IsResults() {
		http.Error(w, "results are not ready", http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(s.SharePayload()))
}

// handleInsight renders the results with a reflection in place, so the
// page keeps the fresh CSRF token.
func (h *Handler) handleInsight(w http.ResponseWriter, r *http.Request) {
	if h.insight == nil {
		http.NotFound(w, r)
		return
	}
	s, _, err := h.loadSession(w, r)
	if err != nil {
		slog.Error("failed to load quiz session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !s.Stage().IsResults() {
		http.Error(w, "results are not ready", http.StatusConflict)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), insightTimeout)
	defer cancel()
	v := h.quizView(s)
	in, err := h.insight.Reflect(ctx, llm.Request{
		Name:      s.Name(),
		Lang:      appI18n.LangFromContext(r.Context()),
		Top:       v.Top,
		Breakdown: v.Breakdown,
		Log:       s.Log(),
	})
	if err != nil {
		slog.Error("insight failed", "error", err)
		h.metrics.Insights.WithLabelValues("error").Inc()
		v.Notice = appI18n.T(r.Context(), "InsightUnavailable")
	} else {
		h.metrics.Insights.WithLabelValues("ok").Inc()
		v.InsightHeadline = in.Headline
		v.InsightText = in.Reflection
	}
	h.render(w, r, http.StatusOK, views.QuizPage(v))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

// BasePathMiddleware exposes the configured URL prefix to the views.
func (h *Handler) BasePathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(model.ContextWithBasePath(r.Context(), h.config.BasePath)))
	})
}

func (h *Handler) path(p string) string {
	return h.config.BasePath + p
}
