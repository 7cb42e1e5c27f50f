package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	appI18n "github.com/evan-fitzpatrick/dynamicactive-LMS/internal/i18n"
	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/model"
	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/store"
)

// Grader produces verdicts for one submission.
type Grader interface {
	GradeSubmission(ctx context.Context, slug string, answers map[string]string) (model.Feedback, error)
}

// Summarizer writes the student dashboard blurb.
type Summarizer interface {
	Summarize(ctx context.Context, student model.StudentData) (string, error)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store      *store.Store
	grader     Grader
	summarizer Summarizer
	config     model.PortalConfig
}

// New creates a new Handler.
func New(s *store.Store, g Grader, sum Summarizer, cfg model.PortalConfig) *Handler {
	return &Handler{store: s, grader: g, summarizer: sum, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleLogin)
	r.Get("/student", h.handleStudent)
	r.Get("/teacher", h.handleTeacher)
	r.Get("/lesson/{slug}", h.handleLesson)
	r.Post("/lesson/{slug}/submit", h.handleSubmit)
	r.Get("/lesson/{slug}/edit", h.handleEdit)
	r.Post("/lesson/{slug}/save", h.handleSave)
	r.Post("/preview", h.handlePreview)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	portal, err := store.ReadPortal(h.config.SeedPath)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	// No avatar or star pill on the login page.
	writeJSON(w, http.StatusOK, map[string]any{
		"brand": portal.Brand,
	})
}

func (h *Handler) handleStudent(w http.ResponseWriter, r *http.Request) {
	portal, err := store.ReadPortal(h.config.SeedPath)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	s := portal.Student

	lessons := make([]model.LessonStat, len(s.Lessons))
	copy(lessons, s.Lessons)
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].Stars > lessons[j].Stars
	})

	summary, err := h.summarizer.Summarize(r.Context(), s)
	if err != nil {
		slog.Warn("summary generation failed, using fallback", "error", err)
		summary = appI18n.T(r.Context(), "SummaryFallback")
	}

	initials := s.Initials
	if initials == "" {
		initials = "S"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"brand":           portal.Brand,
		"avatar_initials": initials,
		"star_score":      s.StarScore,
		"summary":         summary,
		"lessons":         lessons,
	})
}

func (h *Handler) handleTeacher(w http.ResponseWriter, r *http.Request) {
	portal, err := store.ReadPortal(h.config.SeedPath)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	t := portal.Teacher

	initials := t.Initials
	if initials == "" {
		initials = "T"
	}

	// Plans keep their listed order; no star pill on the teacher page.
	writeJSON(w, http.StatusOK, map[string]any{
		"brand":           portal.Brand,
		"avatar_initials": initials,
		"students":        t.Students,
		"plans":           t.Plans,
	})
}

func (h *Handler) handleLesson(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	title, body, _, err := h.store.Load(slug)
	if errors.Is(err, model.ErrNotFound) {
		h.errorJSON(w, http.StatusNotFound, appI18n.T(r.Context(), "LessonNotFound"))
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"slug":  slug,
		"title": title,
		"body":  body,
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := r.ParseForm(); err != nil {
		h.errorJSON(w, http.StatusBadRequest, appI18n.T(r.Context(), "InvalidRequest"))
		return
	}

	answers := make(map[string]string, len(r.PostForm))
	for qid, values := range r.PostForm {
		if len(values) > 0 {
			answers[qid] = values[0]
		}
	}

	feedback, err := h.grader.GradeSubmission(r.Context(), slug, answers)
	if errors.Is(err, model.ErrNotFound) {
		h.errorJSON(w, http.StatusNotFound, appI18n.T(r.Context(), "AnswerKeyNotFound"))
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"feedback": feedback,
	})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	h.errorJSON(w, http.StatusInternalServerError, err.Error())
}

func (h *Handler) errorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"status":  "error",
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
