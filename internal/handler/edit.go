package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	appI18n "github.com/evan-fitzpatrick/dynamicactive-LMS/internal/i18n"
	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/markdown"
	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/model"
)

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	title, raw, keyJSON, err := h.store.LoadRawForEdit(slug)
	if errors.Is(err, model.ErrNotFound) {
		h.errorJSON(w, http.StatusNotFound, appI18n.T(r.Context(), "LessonNotFound"))
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"slug":             slug,
		"title":            title,
		"markdown_content": raw,
		"answer_key_json":  keyJSON,
	})
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	md := r.FormValue("markdown_content")
	keyText := r.FormValue("answer_key_json")

	err := h.store.Save(slug, md, keyText)
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		h.errorJSON(w, http.StatusBadRequest, ve.Msg)
		return
	case errors.Is(err, model.ErrNotFound):
		h.errorJSON(w, http.StatusNotFound, appI18n.T(r.Context(), "LessonNotFound"))
		return
	case err != nil:
		h.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/lesson/"+slug, http.StatusSeeOther)
}

// handlePreview renders edited markdown to an HTML fragment without
// touching the store.
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	md := r.FormValue("markdown_content")

	html, err := markdown.RenderPreview(md)
	if err != nil {
		h.errorJSON(w, http.StatusInternalServerError, appI18n.T(r.Context(), "PreviewFailed"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}
