// Package store persists lesson documents behind a small key-value
// document interface, addressed by slug.
package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/markdown"
	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/model"
)

// DocStore is the narrow persistence contract: whole documents in, whole
// documents out, keyed by slug. Load returns model.ErrNotFound for a
// missing slug. Save is a full overwrite.
type DocStore interface {
	Load(slug string) ([]byte, error)
	Save(slug string, doc []byte) error
	Exists(slug string) (bool, error)
	List() ([]string, error)
}

// Store layers the lesson content rules over a DocStore.
type Store struct {
	docs DocStore
}

// New creates a Store over the given document backend.
func New(docs DocStore) *Store {
	return &Store{docs: docs}
}

// Load returns the lesson's display title, its body with the title heading
// stripped and trimmed, and its answer key. The title is re-derived from
// the markdown on every load; the stored title field is never trusted.
func (s *Store) Load(slug string) (title, body string, key map[string]json.RawMessage, err error) {
	l, err := s.get(slug)
	if err != nil {
		return "", "", nil, err
	}
	title, body = markdown.SplitTitle(l.Markdown)
	return title, body, l.AnswerKey, nil
}

// LoadRawForEdit returns the unmodified markdown (heading retained) and an
// indented serialization of the answer key, for the edit form.
func (s *Store) LoadRawForEdit(slug string) (title, raw, keyJSON string, err error) {
	l, err := s.get(slug)
	if err != nil {
		return "", "", "", err
	}
	title, _ = markdown.SplitTitle(l.Markdown)
	key := l.AnswerKey
	if key == nil {
		key = map[string]json.RawMessage{}
	}
	pretty, err := json.MarshalIndent(key, "", "  ")
	if err != nil {
		return "", "", "", fmt.Errorf("format answer key for %s: %w", slug, err)
	}
	return title, l.Markdown, string(pretty), nil
}

// Save validates the edited markdown and answer-key text and overwrites the
// lesson document. The title is re-derived from the markdown heading. Save
// never creates a lesson: an unknown slug fails with model.ErrNotFound, and
// validation failures leave the stored document untouched.
func (s *Store) Save(slug, rawMarkdown, answerKeyText string) error {
	trimmed := strings.TrimSpace(rawMarkdown)
	if trimmed == "" {
		return model.Validationf("markdown content is required")
	}
	if strings.TrimSpace(answerKeyText) == "" {
		return model.Validationf("answer key is required")
	}

	var key map[string]json.RawMessage
	if err := json.Unmarshal([]byte(answerKeyText), &key); err != nil {
		return model.Validationf("answer key is not a well-formed JSON object: %v", err)
	}

	exists, err := s.docs.Exists(slug)
	if err != nil {
		return fmt.Errorf("check lesson %s: %w", slug, err)
	}
	if !exists {
		return model.ErrNotFound
	}

	title, _ := markdown.SplitTitle(trimmed)
	return s.put(slug, &model.Lesson{
		Title:     title,
		Markdown:  trimmed,
		AnswerKey: key,
	})
}

// AnswerKey returns the lesson's answer key for grading.
func (s *Store) AnswerKey(slug string) (map[string]json.RawMessage, error) {
	l, err := s.get(slug)
	if err != nil {
		return nil, err
	}
	return l.AnswerKey, nil
}

// Exists reports whether a lesson document exists for the slug.
func (s *Store) Exists(slug string) (bool, error) {
	return s.docs.Exists(slug)
}

// Slugs returns the slugs of every stored lesson.
func (s *Store) Slugs() ([]string, error) {
	return s.docs.List()
}

// Get returns a stored lesson document as-is, for export.
func (s *Store) Get(slug string) (*model.Lesson, error) {
	return s.get(slug)
}

// Create stores a new lesson document. Only the seed path creates lessons;
// the save pipeline never does. The title is re-derived from the markdown.
func (s *Store) Create(slug string, l model.Lesson) error {
	l.Markdown = strings.TrimSpace(l.Markdown)
	l.Title, _ = markdown.SplitTitle(l.Markdown)
	if l.AnswerKey == nil {
		l.AnswerKey = map[string]json.RawMessage{}
	}
	return s.put(slug, &l)
}

func (s *Store) get(slug string) (*model.Lesson, error) {
	data, err := s.docs.Load(slug)
	if err != nil {
		return nil, err
	}
	var l model.Lesson
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode lesson %s: %w", slug, err)
	}
	return &l, nil
}

func (s *Store) put(slug string, l *model.Lesson) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode lesson %s: %w", slug, err)
	}
	if err := s.docs.Save(slug, data); err != nil {
		return fmt.Errorf("save lesson %s: %w", slug, err)
	}
	return nil
}

