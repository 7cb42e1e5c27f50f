package model

import "encoding/json"

// LessonImport is one entry of a seed bundle file: a lesson plus the slug
// it should be stored under. An empty slug means "derive from the title".
type LessonImport struct {
	Slug      string                     `json:"slug,omitempty"`
	Title     string                     `json:"title"`
	Markdown  string                     `json:"markdown_content"`
	AnswerKey map[string]json.RawMessage `json:"answer_key"`
}

// LessonExport is the output of the export command.
type LessonExport struct {
	Brand   string             `json:"brand,omitempty"`
	Lessons map[string]*Lesson `json:"lessons"`
}
