package taskdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Document is the persisted task list for one workstream. The agent edits the
// persisted form directly while working, so callers must re-read it rather
// than hold a copy across iterations.
type Document struct {
	CollectionName string `json:"collectionName"`
	Tasks          []Task `json:"tasks"`
}

// Task is a single unit of work with acceptance criteria and completion state.
type Task struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Priority           int      `json:"priority"`
	Done               bool     `json:"done"`
	AcceptanceCriteria []string `json:"acceptanceCriteria"`
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task document %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse task document %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a document from JSON. Unknown fields are rejected so that a
// misspelled field surfaces as a parse error instead of silently defaulting.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save writes the document to path, pretty-printed.
func Save(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode task document: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write task document %s: %w", path, err)
	}
	return nil
}

// CompletedCount returns the number of tasks marked done.
func (d *Document) CompletedCount() int {
	n := 0
	for _, t := range d.Tasks {
		if t.Done {
			n++
		}
	}
	return n
}
