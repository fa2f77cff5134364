// Package extract recovers a structured task document from free-form agent
// output. The recovery is deliberately two-stage: the syntactic pass is
// lenient about markdown fences and surrounding prose, the semantic pass is
// strict about the document schema.
package extract

import (
	"fmt"
	"strings"

	"drover/taskdoc"
)

// JSONCandidate strips formatting noise around a JSON object. If the trimmed
// input opens with a code fence and spans more than two lines, the first and
// last lines are treated as fence delimiters and dropped. The candidate is
// then the substring from the first '{' to the last '}', inclusive.
func JSONCandidate(text string) (string, error) {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "```") {
		lines := strings.Split(trimmed, "\n")
		if len(lines) > 2 {
			trimmed = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	start := strings.Index(trimmed, "{")
	if start < 0 {
		return "", fmt.Errorf("no opening brace found in response")
	}
	// end < start covers a stray '}' in prose before the object opens.
	end := strings.LastIndex(trimmed, "}")
	if end < start {
		return "", fmt.Errorf("no closing brace found in response")
	}
	return trimmed[start : end+1], nil
}

// Document parses agent output into a task document. The result conforms to
// the document schema but is not yet validated against the structural
// invariants; callers run taskdoc.Validate before persisting.
func Document(text string) (*taskdoc.Document, error) {
	candidate, err := JSONCandidate(text)
	if err != nil {
		return nil, fmt.Errorf("extract JSON from agent response: %w", err)
	}
	doc, err := taskdoc.Parse([]byte(candidate))
	if err != nil {
		return nil, fmt.Errorf("parse extracted task document: %w", err)
	}
	return doc, nil
}
