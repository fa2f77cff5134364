package taskdoc

import "fmt"

// Validate checks the structural invariants of a document. Only documents
// produced by the planner are validated before first persist; run mode
// accepts whatever is on disk so an in-flight, hand-edited document keeps
// working.
func Validate(doc *Document) error {
	if doc.CollectionName == "" {
		return fmt.Errorf("collection name cannot be empty")
	}
	if len(doc.Tasks) == 0 {
		return fmt.Errorf("document must contain at least one task")
	}

	seen := make(map[string]bool, len(doc.Tasks))
	for i, t := range doc.Tasks {
		if t.ID == "" {
			return fmt.Errorf("task at index %d has empty ID", i)
		}
		if t.Title == "" {
			return fmt.Errorf("task %s has empty title", t.ID)
		}
		if t.Description == "" {
			return fmt.Errorf("task %s has empty description", t.ID)
		}
		if t.Priority <= 0 {
			return fmt.Errorf("task %s has invalid priority: %d", t.ID, t.Priority)
		}
		if len(t.AcceptanceCriteria) == 0 {
			return fmt.Errorf("task %s has no acceptance criteria", t.ID)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate task ID: %s", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}
