package taskdoc

// NextTask returns the highest-priority task not yet done, where a lower
// priority number wins. Ties are broken by document order, so equal-priority
// tasks are worked in the sequence they were written. Returns nil when every
// task is done; that is the loop's termination signal, not an error.
func NextTask(doc *Document) *Task {
	var best *Task
	for i := range doc.Tasks {
		t := &doc.Tasks[i]
		if t.Done {
			continue
		}
		if best == nil || t.Priority < best.Priority {
			best = t
		}
	}
	return best
}
