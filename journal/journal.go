// Package journal maintains the append-only progress log that carries
// learnings from one iteration to the next. Entries are only ever appended;
// the whole file is re-read at the start of each iteration and embedded in
// the agent prompt.
package journal

import (
	"fmt"
	"os"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Read returns the full journal contents, or "" when the file does not exist
// yet. Any other read failure is an error.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read progress journal %s: %w", path, err)
	}
	return string(data), nil
}

// AppendCompleted records a successful iteration for the given task.
func AppendCompleted(path, taskID string) error {
	entry := fmt.Sprintf("\n## [%s] Completed: %s\n", time.Now().Format(timestampLayout), taskID)
	return appendEntry(path, entry)
}

// AppendFailed records a failed iteration, including the failure reason.
func AppendFailed(path, taskID string, cause error) error {
	entry := fmt.Sprintf("\n## [%s] Failed: %s\nError: %v\n", time.Now().Format(timestampLayout), taskID, cause)
	return appendEntry(path, entry)
}

func appendEntry(path, entry string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open progress journal %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(entry + "\n"); err != nil {
		return fmt.Errorf("append progress journal %s: %w", path, err)
	}
	return nil
}
