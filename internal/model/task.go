package model

import (
	"strings"

	"github.com/google/uuid"
)

// Task is the domain model for a todo entry.
// ID is stable across reorders and deletes; positions are not.
type Task struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// NewTask trims name and assigns a fresh id. It does not validate.
func NewTask(name string) Task {
	return Task{ID: NewTaskID(), Name: strings.TrimSpace(name)}
}

// NewTaskID returns a random UUID string.
func NewTaskID() string { return uuid.NewString() }

// EnsureIDs gives every task without an id a new one and reports whether
// anything changed. Data written by older versions has no ids.
func EnsureIDs(tasks []Task) bool {
	changed := false
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = NewTaskID()
			changed = true
		}
	}
	return changed
}

// Pending counts tasks that are not completed.
func Pending(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}
