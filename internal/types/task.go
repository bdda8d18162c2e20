package types

import (
	"fmt"
	"strings"
)

// TaskStatus is a free-form three-state progression. Any status may move to
// any other; there is no workflow state machine.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(strings.ToUpper(strings.TrimSpace(s)))

	if !status.Valid() {
		return "", fmt.Errorf("invalid task status %q", s)
	}

	return status, nil
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func ParseTaskPriority(s string) (TaskPriority, error) {
	priority := TaskPriority(strings.ToUpper(strings.TrimSpace(s)))

	if !priority.Valid() {
		return "", fmt.Errorf("invalid task priority %q", s)
	}

	return priority, nil
}
