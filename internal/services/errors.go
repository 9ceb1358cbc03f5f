// Package services holds the application use-cases: the chat orchestration
// pipeline and the mood log. This file centralizes service-level error
// values so handlers can map them to HTTP results consistently.
package services

import "errors"

var (
	// ErrEmptyMessage is returned when a chat message is missing or empty.
	ErrEmptyMessage = errors.New("message is required")

	// ErrEmptyMood is returned when a mood label is missing or empty.
	ErrEmptyMood = errors.New("mood is required")
)
