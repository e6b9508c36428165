package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrAuthenticationRequired no acting user on the request
	ErrAuthenticationRequired = errors.New("You must be logged in to do this")
	// ErrForbidden acting user may not touch the resource
	ErrForbidden = errors.New("You are not allowed to do this")
	// ErrNotFound matched by every *NotFoundError
	ErrNotFound = errors.New("not found")
	// ErrInvalidContent content type or payload rejected
	ErrInvalidContent = errors.New("invalid content")
)

// NotFoundError referenced entity does not exist
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFound create NotFoundError
func NewNotFound(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// AggregationError per-chat lookups that failed while the rest succeeded
type AggregationError struct {
	Failures map[uint]error
}

func (e *AggregationError) Error() string {
	ids := e.ChatIDs()
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("chat %d: %v", id, e.Failures[id]))
	}
	return fmt.Sprintf("unread lookup failed for %d chat(s): %s", len(ids), strings.Join(parts, "; "))
}

// ChatIDs failed chat ids ascending
func (e *AggregationError) ChatIDs() []uint {
	ids := make([]uint, 0, len(e.Failures))
	for id := range e.Failures {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Unwrap expose the underlying failures to errors.Is / errors.As
func (e *AggregationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, id := range e.ChatIDs() {
		errs = append(errs, e.Failures[id])
	}
	return errs
}
