package repository

import (
	"context"
	"errors"
	"fmt"

	"messaging_service/internal/chat/domain"
)

// Publisher push-delivery transport
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// MultiPublisher publish to every transport, one failing does not stop the rest
type MultiPublisher []Publisher

// Publish fan event out to every transport and join their errors
func (m MultiPublisher) Publish(ctx context.Context, event domain.Event) error {
	var errs []error
	for i, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("publisher %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// NopPublisher drops every event
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(context.Context, domain.Event) error { return nil }
