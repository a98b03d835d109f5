package event

import (
	"context"
	"time"

	"github.com/javiermolinar/awase/internal/slot"
)

// Repository defines the storage interface for events and responses.
type Repository interface {
	// CreateEvent stores an event with its candidates.
	// Returns ErrSlugTaken if the slug collides with an existing event.
	CreateEvent(ctx context.Context, e *Event) error

	// GetEventBySlug retrieves an event with candidates sorted by date.
	// Returns ErrEventNotFound if no event has the slug.
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)

	// UpdateEvent replaces title, description, and candidates atomically.
	UpdateEvent(ctx context.Context, e *Event) error

	// CreateResponse stores a response and its blocks atomically.
	CreateResponse(ctx context.Context, r *Response) error

	// ListResponses returns an event's responses in creation order, each
	// with blocks sorted by date and start.
	ListResponses(ctx context.Context, eventID string) ([]*Response, error)

	// FindResponsesByName returns an event's responses for a participant.
	FindResponsesByName(ctx context.Context, eventID, name string) ([]*Response, error)

	// UpdateResponseBlocks replaces a response's blocks atomically.
	UpdateResponseBlocks(ctx context.Context, id string, blocks []slot.Block, updatedAt time.Time) error

	// DeleteResponse removes a response and its blocks.
	DeleteResponse(ctx context.Context, id string) error

	// Close releases any resources held by the repository.
	Close() error
}
