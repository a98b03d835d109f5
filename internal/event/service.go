package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/awase/internal/aggregate"
	"github.com/javiermolinar/awase/internal/logger"
	"github.com/javiermolinar/awase/internal/slot"
)

// maxSlugAttempts bounds slug regeneration on collision.
const maxSlugAttempts = 10

// Service implements the event workflows on top of a Repository.
type Service struct {
	repo   Repository
	now    func() time.Time
	expiry time.Duration
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithNow overrides the clock.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithExpiry sets how long new events accept responses.
func WithExpiry(d time.Duration) ServiceOption {
	return func(s *Service) { s.expiry = d }
}

// NewService returns a Service backed by repo.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{repo: repo, now: time.Now, expiry: DefaultExpiry}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEvent validates and stores a new event, regenerating the slug on
// collision.
func (s *Service) CreateEvent(ctx context.Context, title, description string, candidates []slot.CandidateRange) (*Event, error) {
	e, err := NewEvent(title, description, candidates, s.now(), s.expiry)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		err := s.repo.CreateEvent(ctx, e)
		if err == nil {
			logger.Debug("event created", "slug", e.Slug, "candidates", len(e.Candidates))
			return e, nil
		}
		if !errors.Is(err, ErrSlugTaken) || attempt >= maxSlugAttempts {
			return nil, fmt.Errorf("creating event: %w", err)
		}
		logger.Warn("slug collision, retrying", "slug", e.Slug, "attempt", attempt)
		if e.Slug, err = NewSlug(); err != nil {
			return nil, err
		}
	}
}

// Get returns the event for slug regardless of expiry.
func (s *Service) Get(ctx context.Context, slug string) (*Event, error) {
	return s.repo.GetEventBySlug(ctx, strings.TrimSpace(slug))
}

// Open returns the event for slug if it still accepts participants.
func (s *Service) Open(ctx context.Context, slug string) (*Event, error) {
	e, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if e.Expired(s.now()) {
		return nil, ErrEventExpired
	}
	return e, nil
}

// EventUpdate carries organizer edits. Nil fields are left unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	Candidates  []slot.CandidateRange
}

// UpdateEvent applies u to the event after checking the event edit code.
func (s *Service) UpdateEvent(ctx context.Context, slug, code string, u EventUpdate) (*Event, error) {
	e, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := e.Authenticate(code); err != nil {
		return nil, err
	}

	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		e.Title = title
	}
	if u.Description != nil {
		e.Description = strings.TrimSpace(*u.Description)
	}
	if u.Candidates != nil {
		if err := ValidateCandidates(u.Candidates); err != nil {
			return nil, err
		}
		e.Candidates = append([]slot.CandidateRange(nil), u.Candidates...)
		slot.SortRanges(e.Candidates)
	}

	if err := s.repo.UpdateEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("updating event: %w", err)
	}
	return e, nil
}

// Respond records a new participant response for an open event.
func (s *Service) Respond(ctx context.Context, slug, name string, blocks []slot.Block) (*Response, error) {
	e, err := s.Open(ctx, slug)
	if err != nil {
		return nil, err
	}
	r, err := NewResponse(e.ID, name, blocks, s.now())
	if err != nil {
		return nil, err
	}
	if err := e.CheckBlocks(r.Blocks); err != nil {
		return nil, err
	}
	if err := s.repo.CreateResponse(ctx, r); err != nil {
		return nil, fmt.Errorf("saving response: %w", err)
	}
	logger.Debug("response saved", "slug", slug, "blocks", len(r.Blocks))
	return r, nil
}

// FindResponse authenticates a participant by name and edit code and
// returns their response.
func (s *Service) FindResponse(ctx context.Context, slug, name, code string) (*Event, *Response, error) {
	e, err := s.Open(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	candidates, err := s.repo.FindResponsesByName(ctx, e.ID, strings.TrimSpace(name))
	if err != nil {
		return nil, nil, err
	}
	if len(candidates) == 0 {
		return nil, nil, ErrResponseNotFound
	}
	for _, r := range candidates {
		if r.Authenticate(code) == nil {
			return e, r, nil
		}
	}
	return nil, nil, ErrInvalidEditCode
}

// EditResponse replaces an authenticated participant's blocks.
func (s *Service) EditResponse(ctx context.Context, slug, name, code string, blocks []slot.Block) (*Response, error) {
	e, r, err := s.FindResponse(ctx, slug, name, code)
	if err != nil {
		return nil, err
	}
	normalised, err := NormalizeBlocks(blocks)
	if err != nil {
		return nil, err
	}
	if err := e.CheckBlocks(normalised); err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.repo.UpdateResponseBlocks(ctx, r.ID, normalised, now); err != nil {
		return nil, fmt.Errorf("updating response: %w", err)
	}
	r.Blocks = normalised
	r.UpdatedAt = now
	return r, nil
}

// DeleteResponse removes an authenticated participant's response.
func (s *Service) DeleteResponse(ctx context.Context, slug, name, code string) error {
	_, r, err := s.FindResponse(ctx, slug, name, code)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteResponse(ctx, r.ID); err != nil {
		return fmt.Errorf("deleting response: %w", err)
	}
	return nil
}

// Responses lists an event's responses in creation order.
func (s *Service) Responses(ctx context.Context, e *Event) ([]*Response, error) {
	return s.repo.ListResponses(ctx, e.ID)
}

// Result loads an open event and aggregates its responses.
func (s *Service) Result(ctx context.Context, slug string) (*Event, aggregate.Result, error) {
	e, err := s.Open(ctx, slug)
	if err != nil {
		return nil, aggregate.Result{}, err
	}
	responses, err := s.Responses(ctx, e)
	if err != nil {
		return nil, aggregate.Result{}, err
	}
	return e, aggregate.Compute(e.Candidates, ToAggregate(responses)), nil
}

// ToAggregate converts stored responses to aggregation input, keeping order.
func ToAggregate(responses []*Response) []aggregate.Response {
	out := make([]aggregate.Response, len(responses))
	for i, r := range responses {
		out[i] = aggregate.Response{ID: r.ID, ParticipantName: r.ParticipantName, Blocks: r.Blocks}
	}
	return out
}
