// Package event defines the scheduling event and participant response
// domain: validation, share slugs, edit codes, and expiry.
package event

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/javiermolinar/awase/internal/slot"
)

// Validation errors.
var (
	ErrEmptyTitle   = errors.New("title cannot be empty")
	ErrNoCandidates = errors.New("at least one candidate date is required")
	ErrEmptyName    = errors.New("participant name cannot be empty")
	ErrNoBlocks     = errors.New("at least one availability block is required")
	ErrNotCandidate = errors.New("not a candidate time")
)

// Domain errors.
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrEventExpired     = errors.New("event has expired")
	ErrResponseNotFound = errors.New("response not found")
	ErrInvalidEditCode  = errors.New("invalid edit code")
	ErrSlugTaken        = errors.New("slug already in use")
)

const (
	// SlugLength is the length of the public share slug.
	SlugLength = 10
	// EditCodeLength is the length of event and response edit codes.
	EditCodeLength = 8
	// DefaultExpiry is how long an event accepts responses.
	DefaultExpiry = 30 * 24 * time.Hour

	codeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Event is an organizer's scheduling poll.
type Event struct {
	ID          string
	Slug        string
	Title       string
	Description string
	EditCode    string
	Candidates  []slot.CandidateRange
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Response is one participant's answer to an event.
type Response struct {
	ID              string
	EventID         string
	ParticipantName string
	EditCode        string
	Blocks          []slot.Block
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewEvent creates a new Event with validation. Candidates are sorted by
// date, then start time. ID, slug, and edit code are assigned here; the
// repository may reassign the slug on collision.
func NewEvent(title, description string, candidates []slot.CandidateRange, now time.Time, expiry time.Duration) (*Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if err := ValidateCandidates(candidates); err != nil {
		return nil, err
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}

	slug, err := NewSlug()
	if err != nil {
		return nil, err
	}
	code, err := NewEditCode()
	if err != nil {
		return nil, err
	}

	sorted := append([]slot.CandidateRange(nil), candidates...)
	slot.SortRanges(sorted)

	return &Event{
		ID:          uuid.NewString(),
		Slug:        slug,
		Title:       title,
		Description: strings.TrimSpace(description),
		EditCode:    code,
		Candidates:  sorted,
		CreatedAt:   now,
		ExpiresAt:   now.Add(expiry),
	}, nil
}

// ValidateCandidates checks there is at least one candidate and that each
// is a well-formed range inside a single day.
func ValidateCandidates(candidates []slot.CandidateRange) error {
	if len(candidates) == 0 {
		return ErrNoCandidates
	}
	for i, c := range candidates {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("candidate %d (%s): %w", i+1, c.Date, err)
		}
	}
	return nil
}

// Expired reports whether the event no longer accepts responses at now.
func (e *Event) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Authenticate checks code against the event edit code.
func (e *Event) Authenticate(code string) error {
	if !codesEqual(e.EditCode, code) {
		return ErrInvalidEditCode
	}
	return nil
}

// Dates returns the distinct candidate dates in order.
func (e *Event) Dates() []string {
	var dates []string
	for _, c := range e.Candidates {
		if len(dates) == 0 || dates[len(dates)-1] != c.Date {
			dates = append(dates, c.Date)
		}
	}
	return dates
}

// Accepts reports whether s lies inside one of the candidate ranges.
func (e *Event) Accepts(s slot.Slot) bool {
	for _, c := range e.Candidates {
		if c.Contains(s) {
			return true
		}
	}
	return false
}

// CheckBlocks returns ErrNotCandidate for the first slot of blocks that
// falls outside every candidate range.
func (e *Event) CheckBlocks(blocks []slot.Block) error {
	for _, s := range slot.Expand(blocks) {
		if !e.Accepts(s) {
			return fmt.Errorf("%s: %w", s, ErrNotCandidate)
		}
	}
	return nil
}

// NewResponse creates a response with validation and a fresh edit code.
// Blocks are normalised: merged into maximal runs and sorted.
func NewResponse(eventID, name string, blocks []slot.Block, now time.Time) (*Response, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	normalised, err := NormalizeBlocks(blocks)
	if err != nil {
		return nil, err
	}
	code, err := NewEditCode()
	if err != nil {
		return nil, err
	}
	return &Response{
		ID:              uuid.NewString(),
		EventID:         eventID,
		ParticipantName: name,
		EditCode:        code,
		Blocks:          normalised,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// NormalizeBlocks validates blocks and re-merges them so overlapping or
// adjacent input collapses into maximal runs, sorted by date and start.
func NormalizeBlocks(blocks []slot.Block) ([]slot.Block, error) {
	if len(blocks) == 0 {
		return nil, ErrNoBlocks
	}
	for i, b := range blocks {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("block %d (%s): %w", i+1, b, err)
		}
	}
	merged := slot.Merge(slot.Expand(blocks))
	slot.SortBlocks(merged)
	return merged, nil
}

// Authenticate checks code against the response edit code.
func (r *Response) Authenticate(code string) error {
	if !codesEqual(r.EditCode, code) {
		return ErrInvalidEditCode
	}
	return nil
}

// NewSlug returns a random share slug.
func NewSlug() (string, error) {
	s, err := gonanoid.Generate(codeAlphabet, SlugLength)
	if err != nil {
		return "", fmt.Errorf("generating slug: %w", err)
	}
	return s, nil
}

// NewEditCode returns a random edit code.
func NewEditCode() (string, error) {
	s, err := gonanoid.Generate(codeAlphabet, EditCodeLength)
	if err != nil {
		return "", fmt.Errorf("generating edit code: %w", err)
	}
	return s, nil
}

func codesEqual(want, got string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.TrimSpace(got))) == 1
}
