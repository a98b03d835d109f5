package event

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/awase/internal/slot"
)

var testNow = time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)

func TestNewEvent(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		candidates []slot.CandidateRange
		wantErr    error
	}{
		{
			name:       "valid",
			title:      "Team lunch",
			candidates: []slot.CandidateRange{{Date: "2025-11-05", Start: "11:00", End: "14:00"}},
		},
		{
			name:       "blank title",
			title:      "   ",
			candidates: []slot.CandidateRange{{Date: "2025-11-05", Start: "11:00", End: "14:00"}},
			wantErr:    ErrEmptyTitle,
		},
		{
			name:    "no candidates",
			title:   "Team lunch",
			wantErr: ErrNoCandidates,
		},
		{
			name:       "reversed range",
			title:      "Team lunch",
			candidates: []slot.CandidateRange{{Date: "2025-11-05", Start: "14:00", End: "11:00"}},
			wantErr:    slot.ErrEndBeforeStart,
		},
		{
			name:       "crosses midnight",
			title:      "Late",
			candidates: []slot.CandidateRange{{Date: "2025-11-05", Start: "23:00", End: "24:30"}},
			wantErr:    slot.ErrCrossesMidnight,
		},
		{
			name:       "off grid",
			title:      "Team lunch",
			candidates: []slot.CandidateRange{{Date: "2025-11-05", Start: "11:15", End: "14:00"}},
			wantErr:    slot.ErrOffGrid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEvent(tt.title, "", tt.candidates, testNow, 0)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewEvent() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEvent() error = %v", err)
			}
			if e.ID == "" {
				t.Error("ID should be assigned")
			}
			if len(e.Slug) != SlugLength {
				t.Errorf("len(Slug) = %d, want %d", len(e.Slug), SlugLength)
			}
			if len(e.EditCode) != EditCodeLength {
				t.Errorf("len(EditCode) = %d, want %d", len(e.EditCode), EditCodeLength)
			}
			if !e.ExpiresAt.Equal(testNow.Add(DefaultExpiry)) {
				t.Errorf("ExpiresAt = %v, want %v", e.ExpiresAt, testNow.Add(DefaultExpiry))
			}
		})
	}
}

func TestNewEvent_SortsCandidates(t *testing.T) {
	in := []slot.CandidateRange{
		{Date: "2025-11-07", Start: "09:00", End: "10:00"},
		{Date: "2025-11-05", Start: "13:00", End: "15:00"},
		{Date: "2025-11-05", Start: "09:00", End: "10:00"},
	}
	e, err := NewEvent("Sync", "", in, testNow, time.Hour)
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	want := []slot.CandidateRange{in[2], in[1], in[0]}
	if !slices.Equal(e.Candidates, want) {
		t.Errorf("Candidates = %v, want %v", e.Candidates, want)
	}
	if in[0].Date != "2025-11-07" {
		t.Error("input slice should not be reordered")
	}
	if got := e.Dates(); !slices.Equal(got, []string{"2025-11-05", "2025-11-07"}) {
		t.Errorf("Dates() = %v", got)
	}
}

func TestCodesUseAlphabet(t *testing.T) {
	for i := 0; i < 20; i++ {
		s, err := NewSlug()
		if err != nil {
			t.Fatalf("NewSlug: %v", err)
		}
		for _, c := range s {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("slug %q has character %q outside the alphabet", s, c)
			}
		}
	}
}

func TestEventExpired(t *testing.T) {
	e := &Event{ExpiresAt: testNow}
	if e.Expired(testNow.Add(-time.Second)) {
		t.Error("should not be expired before ExpiresAt")
	}
	if !e.Expired(testNow) {
		t.Error("should be expired at ExpiresAt")
	}
}

func TestAuthenticate(t *testing.T) {
	e := &Event{EditCode: "abcd1234"}
	if err := e.Authenticate("abcd1234"); err != nil {
		t.Errorf("correct code rejected: %v", err)
	}
	if err := e.Authenticate(" abcd1234 "); err != nil {
		t.Errorf("padded code rejected: %v", err)
	}
	if err := e.Authenticate("abcd1235"); !errors.Is(err, ErrInvalidEditCode) {
		t.Errorf("wrong code = %v, want ErrInvalidEditCode", err)
	}
	if err := (&Event{}).Authenticate(""); !errors.Is(err, ErrInvalidEditCode) {
		t.Error("empty stored code must never authenticate")
	}
}

func TestEventAccepts(t *testing.T) {
	e := &Event{Candidates: []slot.CandidateRange{{Date: "2025-11-05", Start: "10:00", End: "11:00"}}}
	if !e.Accepts(slot.Slot{Date: "2025-11-05", Time: "10:30"}) {
		t.Error("slot inside range rejected")
	}
	if e.Accepts(slot.Slot{Date: "2025-11-05", Time: "11:00"}) {
		t.Error("slot at range end accepted")
	}
}

func TestNewResponse(t *testing.T) {
	blocks := []slot.Block{
		{Date: "2025-11-06", Start: "09:00", End: "10:00"},
		{Date: "2025-11-05", Start: "10:30", End: "11:00"},
		{Date: "2025-11-05", Start: "10:00", End: "10:30"},
	}
	r, err := NewResponse("ev1", "  Aiko ", blocks, testNow)
	if err != nil {
		t.Fatalf("NewResponse: %v", err)
	}
	if r.ParticipantName != "Aiko" {
		t.Errorf("ParticipantName = %q, want trimmed", r.ParticipantName)
	}
	if len(r.EditCode) != EditCodeLength {
		t.Errorf("len(EditCode) = %d", len(r.EditCode))
	}
	want := []slot.Block{
		{Date: "2025-11-05", Start: "10:00", End: "11:00"},
		{Date: "2025-11-06", Start: "09:00", End: "10:00"},
	}
	if !slices.Equal(r.Blocks, want) {
		t.Errorf("Blocks = %v, want %v", r.Blocks, want)
	}
}

func TestNewResponse_Errors(t *testing.T) {
	ok := []slot.Block{{Date: "2025-11-05", Start: "10:00", End: "10:30"}}

	tests := []struct {
		name    string
		pname   string
		blocks  []slot.Block
		wantErr error
	}{
		{name: "blank name", pname: " ", blocks: ok, wantErr: ErrEmptyName},
		{name: "no blocks", pname: "Aiko", wantErr: ErrNoBlocks},
		{
			name:    "bad block",
			pname:   "Aiko",
			blocks:  []slot.Block{{Date: "2025-11-05", Start: "10:00", End: "09:00"}},
			wantErr: slot.ErrEndBeforeStart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewResponse("ev1", tt.pname, tt.blocks, testNow); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewResponse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
