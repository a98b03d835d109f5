package commands

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/javiermolinar/awase/internal/aggregate"
	"github.com/javiermolinar/awase/internal/slot"
)

func TestSubmit(t *testing.T) {
	blocks := []slot.Block{{Date: "2025-11-05", Start: "10:00", End: "11:00"}}

	var gotName string
	var gotBlocks []slot.Block
	fn := func(_ context.Context, name string, b []slot.Block) (string, error) {
		gotName, gotBlocks = name, b
		return "saved", nil
	}

	msg := Submit(fn, "Aiko", blocks)()
	sub, ok := msg.(SubmittedMsg)
	if !ok {
		t.Fatalf("expected SubmittedMsg, got %T", msg)
	}
	if sub.Message != "saved" {
		t.Errorf("Message = %q, want saved", sub.Message)
	}
	if gotName != "Aiko" || !slices.Equal(gotBlocks, blocks) {
		t.Errorf("submitted %q %v", gotName, gotBlocks)
	}
}

func TestSubmit_Error(t *testing.T) {
	boom := errors.New("disk full")
	fn := func(context.Context, string, []slot.Block) (string, error) { return "", boom }

	msg := Submit(fn, "Aiko", nil)()
	errMsg, ok := msg.(ErrMsg)
	if !ok {
		t.Fatalf("expected ErrMsg, got %T", msg)
	}
	if !errors.Is(errMsg.Err, boom) {
		t.Errorf("Err = %v, want wrapped %v", errMsg.Err, boom)
	}

	if _, ok := Submit(nil, "Aiko", nil)().(ErrMsg); !ok {
		t.Error("nil submit func should yield ErrMsg")
	}
}

func TestLoadOverlay(t *testing.T) {
	if LoadOverlay(nil) != nil {
		t.Error("nil overlay func should yield nil cmd")
	}

	want := aggregate.Result{TotalParticipants: 3}
	msg := LoadOverlay(func(context.Context) (aggregate.Result, error) { return want, nil })()
	loaded, ok := msg.(OverlayLoadedMsg)
	if !ok {
		t.Fatalf("expected OverlayLoadedMsg, got %T", msg)
	}
	if loaded.Result.TotalParticipants != 3 {
		t.Errorf("Result = %+v", loaded.Result)
	}

	msg = LoadOverlay(func(context.Context) (aggregate.Result, error) { return aggregate.Result{}, errors.New("gone") })()
	if _, ok := msg.(ErrMsg); !ok {
		t.Errorf("expected ErrMsg, got %T", msg)
	}
}
