package slot

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		slots []Slot
		want  []Block
	}{
		{
			name:  "empty",
			slots: nil,
			want:  nil,
		},
		{
			name:  "single slot is one unit wide",
			slots: []Slot{{"2025-11-05", "10:00"}},
			want:  []Block{{"2025-11-05", "10:00", "10:30"}},
		},
		{
			name: "contiguous run",
			slots: []Slot{
				{"2025-11-05", "10:00"},
				{"2025-11-05", "10:30"},
				{"2025-11-05", "11:00"},
			},
			want: []Block{{"2025-11-05", "10:00", "11:30"}},
		},
		{
			name: "unsorted input",
			slots: []Slot{
				{"2025-11-05", "11:00"},
				{"2025-11-05", "10:00"},
				{"2025-11-05", "10:30"},
			},
			want: []Block{{"2025-11-05", "10:00", "11:30"}},
		},
		{
			name: "gap splits blocks",
			slots: []Slot{
				{"2025-11-05", "10:00"},
				{"2025-11-05", "11:00"},
				{"2025-11-05", "11:30"},
			},
			want: []Block{
				{"2025-11-05", "10:00", "10:30"},
				{"2025-11-05", "11:00", "12:00"},
			},
		},
		{
			name: "dates in first-seen order",
			slots: []Slot{
				{"2025-11-07", "09:00"},
				{"2025-11-05", "10:00"},
				{"2025-11-07", "09:30"},
			},
			want: []Block{
				{"2025-11-07", "09:00", "10:00"},
				{"2025-11-05", "10:00", "10:30"},
			},
		},
		{
			name: "duplicates absorbed",
			slots: []Slot{
				{"2025-11-05", "10:00"},
				{"2025-11-05", "10:00"},
				{"2025-11-05", "10:30"},
			},
			want: []Block{{"2025-11-05", "10:00", "11:00"}},
		},
		{
			name: "run to midnight",
			slots: []Slot{
				{"2025-11-05", "23:00"},
				{"2025-11-05", "23:30"},
			},
			want: []Block{{"2025-11-05", "23:00", "24:00"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.slots)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Merge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	in := []Slot{{"2025-11-05", "11:00"}, {"2025-11-05", "10:00"}}
	orig := slices.Clone(in)
	_ = Merge(in)
	if !slices.Equal(in, orig) {
		t.Errorf("input mutated: %v, want %v", in, orig)
	}
}

func TestExpand(t *testing.T) {
	blocks := []Block{
		{"2025-11-05", "10:00", "11:30"},
		{"2025-11-06", "09:00", "09:30"},
	}
	want := []Slot{
		{"2025-11-05", "10:00"},
		{"2025-11-05", "10:30"},
		{"2025-11-05", "11:00"},
		{"2025-11-06", "09:00"},
	}
	got := Expand(blocks)
	if !slices.Equal(got, want) {
		t.Errorf("Expand() = %v, want %v", got, want)
	}
	if got := Expand(nil); len(got) != 0 {
		t.Errorf("Expand(nil) = %v, want empty", got)
	}
}

// randomSelection picks a random subset of on-grid slots across a few dates.
func randomSelection(r *rand.Rand) []Slot {
	dates := []string{"2025-11-05", "2025-11-06", "2025-11-07", "2025-12-01"}
	var out []Slot
	for _, d := range dates {
		for _, tm := range GenerateTimes("06:00", "24:00") {
			if r.IntN(3) == 0 {
				out = append(out, Slot{Date: d, Time: tm})
			}
		}
	}
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func asSet(slots []Slot) map[Slot]bool {
	set := make(map[Slot]bool, len(slots))
	for _, s := range slots {
		set[s] = true
	}
	return set
}

func TestMergeExpand_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	for i := 0; i < 200; i++ {
		in := randomSelection(r)
		out := Expand(Merge(in))

		want := asSet(in)
		got := asSet(out)
		if len(out) != len(got) {
			t.Fatalf("iteration %d: expand produced duplicates", i)
		}
		if len(got) != len(want) {
			t.Fatalf("iteration %d: got %d slots, want %d", i, len(got), len(want))
		}
		for s := range want {
			if !got[s] {
				t.Fatalf("iteration %d: slot %s lost in round trip", i, s)
			}
		}
	}
}

func TestMerge_Minimal(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		blocks := Merge(randomSelection(r))
		for a := range blocks {
			for b := range blocks {
				if a == b || blocks[a].Date != blocks[b].Date {
					continue
				}
				if blocks[a].End == blocks[b].Start {
					t.Fatalf("iteration %d: adjacent blocks %v and %v not merged", i, blocks[a], blocks[b])
				}
			}
		}
	}
}

func TestSortBlocks(t *testing.T) {
	blocks := []Block{
		{"2025-11-07", "09:00", "10:00"},
		{"2025-11-05", "13:00", "14:00"},
		{"2025-11-05", "10:00", "10:30"},
	}
	SortBlocks(blocks)
	want := []Block{
		{"2025-11-05", "10:00", "10:30"},
		{"2025-11-05", "13:00", "14:00"},
		{"2025-11-07", "09:00", "10:00"},
	}
	if !slices.Equal(blocks, want) {
		t.Errorf("SortBlocks() = %v, want %v", blocks, want)
	}
}

func TestBlockValidate(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  error
	}{
		{name: "valid", block: Block{"2025-11-05", "10:00", "11:00"}},
		{name: "ends at midnight", block: Block{"2025-11-05", "23:00", "24:00"}},
		{name: "bad date", block: Block{"2025-13-05", "10:00", "11:00"}, want: ErrInvalidDateFormat},
		{name: "bad time", block: Block{"2025-11-05", "9:00", "11:00"}, want: ErrInvalidTimeFormat},
		{name: "bad hours", block: Block{"2025-11-05", "25:00", "26:00"}, want: ErrInvalidTimeFormat},
		{name: "bad minutes", block: Block{"2025-11-05", "09:60", "11:00"}, want: ErrInvalidTimeFormat},
		{name: "off grid", block: Block{"2025-11-05", "10:15", "11:00"}, want: ErrOffGrid},
		{name: "reversed", block: Block{"2025-11-05", "11:00", "10:00"}, want: ErrEndBeforeStart},
		{name: "empty", block: Block{"2025-11-05", "10:00", "10:00"}, want: ErrEndBeforeStart},
		{name: "past midnight", block: Block{"2025-11-05", "23:00", "24:30"}, want: ErrCrossesMidnight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.block.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseSlot(t *testing.T) {
	got, err := ParseSlot("2025-11-05@10:30")
	if err != nil {
		t.Fatalf("ParseSlot: %v", err)
	}
	if want := (Slot{"2025-11-05", "10:30"}); got != want {
		t.Errorf("ParseSlot = %v, want %v", got, want)
	}

	if _, err := ParseSlot("2025-11-05T10:30"); err != nil {
		t.Errorf("T separator rejected: %v", err)
	}
	if _, err := ParseSlot("2025-11-05"); err == nil {
		t.Error("expected error for missing time")
	}
	if _, err := ParseSlot("2025-11-05@10:15"); !errors.Is(err, ErrOffGrid) {
		t.Errorf("expected ErrOffGrid, got %v", err)
	}
}
