package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/awase/internal/aggregate"
	"github.com/javiermolinar/awase/internal/logger"
	"github.com/javiermolinar/awase/internal/slot"
)

const advisorSystemPrompt = `You help a group pick a meeting time from their shared availability.
You receive the event title, the number of participants, the best slots
(every slot tied at the highest availability) and each date's availability
windows as "START-END count/total (names)".

Rules:
1. Only recommend slots listed under "Best slots". They are all tied; do not invent a winner among ties unless a window makes one clearly longer.
2. Mention who is missing from the recommended time, if anyone.
3. Keep the summary under 60 words.

Respond ONLY with valid JSON (no markdown, no explanation):
{
  "summary": "string",
  "picks": ["YYYY-MM-DD@HH:MM"]
}`

// ErrNoResponses is returned when there is nothing to advise on.
var ErrNoResponses = errors.New("no responses yet")

// Advice is the model's recommendation over an aggregation result.
type Advice struct {
	Summary string      `json:"summary"`
	Picks   []slot.Slot `json:"-"`

	// Dropped lists picks the model returned that are not best slots.
	Dropped []string `json:"-"`
}

type adviceResponse struct {
	Summary string   `json:"summary"`
	Picks   []string `json:"picks"`
}

// Advisor asks an LLM to phrase a recommendation. The tie set in the
// result stays authoritative: picks outside it are dropped.
type Advisor struct {
	client Client
}

// NewAdvisor creates an advisor backed by client.
func NewAdvisor(client Client) *Advisor {
	return &Advisor{client: client}
}

// Advise returns a recommendation for the event titled title.
func (a *Advisor) Advise(ctx context.Context, title string, res aggregate.Result) (*Advice, error) {
	if res.Empty() || len(res.BestSlots) == 0 {
		return nil, ErrNoResponses
	}

	messages := []Message{
		{Role: RoleSystem, Content: advisorSystemPrompt},
		{Role: RoleUser, Content: FormatResult(title, res)},
	}

	var resp adviceResponse
	if err := a.client.ChatJSON(ctx, messages, &resp); err != nil {
		return nil, fmt.Errorf("asking for advice: %w", err)
	}

	advice := &Advice{Summary: strings.TrimSpace(resp.Summary)}
	for _, p := range resp.Picks {
		s, err := slot.ParseSlot(strings.TrimSpace(p))
		if err != nil || !res.IsBest(s) {
			advice.Dropped = append(advice.Dropped, p)
			continue
		}
		advice.Picks = append(advice.Picks, s)
	}
	if len(advice.Dropped) > 0 {
		logger.Warn("advisor picked non-best slots", "dropped", advice.Dropped)
	}
	if len(advice.Picks) == 0 {
		for _, b := range res.BestSlots {
			advice.Picks = append(advice.Picks, b.Slot())
		}
	}
	return advice, nil
}

// FormatResult renders res as the plain-text context the advisor sends.
func FormatResult(title string, res aggregate.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Event: %s\n", title)
	fmt.Fprintf(&sb, "Participants: %d\n\n", res.TotalParticipants)

	sb.WriteString("Best slots:\n")
	for _, b := range res.BestSlots {
		fmt.Fprintf(&sb, "- %s %d/%d (%s)\n", b.Slot(), b.Count, res.TotalParticipants, strings.Join(b.Names, ", "))
	}

	sb.WriteString("\nAvailability by date:\n")
	for _, d := range res.Dates {
		fmt.Fprintf(&sb, "%s:\n", d.Date)
		windows := aggregate.Windows(d.Slots)
		if len(windows) == 0 {
			sb.WriteString("  nobody available\n")
			continue
		}
		for _, w := range windows {
			fmt.Fprintf(&sb, "  %s-%s %d/%d (%s)\n", w.Start, w.End, w.Count, res.TotalParticipants, strings.Join(w.Names, ", "))
		}
	}
	return sb.String()
}
