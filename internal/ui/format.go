package ui

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/javiermolinar/awase/internal/aggregate"
	"github.com/javiermolinar/awase/internal/event"
	"github.com/javiermolinar/awase/internal/slot"
)

const (
	heatTimeWidth = 6 // "10:00 "
	heatColWidth  = 7 // "Wed 05 "
	inertCell     = "·"
	bestSuffix    = "★"
)

// PrintEvent prints an event's header and candidate ranges.
func PrintEvent(w io.Writer, e *event.Event, now time.Time) {
	fmt.Fprintf(w, "%s\n", formatHeader(e.Title))
	if e.Description != "" {
		fmt.Fprintf(w, "%s\n", e.Description)
	}
	expiry := "expires " + e.ExpiresAt.Format("Mon Jan 2, 2006")
	if e.Expired(now) {
		expiry = "expired " + e.ExpiresAt.Format("Mon Jan 2, 2006")
	}
	fmt.Fprintf(w, "%s\n\n", formatMuted(expiry))

	fmt.Fprintln(w, "Candidate times:")
	for _, c := range e.Candidates {
		minutes := slot.TimeToMinutes(c.End) - slot.TimeToMinutes(c.Start)
		fmt.Fprintf(w, "  %s  %s-%s  %s\n", dayLabel(c.Date), c.Start, c.End, formatMuted(FormatDuration(minutes)))
	}
}

// PrintHeatmap prints a date-by-time table of availability counts. Dates
// that do not fit in width wrap into further tables.
func PrintHeatmap(w io.Writer, res aggregate.Result, width int) {
	cols := heatColumns(res)
	if len(cols) == 0 {
		return
	}
	perRow := max((width-heatTimeWidth)/heatColWidth, 1)
	for chunk := range slices.Chunk(cols, perRow) {
		printHeatTable(w, res, chunk)
		fmt.Fprintln(w)
	}
}

// heatColumn gathers every slot of one date across its ranges.
type heatColumn struct {
	date     string
	slots    map[string]aggregate.SlotSummary
	maxCount int
}

func heatColumns(res aggregate.Result) []heatColumn {
	var cols []heatColumn
	index := make(map[string]int)
	for _, ds := range res.Dates {
		i, ok := index[ds.Date]
		if !ok {
			i = len(cols)
			index[ds.Date] = i
			cols = append(cols, heatColumn{date: ds.Date, slots: make(map[string]aggregate.SlotSummary)})
		}
		for _, ss := range ds.Slots {
			cols[i].slots[ss.Time] = ss
		}
		cols[i].maxCount = max(cols[i].maxCount, ds.MaxCount)
	}
	slices.SortFunc(cols, func(a, b heatColumn) int { return slot.CompareDates(a.date, b.date) })
	return cols
}

func printHeatTable(w io.Writer, res aggregate.Result, cols []heatColumn) {
	times := make(map[string]bool)
	for _, c := range cols {
		for t := range c.slots {
			times[t] = true
		}
	}
	rows := make([]string, 0, len(times))
	for t := range times {
		rows = append(rows, t)
	}
	slices.SortFunc(rows, slot.CompareTimes)

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", heatTimeWidth))
	for _, c := range cols {
		sb.WriteString(formatHeader(fmt.Sprintf("%-*s", heatColWidth, dayLabel(c.date))))
	}
	fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))

	for _, t := range rows {
		sb.Reset()
		label := ""
		if strings.HasSuffix(t, ":00") {
			label = t
		}
		sb.WriteString(formatMuted(fmt.Sprintf("%-*s", heatTimeWidth, label)))
		for _, c := range cols {
			ss, ok := c.slots[t]
			if !ok {
				sb.WriteString(formatMuted(fmt.Sprintf("%-*s", heatColWidth, "  "+inertCell)))
				continue
			}
			text := strconv.Itoa(ss.Count)
			if res.IsBest(ss.Slot()) {
				text += bestSuffix
			}
			cell := fmt.Sprintf("  %-4s", text)
			sb.WriteString(formatHeat(cell, ss.Count, c.maxCount) + " ")
		}
		fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
	}
}

// PrintBestSlots lists the best windows with who can make them.
func PrintBestSlots(w io.Writer, res aggregate.Result) {
	if res.Empty() {
		fmt.Fprintln(w, formatMuted("No responses yet."))
		return
	}
	wins := res.BestWindows()
	if len(wins) == 0 {
		fmt.Fprintln(w, formatMuted("Nobody is available at any candidate time."))
		return
	}

	fmt.Fprintln(w, formatHeader("Best times:"))
	for _, wn := range wins {
		line := fmt.Sprintf("%s %s %s-%s", bestSuffix, dayLabel(wn.Date), wn.Start, wn.End)
		fmt.Fprintf(w, "  %s  %d/%d  %s  %s\n",
			formatBest(line), wn.Count, res.TotalParticipants,
			formatMuted(FormatDuration(wn.Minutes())), strings.Join(wn.Names, ", "))
	}
}

// PrintParticipants lists who responded and who is available on each date.
func PrintParticipants(w io.Writer, responses []*event.Response, res aggregate.Result) {
	if len(responses) == 0 {
		fmt.Fprintln(w, formatMuted("No responses yet."))
		return
	}
	fmt.Fprintf(w, "Participants (%d):\n", len(responses))
	for _, r := range responses {
		blocks := make([]string, len(r.Blocks))
		for i, b := range r.Blocks {
			blocks[i] = b.String()
		}
		fmt.Fprintf(w, "  %s  %s\n", r.ParticipantName, formatMuted(strings.Join(blocks, " ")))
	}

	fmt.Fprintln(w)
	for _, ds := range res.Dates {
		names := ds.Participants()
		if len(names) == 0 {
			fmt.Fprintf(w, "  %s  %s\n", dayLabel(ds.Date), formatMuted("nobody"))
			continue
		}
		fmt.Fprintf(w, "  %s  %s\n", dayLabel(ds.Date), strings.Join(names, ", "))
	}
}

// dayLabel renders "2025-11-05" as "Wed 05".
func dayLabel(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Mon 02")
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// PrintAdviceWrapped prints model output wrapped to width, keeping bullet
// and numbered list structure.
func PrintAdviceWrapped(w io.Writer, text string, width int) {
	text = stripMarkdownCodeBlocks(text)

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			fmt.Fprintln(w)
			continue
		}

		prefix, content, contentWidth, isHeader := parseAdviceLine(trimmed, width)
		if isHeader {
			fmt.Fprintln(w)
			fmt.Fprintln(w, formatHeader("  "+content))
			continue
		}
		wrapAndPrint(w, content, prefix, contentWidth)
	}
}

// parseAdviceLine returns the prefix, content and wrap width for a line.
func parseAdviceLine(trimmed string, width int) (prefix, content string, contentWidth int, isHeader bool) {
	prefix = "  "
	content = trimmed
	contentWidth = width - 2

	switch {
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		prefix = "    • "
		content = strings.TrimPrefix(strings.TrimPrefix(trimmed, "- "), "* ")
		contentWidth = width - 6

	case strings.HasPrefix(trimmed, "#"):
		content = strings.TrimLeft(trimmed, "# ")
		isHeader = true

	case isNumberedItem(trimmed):
		idx := strings.Index(trimmed, ".")
		prefix = "  " + trimmed[:idx+1] + " "
		content = strings.TrimSpace(trimmed[idx+1:])
		contentWidth = width - len(prefix)
	}

	return prefix, content, contentWidth, isHeader
}

// isNumberedItem checks if a line starts with a number followed by a period.
func isNumberedItem(s string) bool {
	if len(s) < 3 {
		return false
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	if s[1] == '.' {
		return true
	}
	return s[1] >= '0' && s[1] <= '9' && len(s) > 3 && s[2] == '.'
}

// wrapAndPrint wraps text to width and prints with the given prefix.
func wrapAndPrint(w io.Writer, text, prefix string, width int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	continuation := strings.Repeat(" ", len(prefix))
	line := ""
	first := true
	flush := func() {
		p := continuation
		if first {
			p = prefix
		}
		fmt.Fprintln(w, formatAdvice(p+line))
		first = false
	}

	for _, word := range words {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			flush()
			line = word
		}
	}
	if line != "" {
		flush()
	}
}

// stripMarkdownCodeBlocks removes ```...``` fences from text.
func stripMarkdownCodeBlocks(text string) string {
	var result []string
	inCodeBlock := false
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if !inCodeBlock {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
