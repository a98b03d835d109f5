// Package calendar exports events as iCalendar (.ics) files.
package calendar

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/gosimple/slug"

	"github.com/javiermolinar/awase/internal/aggregate"
	"github.com/javiermolinar/awase/internal/event"
	"github.com/javiermolinar/awase/internal/slot"
)

const productID = "-//awase//awase//EN"

// ErrNothingToExport is returned when there are no best windows.
var ErrNothingToExport = errors.New("no best times to export")

// Options controls how wall-clock slots become instants.
type Options struct {
	// Location interprets candidate dates and times. Defaults to time.Local.
	Location *time.Location
	// URL is attached to every VEVENT when set.
	URL string
	// Now stamps DTSTAMP. Defaults to time.Now.
	Now time.Time
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// WriteBest writes one VEVENT per best window of res.
func WriteBest(w io.Writer, e *event.Event, res aggregate.Result, opts Options) error {
	windows := res.BestWindows()
	if len(windows) == 0 {
		return ErrNothingToExport
	}
	opts = opts.withDefaults()

	cal := newCalendar()
	for _, win := range windows {
		desc := fmt.Sprintf("%d/%d available: %s", win.Count, res.TotalParticipants, strings.Join(win.Names, ", "))
		if err := addEvent(cal, e, win.Date, win.Start, win.End, desc, ical.ObjectStatusConfirmed, opts); err != nil {
			return err
		}
	}
	return cal.SerializeTo(w)
}

// WriteCandidates writes one tentative VEVENT per candidate range, so an
// organizer can hold the times while responses come in.
func WriteCandidates(w io.Writer, e *event.Event, opts Options) error {
	opts = opts.withDefaults()

	cal := newCalendar()
	for _, c := range e.Candidates {
		if err := addEvent(cal, e, c.Date, c.Start, c.End, e.Description, ical.ObjectStatusTentative, opts); err != nil {
			return err
		}
	}
	return cal.SerializeTo(w)
}

// Filename returns a file name derived from the event title.
func Filename(e *event.Event) string {
	name := slug.Make(e.Title)
	if name == "" {
		name = e.Slug
	}
	return name + ".ics"
}

// SlotTime returns the instant of date at hhmm in loc. "24:00" is midnight
// of the following day.
func SlotTime(date, hhmm string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", date, err)
	}
	if err := slot.ValidateTime(hhmm); err != nil {
		return time.Time{}, err
	}
	m := slot.TimeToMinutes(hhmm)
	return time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, loc), nil
}

func newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	return cal
}

func addEvent(cal *ical.Calendar, e *event.Event, date, start, end, desc string, status ical.ObjectStatus, opts Options) error {
	from, err := SlotTime(date, start, opts.Location)
	if err != nil {
		return err
	}
	to, err := SlotTime(date, end, opts.Location)
	if err != nil {
		return err
	}

	ev := cal.AddEvent(fmt.Sprintf("%s-%sT%s@awase", e.ID, date, strings.ReplaceAll(start, ":", "")))
	ev.SetDtStampTime(opts.Now)
	ev.SetStartAt(from)
	ev.SetEndAt(to)
	ev.SetSummary(e.Title)
	ev.SetStatus(status)
	if desc != "" {
		ev.SetDescription(desc)
	}
	if opts.URL != "" {
		ev.SetURL(opts.URL)
	}
	return nil
}
