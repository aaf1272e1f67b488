// Package notify decides when a prayer reminder is due and delivers it.
//
// The Scheduler fires one Notification per slot per day, Lead before the
// slot's time. Delivery goes through a Transport and is best-effort: a
// failed delivery is never retried.
package notify

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smokyabdulrahman/vaktija/internal/locale"
	"github.com/smokyabdulrahman/vaktija/internal/prayer"
)

// DefaultLead is how long before a slot its notification fires.
const DefaultLead = 15 * time.Minute

const dayLayout = "2006-01-02"

// State is the scheduler's memory between ticks. The zero value is ready to
// use. It belongs to a single civil day and resets when a later day begins.
type State struct {
	Day   string
	Fired [prayer.SlotCount]bool
	// Watermark is the latest minute seen today. Minutes before it never fire.
	Watermark time.Time
}

// Scheduler computes due notifications. It holds no state of its own.
type Scheduler struct {
	Lead time.Duration
}

// NewScheduler returns a scheduler firing lead before each slot.
// A non-positive lead means DefaultLead.
func NewScheduler(lead time.Duration) *Scheduler {
	if lead <= 0 {
		lead = DefaultLead
	}
	return &Scheduler{Lead: lead}
}

// Due reports whether a notification should be requested at now and returns
// the updated state. A slot fires when now falls in the same minute as its
// trigger instant and it has not fired yet today. At most one notification
// is returned per call.
func (s *Scheduler) Due(t prayer.Table, now time.Time, st State) (Notification, bool, State) {
	if t.Validate() != nil {
		return Notification{}, false, st
	}

	now = now.In(t.Loc())
	minute := truncateMinute(now)

	// dayLayout dates order correctly as strings. A day already left behind
	// never fires again.
	switch day := now.Format(dayLayout); {
	case st.Day == "" || day > st.Day:
		st = State{Day: day}
	case day < st.Day:
		return Notification{}, false, st
	}

	// Clock moved backwards: wait until it catches up with the watermark.
	if !st.Watermark.IsZero() && minute.Before(st.Watermark) {
		return Notification{}, false, st
	}
	st.Watermark = minute

	for i := range t.Slots {
		if st.Fired[i] {
			continue
		}
		slot := t.At(i, now)
		if !truncateMinute(slot.Add(-s.Lead)).Equal(minute) {
			continue
		}
		st.Fired[i] = true
		return s.notification(t, i, slot, now), true, st
	}

	return Notification{}, false, st
}

func (s *Scheduler) notification(t prayer.Table, i int, slot, now time.Time) Notification {
	name := prayer.Name(i)
	lead := locale.Format(int(s.Lead/time.Minute), locale.Minutes, locale.Future)

	date := strings.Join(t.Date, " / ")
	if date == "" {
		date = now.Format("02.01.2006")
	}
	body := date
	if t.Location != "" {
		body = t.Location + ", " + date
	}

	return Notification{
		ID:           uuid.NewString(),
		Slot:         i,
		SlotName:     name,
		ScheduledFor: slot,
		Location:     t.Location,
		Title:        name + " je " + lead,
		Body:         body,
	}
}

// truncateMinute drops seconds in t's own location.
func truncateMinute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}
