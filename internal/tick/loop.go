// Package tick drives the prayer-time engine once per second. Each tick
// locates the next slot, formats the countdown, picks the theme, asks the
// scheduler for a due notification and publishes a snapshot.
package tick

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/smokyabdulrahman/vaktija/internal/locale"
	"github.com/smokyabdulrahman/vaktija/internal/notify"
	"github.com/smokyabdulrahman/vaktija/internal/prayer"
	"github.com/smokyabdulrahman/vaktija/internal/timetable"
)

// DefaultInterval is the tick period.
const DefaultInterval = time.Second

const dayKeyLayout = "2006-01-02"

// ErrRunning is returned by Start when the loop is already running.
var ErrRunning = errors.New("tick loop already running")

// State is the lifecycle state of a Loop.
type State int32

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Sink receives every snapshot the loop produces.
type Sink interface {
	Publish(ctx context.Context, s prayer.Snapshot) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, s prayer.Snapshot) error

// Publish calls f.
func (f SinkFunc) Publish(ctx context.Context, s prayer.Snapshot) error {
	return f(ctx, s)
}

// Options configures a Loop. Provider is required.
type Options struct {
	Location string
	// Zone decides the civil day before the first table has loaded.
	Zone     *time.Location
	Provider timetable.Provider
	Clock    Clock
	Interval time.Duration

	// Lead is how long before a slot its notification fires.
	Lead      time.Duration
	Transport notify.Transport
	Sinks     []Sink

	// AutoTheme derives the theme from sunrise and sunset. When false the
	// fixed Theme is used.
	AutoTheme bool
	Theme     prayer.ThemeTag

	Logger *log.Logger
}

// Loop owns the per-second tick. Only the loop goroutine writes its engine
// state; readers use Current.
type Loop struct {
	opts   Options
	clock  Clock
	sched  *notify.Scheduler
	logger *log.Logger

	table       *prayer.Table
	tableDay    string
	tomorrow    *prayer.Table
	tomorrowDay string
	notified    notify.State
	lastNow     time.Time
	lastErr     string

	current atomic.Pointer[prayer.Snapshot]
	state   atomic.Int32

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an idle loop.
func New(opts Options) *Loop {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Theme == "" {
		opts.Theme = prayer.ThemeDay
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loop{
		opts:   opts,
		clock:  opts.Clock,
		sched:  notify.NewScheduler(opts.Lead),
		logger: logger,
	}
}

// State reports whether the loop goroutine is running.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Current returns the most recent snapshot, if any tick has run.
func (l *Loop) Current() (prayer.Snapshot, bool) {
	s := l.current.Load()
	if s == nil {
		return prayer.Snapshot{}, false
	}
	return *s, true
}

// Start runs one tick immediately and then one per interval until Stop is
// called or ctx is done.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done != nil {
		select {
		case <-l.done:
		default:
			return ErrRunning
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	ticker := l.clock.NewTicker(l.opts.Interval)
	done := make(chan struct{})
	l.cancel, l.done = cancel, done
	l.state.Store(int32(Running))

	go l.run(ctx, ticker, done)
	return nil
}

// Stop cancels the loop and waits for its goroutine to exit. No tick runs
// after Stop returns.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (l *Loop) run(ctx context.Context, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	defer l.state.Store(int32(Idle))

	l.logger.Debug("tick loop started", "location", l.opts.Location, "interval", l.opts.Interval)
	l.Step(ctx, l.clock.Now())
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("tick loop stopped")
			return
		case now := <-ticker.C():
			if ctx.Err() != nil {
				return
			}
			l.Step(ctx, now)
		}
	}
}

// Step runs one tick synchronously and returns its snapshot. It must not be
// called concurrently with a running loop.
func (l *Loop) Step(ctx context.Context, now time.Time) prayer.Snapshot {
	if !l.lastNow.IsZero() && now.Before(l.lastNow) {
		l.logger.Debug("clock moved backwards", "from", l.lastNow.Format(time.RFC3339), "to", now.Format(time.RFC3339))
	}
	l.lastNow = now

	snap := l.compose(ctx, now)
	l.current.Store(&snap)

	for _, sink := range l.opts.Sinks {
		if err := sink.Publish(ctx, snap); err != nil {
			l.logger.Warn("snapshot sink failed", "error", err)
		}
	}
	return snap
}

func (l *Loop) compose(ctx context.Context, now time.Time) prayer.Snapshot {
	snap := prayer.Snapshot{
		At:       now,
		Location: l.opts.Location,
		Next:     -1,
		Theme:    l.opts.Theme,
	}

	if err := l.refresh(ctx, now); err != nil {
		return l.fail(snap, err)
	}
	t := *l.table
	snap.Location, snap.Date = t.Location, t.Date

	idx, err := prayer.Locate(t, now)
	if err != nil {
		return l.fail(snap, err)
	}
	l.lastErr = ""

	var tomorrow *prayer.Table
	if idx == prayer.NextDay {
		tomorrow = l.tomorrowTable(ctx, now)
	}
	target := prayer.Target(t, idx, now, tomorrow)

	snap.Next = idx
	snap.NextName = prayer.Name(idx)
	snap.Target = target
	snap.Countdown = prayer.FormatRemaining(prayer.TimeRemaining(target, now))
	snap.CountdownText = locale.Relative(target, now)
	snap.Slots = make([]prayer.SlotView, len(t.Slots))
	for i, s := range t.Slots {
		snap.Slots[i] = prayer.SlotView{
			Name:     prayer.SlotNames[i],
			Time:     s.String(),
			Next:     i == idx,
			Relative: locale.Relative(t.At(i, now), now),
		}
	}
	if l.opts.AutoTheme {
		snap.Theme = prayer.Theme(t, now)
	}

	n, due, st := l.sched.Due(t, now, l.notified)
	l.notified = st
	if due {
		l.deliver(ctx, n)
	}
	return snap
}

// refresh loads a table when none is held, the civil day changed or the
// provider went stale. A failed reload keeps the previous table for the same
// day.
func (l *Loop) refresh(ctx context.Context, now time.Time) error {
	day := now.In(l.zone()).Format(dayKeyLayout)

	stale := false
	if s, ok := l.opts.Provider.(timetable.Staler); ok {
		stale = s.Stale()
	}
	if l.table != nil && l.tableDay == day && !stale {
		return nil
	}

	t, err := l.opts.Provider.Table(ctx, l.opts.Location, now)
	if err != nil {
		if l.table != nil && l.tableDay == day {
			l.logger.Warn("reloading timetable failed, keeping previous", "error", err)
			return nil
		}
		l.table = nil
		return err
	}

	l.table = &t
	l.tableDay = now.In(t.Loc()).Format(dayKeyLayout)
	l.tomorrow, l.tomorrowDay = nil, ""
	l.logger.Debug("timetable loaded", "location", t.Location, "day", l.tableDay)
	return nil
}

// tomorrowTable fetches the next day's table once per day. On failure Target
// re-anchors today's first slot instead.
func (l *Loop) tomorrowTable(ctx context.Context, now time.Time) *prayer.Table {
	next := now.In(l.zone()).AddDate(0, 0, 1)
	key := next.Format(dayKeyLayout)
	if l.tomorrowDay == key {
		return l.tomorrow
	}

	l.tomorrowDay = key
	l.tomorrow = nil
	t, err := l.opts.Provider.Table(ctx, l.opts.Location, next)
	if err != nil {
		l.logger.Debug("no table for tomorrow, using today's", "day", key, "error", err)
		return nil
	}
	l.tomorrow = &t
	return l.tomorrow
}

func (l *Loop) zone() *time.Location {
	if l.table != nil {
		return l.table.Loc()
	}
	if l.opts.Zone != nil {
		return l.opts.Zone
	}
	return prayer.Table{}.Loc()
}

func (l *Loop) fail(snap prayer.Snapshot, err error) prayer.Snapshot {
	snap.Err = err.Error()
	if snap.Err != l.lastErr {
		l.logger.Error("cannot compute prayer times", "error", err)
		l.lastErr = snap.Err
	}
	return snap
}

func (l *Loop) deliver(ctx context.Context, n notify.Notification) {
	l.logger.Debug("notification due", "slot", n.SlotName, "at", n.ScheduledFor.Format("15:04"))
	if l.opts.Transport == nil {
		return
	}
	if err := l.opts.Transport.Notify(ctx, n); err != nil {
		l.logger.Warn("notification transport failed", "slot", n.SlotName, "error", err)
	}
}
