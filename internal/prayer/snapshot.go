package prayer

import "time"

// SlotView is one row of a snapshot.
type SlotView struct {
	Name     string `json:"name"`
	Time     string `json:"time"`
	Next     bool   `json:"next"`
	Relative string `json:"relative"`
}

// Snapshot is the state published once per tick. It is a value: every field
// belongs to the same tick.
type Snapshot struct {
	At            time.Time  `json:"at"`
	Location      string     `json:"location"`
	Date          []string   `json:"date,omitempty"`
	Next          int        `json:"next"`
	NextName      string     `json:"next_name"`
	Target        time.Time  `json:"target"`
	Countdown     string     `json:"countdown"`
	CountdownText string     `json:"countdown_text"`
	Theme         ThemeTag   `json:"theme"`
	Slots         []SlotView `json:"slots"`
	Err           string     `json:"error,omitempty"`
}
