// ABOUTME: Progress model for the 90-day sales program.
// ABOUTME: Defines activity kinds, the fixed daily sequences, totals, and weekly windows.
package models

import (
	"fmt"
	"strings"
)

const (
	// TotalDays is the length of the program. Day i is an offset, not a calendar date.
	TotalDays = 90

	// DaysPerWeek is the width of a rollup window.
	DaysPerWeek = 7

	// WeeksInProgram is the number of rollup windows. The last one is short:
	// 13*7 = 91 but only 90 days exist, so week 13 holds 6 days.
	WeeksInProgram = (TotalDays + DaysPerWeek - 1) / DaysPerWeek
)

// Kind identifies one of the two tracked activities.
type Kind string

const (
	KindContact     Kind = "contact"
	KindAppointment Kind = "appointment"
)

// AllKinds lists tracked activities in display order.
var AllKinds = []Kind{KindContact, KindAppointment}

// KindLabels maps kinds to plural display labels.
var KindLabels = map[Kind]string{
	KindContact:     "Contacts",
	KindAppointment: "Appointments",
}

// ParseKind accepts the canonical name plus common short forms.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "contact", "contacts", "c":
		return KindContact, nil
	case "appointment", "appointments", "appt", "a":
		return KindAppointment, nil
	}
	return "", fmt.Errorf("unknown kind: %q (use contact or appointment)", s)
}

// IsValid reports whether k is a tracked kind.
func (k Kind) IsValid() bool {
	return k == KindContact || k == KindAppointment
}

// Sequence holds one count per program day.
type Sequence [TotalDays]int

// Sum adds every cell.
func (s Sequence) Sum() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// Window sums days [from, to) with to clamped to TotalDays.
func (s Sequence) Window(from, to int) int {
	if to > TotalDays {
		to = TotalDays
	}
	total := 0
	for i := from; i < to; i++ {
		total += s[i]
	}
	return total
}

// Progress is the full program state: both sequences.
type Progress struct {
	Contacts     Sequence
	Appointments Sequence
}

// Sequence returns a pointer to the sequence for kind, or nil for an unknown kind.
func (p *Progress) Sequence(kind Kind) *Sequence {
	switch kind {
	case KindContact:
		return &p.Contacts
	case KindAppointment:
		return &p.Appointments
	}
	return nil
}

// Totals holds per-kind sums over all program days.
type Totals struct {
	Contacts     int `json:"contacts" yaml:"contacts"`
	Appointments int `json:"appointments" yaml:"appointments"`
}

// Totals sums both sequences independently.
func (p Progress) Totals() Totals {
	return Totals{
		Contacts:     p.Contacts.Sum(),
		Appointments: p.Appointments.Sum(),
	}
}

// WeekTotal is one rollup window.
type WeekTotal struct {
	Week         int `json:"week" yaml:"week"`           // 1-based
	FirstDay     int `json:"first_day" yaml:"first_day"` // 0-based offset, inclusive
	Days         int `json:"days" yaml:"days"`
	Contacts     int `json:"contacts" yaml:"contacts"`
	Appointments int `json:"appointments" yaml:"appointments"`
}

// LastDay returns the 0-based offset of the final day in the window.
func (w WeekTotal) LastDay() int {
	return w.FirstDay + w.Days - 1
}

// Weekly partitions the program into WeeksInProgram windows.
// The final window sums only the days that exist; nothing is padded in.
func (p Progress) Weekly() []WeekTotal {
	weeks := make([]WeekTotal, 0, WeeksInProgram)
	for week := 0; week < WeeksInProgram; week++ {
		from := week * DaysPerWeek
		to := min(from+DaysPerWeek, TotalDays)
		weeks = append(weeks, WeekTotal{
			Week:         week + 1,
			FirstDay:     from,
			Days:         to - from,
			Contacts:     p.Contacts.Window(from, to),
			Appointments: p.Appointments.Window(from, to),
		})
	}
	return weeks
}

// Validate checks that every cell is non-negative.
func (p Progress) Validate() error {
	for _, kind := range AllKinds {
		seq := p.Sequence(kind)
		for i, v := range seq {
			if v < 0 {
				return fmt.Errorf("%s day %d: negative count %d", kind, i+1, v)
			}
		}
	}
	return nil
}

// SequenceFromSlice copies values into a Sequence. Short input is zero-padded,
// long input is truncated.
func SequenceFromSlice(values []int) Sequence {
	var seq Sequence
	copy(seq[:], values)
	return seq
}

// DayLevel classifies a day's count against the daily goal for display.
type DayLevel int

const (
	LevelNone DayLevel = iota
	LevelPartial
	LevelMet
)

// LevelFor returns how a count compares to goal. A non-positive goal counts any
// activity as met.
func LevelFor(count, goal int) DayLevel {
	switch {
	case count <= 0:
		return LevelNone
	case goal <= 0 || count >= goal:
		return LevelMet
	default:
		return LevelPartial
	}
}
