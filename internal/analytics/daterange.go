// Package analytics turns an owner's transactions into the derived views shown on
// dashboards. Every function here is pure and performs no I/O; callers fetch the
// data and pass the reporting window explicitly.
package analytics

import (
	"fmt"
	"time"

	"finance_tracker/internal/model"

	"cloud.google.com/go/civil"
)

// Window presets accepted by Normalizer.Preset.
const (
	PresetToday     = "today"
	PresetLast7Days = "last7Days"
	PresetThisMonth = "thisMonth"
	PresetLastMonth = "lastMonth"
	PresetThisYear  = "thisYear"
	PresetAllTime   = "allTime"

	// DefaultPreset is used when a request names neither a preset nor dates.
	DefaultPreset = PresetThisMonth
)

// Epoch is the first day covered by the allTime preset.
var Epoch = civil.Date{Year: 2000, Month: time.January, Day: 1}

// FixedZone returns the reporting timezone for an offset east of UTC in minutes.
func FixedZone(offsetMinutes int) *time.Location {
	sign := '+'
	abs := offsetMinutes
	if abs < 0 {
		sign = '-'
		abs = -abs
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, abs/60, abs%60)
	return time.FixedZone(name, offsetMinutes*60)
}

// Normalizer resolves presets and explicit ranges into windows anchored to a
// single reporting timezone, regardless of where the caller is.
type Normalizer struct {
	loc *time.Location
	now func() time.Time
}

// NewNormalizer creates a Normalizer using the wall clock.
func NewNormalizer(loc *time.Location) *Normalizer {
	return NewNormalizerWithClock(loc, time.Now)
}

// NewNormalizerWithClock creates a Normalizer with an injected clock.
func NewNormalizerWithClock(loc *time.Location, now func() time.Time) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc, now: now}
}

// Location returns the reporting timezone.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Today returns the current calendar day in the reporting timezone.
func (n *Normalizer) Today() civil.Date {
	return civil.DateOf(n.now().In(n.loc))
}

// Resolve picks between explicit dates and a preset. Explicit dates must come in pairs.
func (n *Normalizer) Resolve(spec model.RangeSpec) (model.Window, error) {
	if spec.Start != nil || spec.End != nil {
		if spec.Start == nil || spec.End == nil {
			return model.Window{}, fmt.Errorf("%w: both start_date and end_date are required", model.ErrInvalidArgument)
		}
		return n.Between(*spec.Start, *spec.End)
	}
	preset := spec.Preset
	if preset == "" {
		preset = DefaultPreset
	}
	return n.Preset(preset)
}

// Preset resolves a named window relative to today.
func (n *Normalizer) Preset(preset string) (model.Window, error) {
	today := n.Today()
	switch preset {
	case PresetToday:
		return n.window(today, today), nil
	case PresetLast7Days:
		return n.window(today.AddDays(-6), today), nil
	case PresetThisMonth:
		return n.window(civil.Date{Year: today.Year, Month: today.Month, Day: 1}, today), nil
	case PresetLastMonth:
		prev := model.MonthKeyOf(civil.Date{Year: today.Year, Month: today.Month, Day: 1}.AddDays(-1))
		return n.Month(prev), nil
	case PresetThisYear:
		return n.window(civil.Date{Year: today.Year, Month: time.January, Day: 1}, today), nil
	case PresetAllTime:
		return n.window(Epoch, today), nil
	}
	return model.Window{}, fmt.Errorf("%w: unknown date range preset %q", model.ErrInvalidArgument, preset)
}

// Between resolves an explicit range. end before start is rejected, never swapped.
func (n *Normalizer) Between(start, end civil.Date) (model.Window, error) {
	if !start.IsValid() || !end.IsValid() {
		return model.Window{}, fmt.Errorf("%w: invalid calendar date", model.ErrInvalidArgument)
	}
	if end.Before(start) {
		return model.Window{}, fmt.Errorf("%w: end date %s is before start date %s", model.ErrInvalidArgument, end, start)
	}
	return n.window(start, end), nil
}

// Month returns the window covering a whole calendar month.
func (n *Normalizer) Month(m model.MonthKey) model.Window {
	return n.window(m.FirstDay(), m.LastDay())
}

func (n *Normalizer) window(start, end civil.Date) model.Window {
	return model.Window{
		Start: time.Date(start.Year, start.Month, start.Day, 0, 0, 0, 0, n.loc),
		End:   time.Date(end.Year, end.Month, end.Day, 23, 59, 59, 0, n.loc),
	}
}
