// Package render turns workouts into the view models the map client draws:
// a marker with its popup, a list entry, and a map focus target.
package render

import (
	"strconv"

	"github.com/claude/mapty/internal/workout"
)

// Map defaults shared by every client.
const (
	ZoomLevel        = 13
	PopupMaxWidth    = 250
	PopupMinWidth    = 150
	FocusDurationSec = 1.0
)

const (
	runningIcon  = "🏃‍♂️"
	cyclingIcon  = "🚴‍♀️"
	durationIcon = "⏱"
	metricIcon   = "⚡️"
	cadenceIcon  = "🦶🏼"
	climbIcon    = "⛰"
)

// Popup describes the sticky popup bound to a marker.
type Popup struct {
	ClassName    string `json:"className"`
	Content      string `json:"content"`
	MaxWidth     int    `json:"maxWidth"`
	MinWidth     int    `json:"minWidth"`
	AutoClose    bool   `json:"autoClose"`
	CloseOnClick bool   `json:"closeOnClick"`
}

// MarkerView is a map pin at the workout's coordinates.
type MarkerView struct {
	Coords [2]float64 `json:"coords"`
	Popup  Popup      `json:"popup"`
}

// Detail is one icon/value/unit row of a list entry.
type Detail struct {
	Icon  string `json:"icon"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// EntryView is a workout row in the sidebar list.
type EntryView struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Title   string   `json:"title"`
	Icon    string   `json:"icon"`
	Details []Detail `json:"details"`
	Clicks  int      `json:"interactionCount"`
}

// FocusView is where the map pans when an entry is selected.
type FocusView struct {
	Coords      [2]float64 `json:"coords"`
	Zoom        int        `json:"zoom"`
	Animate     bool       `json:"animate"`
	DurationSec float64    `json:"duration"`
}

// View pairs the list entry with its marker.
type View struct {
	Entry  EntryView  `json:"entry"`
	Marker MarkerView `json:"marker"`
}

// Icon returns the sport emoji for k.
func Icon(k workout.Kind) string {
	if k == workout.Cycling {
		return cyclingIcon
	}
	return runningIcon
}

// Marker renders the map pin and popup for w.
func Marker(w workout.Workout) MarkerView {
	return MarkerView{
		Coords: coords(w),
		Popup: Popup{
			ClassName: string(w.Kind()) + "-popup",
			Content:   Icon(w.Kind()) + " " + w.Description(),
			MaxWidth:  PopupMaxWidth,
			MinWidth:  PopupMinWidth,
		},
	}
}

// Entry renders the list row for w. Pace and speed are shown to one decimal;
// the typed numbers are shown as entered.
func Entry(w workout.Workout) EntryView {
	e := EntryView{
		ID:     w.ID(),
		Kind:   string(w.Kind()),
		Title:  w.Description(),
		Icon:   Icon(w.Kind()),
		Clicks: w.InteractionCount(),
		Details: []Detail{
			{Icon: Icon(w.Kind()), Value: plain(w.DistanceKm()), Unit: "km"},
			{Icon: durationIcon, Value: plain(w.DurationMin()), Unit: "min"},
		},
	}
	if r, ok := w.Running(); ok {
		e.Details = append(e.Details,
			Detail{Icon: metricIcon, Value: oneDecimal(r.PaceMinPerKm), Unit: "min/km"},
			Detail{Icon: cadenceIcon, Value: plain(r.CadenceSPM), Unit: "spm"},
		)
	}
	if c, ok := w.Cycling(); ok {
		e.Details = append(e.Details,
			Detail{Icon: metricIcon, Value: oneDecimal(c.SpeedKmPerH), Unit: "km/h"},
			Detail{Icon: climbIcon, Value: plain(c.ElevationGainM), Unit: "m"},
		)
	}
	return e
}

// Focus returns the animated pan target for w.
func Focus(w workout.Workout) FocusView {
	return FocusView{
		Coords:      coords(w),
		Zoom:        ZoomLevel,
		Animate:     true,
		DurationSec: FocusDurationSec,
	}
}

// Render builds the entry and marker for w.
func Render(w workout.Workout) View {
	return View{Entry: Entry(w), Marker: Marker(w)}
}

// List renders ws in order.
func List(ws []workout.Workout) []View {
	out := make([]View, 0, len(ws))
	for _, w := range ws {
		out = append(out, Render(w))
	}
	return out
}

func coords(w workout.Workout) [2]float64 {
	c := w.Coords()
	return [2]float64{c.Lat, c.Lng}
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func oneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
