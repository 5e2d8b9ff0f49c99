package ics

import (
	"bytes"
	"errors"
	"fmt"

	ical "github.com/arran4/golang-ical"

	appLog "icsjson/internal/log"
)

// ErrNoCalendar is returned when a feed body holds no parsable VCALENDAR.
var ErrNoCalendar = errors.New("no calendar found in ical feed")

const (
	calendarBegin = "BEGIN:VCALENDAR"
	calendarEnd   = "END:VCALENDAR"
)

// RawProperty is a single name/value pair of a calendar component, as
// produced by the parser. Value is nil when the parser yielded no value.
type RawProperty struct {
	Name  string
	Value *string
}

// RawEvent is the ordered property list of one VEVENT.
type RawEvent struct {
	Properties []RawProperty
}

// ParseCalendar parses an ICS payload and returns its VEVENT components in
// document order. Other component kinds (VTIMEZONE, VTODO, ...) are dropped.
//
// An empty body, a body without BEGIN:VCALENDAR, or a payload the parser
// rejects all yield ErrNoCalendar.
func ParseCalendar(body []byte) ([]RawEvent, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrNoCalendar)
	}
	// golang-ical accepts an empty stream without error, so check for the
	// calendar marker up front.
	body, ok := firstCalendar(body)
	if !ok {
		return nil, ErrNoCalendar
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "bytes", len(body))
		return nil, fmt.Errorf("%w: %v", ErrNoCalendar, err)
	}

	vevents := cal.Events()
	events := make([]RawEvent, 0, len(vevents))
	for _, ve := range vevents {
		events = append(events, rawEventFromVEvent(ve))
	}

	appLog.Info("ics parse completed", "event_count", len(events), "component_count", len(cal.Components))
	return events, nil
}

func rawEventFromVEvent(ve *ical.VEvent) RawEvent {
	props := make([]RawProperty, 0, len(ve.Properties))
	for _, p := range ve.Properties {
		rp := RawProperty{Name: p.IANAToken}
		if p.Value != "" {
			v := p.Value
			rp.Value = &v
		}
		props = append(props, rp)
	}
	return RawEvent{Properties: props}
}

// firstCalendar cuts body after the first END:VCALENDAR line that follows a
// BEGIN:VCALENDAR line; golang-ical rejects anything after it. Markers only
// count as whole lines, so folded or embedded text never matches. ok is false
// when no BEGIN:VCALENDAR line exists.
func firstCalendar(body []byte) (cut []byte, ok bool) {
	for off := 0; off < len(body); {
		next := len(body)
		if i := bytes.IndexByte(body[off:], '\n'); i >= 0 {
			next = off + i + 1
		}
		line := bytes.TrimRight(body[off:next], " \t\r\n")
		switch {
		case !ok && bytes.EqualFold(line, []byte(calendarBegin)):
			ok = true
		case ok && bytes.EqualFold(line, []byte(calendarEnd)):
			return body[:next], true
		}
		off = next
	}
	return body, ok
}
