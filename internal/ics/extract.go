package ics

import (
	"errors"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "icsjson/internal/log"
	"icsjson/internal/model"
)

// utcDateTimeLayout is the floating DATE-TIME form, e.g. 20240301T180000.
// Values are taken as UTC without any offset lookup.
const utcDateTimeLayout = "20060102T150405"

var (
	// ErrConversion wraps any failure to turn a RawEvent into a model.Event.
	ErrConversion = errors.New("event conversion failed")
	// ErrInvalidTimestamp is only raised by a strict Extractor.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// Extractor maps raw VEVENT property lists to model.Event values.
//
// The zero value is lenient: a DTSTART/DTEND that does not match
// utcDateTimeLayout leaves the field nil. With Strict set, such a value
// fails the event instead.
type Extractor struct {
	Strict bool
}

// fieldSetter stores one property value into ev.
type fieldSetter func(x Extractor, ev *model.Event, value *string) error

// eventFields is the closed set of recognized property names. Matching is
// exact and case-sensitive; names not listed here are ignored.
var eventFields = map[ical.ComponentProperty]fieldSetter{
	ical.ComponentPropertySummary: func(_ Extractor, ev *model.Event, v *string) error {
		ev.Title = cloneString(v)
		return nil
	},
	ical.ComponentPropertyDtStart: func(x Extractor, ev *model.Event, v *string) error {
		t, err := x.timestamp(v)
		if err != nil {
			return fmt.Errorf("%s: %w", ical.ComponentPropertyDtStart, err)
		}
		ev.Start = t
		return nil
	},
	ical.ComponentPropertyDtEnd: func(x Extractor, ev *model.Event, v *string) error {
		t, err := x.timestamp(v)
		if err != nil {
			return fmt.Errorf("%s: %w", ical.ComponentPropertyDtEnd, err)
		}
		ev.End = t
		return nil
	},
	ical.ComponentPropertyLocation: func(_ Extractor, ev *model.Event, v *string) error {
		ev.Location = cloneString(v)
		return nil
	},
	ical.ComponentPropertyDescription: func(_ Extractor, ev *model.Event, v *string) error {
		ev.Description = cloneString(v)
		return nil
	},
}

// ExtractEvent converts one RawEvent with the default lenient Extractor.
func ExtractEvent(raw RawEvent) (model.Event, error) {
	return Extractor{}.Event(raw)
}

// ExtractEvents converts a list of RawEvent with the default lenient Extractor.
func ExtractEvents(raws []RawEvent) ([]model.Event, error) {
	return Extractor{}.Events(raws)
}

// Event converts a single RawEvent. Properties are applied in order, so a
// repeated name overwrites the earlier value.
func (x Extractor) Event(raw RawEvent) (model.Event, error) {
	var ev model.Event
	for _, p := range raw.Properties {
		set, ok := eventFields[ical.ComponentProperty(p.Name)]
		if !ok {
			continue
		}
		if err := set(x, &ev, p.Value); err != nil {
			return model.Event{}, err
		}
	}
	return ev, nil
}

// Events converts raws in order. The first failing event aborts the whole
// conversion and no partial result is returned.
func (x Extractor) Events(raws []RawEvent) ([]model.Event, error) {
	out := make([]model.Event, 0, len(raws))
	for i, raw := range raws {
		ev, err := x.Event(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: event %d: %w", ErrConversion, i, err)
		}
		out = append(out, ev)
	}
	appLog.Debug("ics events extracted", "count", len(out), "strict", x.Strict)
	return out, nil
}

func (x Extractor) timestamp(v *string) (*time.Time, error) {
	t := parseUTCDateTime(v)
	if t == nil && v != nil && x.Strict {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimestamp, *v)
	}
	return t, nil
}

// parseUTCDateTime parses a floating DATE-TIME as UTC. Missing or malformed
// input yields nil.
func parseUTCDateTime(v *string) *time.Time {
	if v == nil {
		return nil
	}
	// time.Parse tolerates a fractional second after the seconds field.
	if len(*v) != len(utcDateTimeLayout) {
		return nil
	}
	t, err := time.Parse(utcDateTimeLayout, *v)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}
