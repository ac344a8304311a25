package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawDamageRecord represents the flat JSON structure produced by the
// collector. All fields are strings because the source CSV carries no type
// information; numeric parsing happens during normalization.
type RawDamageRecord struct {
	EventType        string `json:"EVTYPE"`
	Fatalities       string `json:"FATALITIES"`
	Injuries         string `json:"INJURIES"`
	PropertyDamage   string `json:"PROPDMG"`
	PropertyExponent string `json:"PROPDMGEXP"`
	CropDamage       string `json:"CROPDMG"`
	CropExponent     string `json:"CROPDMGEXP"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// DamageRecord is the normalized representation: damage magnitudes decoded,
// casualty counts parsed, label still raw (classification is a separate step).
type DamageRecord struct {
	EventLabel     string  `json:"event_label"`
	Fatalities     float64 `json:"fatalities"`
	Injuries       float64 `json:"injuries"`
	PropertyDamage float64 `json:"property_damage"`
	CropDamage     float64 `json:"crop_damage"`
}

// HasHarm reports whether any of the four harm metrics is non-zero. Records
// without harm carry no ranking signal and are dropped before classification.
func (r DamageRecord) HasHarm() bool {
	return r.Fatalities > 0 || r.Injuries > 0 || r.PropertyDamage > 0 || r.CropDamage > 0
}

// ParseRawEvent deserializes a RawEvent's value into a RawDamageRecord. It
// expects the flat CSV-style JSON produced by the collector service. Only
// malformed JSON is an error; field-level problems surface later as zero
// values during normalization.
func ParseRawEvent(raw RawEvent) (RawDamageRecord, error) {
	var rec RawDamageRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return RawDamageRecord{}, fmt.Errorf("parse raw event: %w", err)
	}
	return rec, nil
}

// NormalizeRecord converts the string-typed collector row into a
// DamageRecord, decoding both damage magnitudes. Casualty counts that fail
// to parse, parse negative, or decode to a negative magnitude contribute
// zero.
func NormalizeRecord(rec RawDamageRecord) DamageRecord {
	return DamageRecord{
		EventLabel:     strings.TrimSpace(rec.EventType),
		Fatalities:     parseCountOrZero(rec.Fatalities),
		Injuries:       parseCountOrZero(rec.Injuries),
		PropertyDamage: DecodeMagnitude(parseFloatOrZero(rec.PropertyDamage), rec.PropertyExponent),
		CropDamage:     DecodeMagnitude(parseFloatOrZero(rec.CropDamage), rec.CropExponent),
	}
}

// DiscardedMagnitudes counts the damage fields whose coefficient parsed to a
// non-zero value but whose exponent code zeroed the decoded magnitude. Used
// for observability around the fallback-to-zero policy.
func DiscardedMagnitudes(rec RawDamageRecord) int {
	n := 0
	if parseFloatOrZero(rec.PropertyDamage) != 0 && DecodeMagnitude(parseFloatOrZero(rec.PropertyDamage), rec.PropertyExponent) == 0 {
		n++
	}
	if parseFloatOrZero(rec.CropDamage) != 0 && DecodeMagnitude(parseFloatOrZero(rec.CropDamage), rec.CropExponent) == 0 {
		n++
	}
	return n
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseCountOrZero parses a non-negative count, clamping negatives to 0.
func parseCountOrZero(s string) float64 {
	v := parseFloatOrZero(s)
	if v < 0 {
		return 0
	}
	return v
}
