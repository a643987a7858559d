package types

import (
	"fmt"
	"strings"
)

// MeterName names a meter type. Part meters are additionally qualified by a
// part name.
type MeterName string

const (
	MeterCapacity          MeterName = "capacity"
	MeterSecondaryStat     MeterName = "secondary_stat"
	MeterDetectionStrength MeterName = "detection_strength"
	MeterDetection         MeterName = "detection"
	MeterStealth           MeterName = "stealth"
	MeterStructure         MeterName = "structure"
	MeterShield            MeterName = "shield"
	MeterSpeed             MeterName = "speed"
	MeterFuel              MeterName = "fuel"
	MeterIndustry          MeterName = "industry"
	MeterResearch          MeterName = "research"
	MeterInfluence         MeterName = "influence"
	MeterSupply            MeterName = "supply"
)

// KnownMeters lists every meter name the engine understands, with whether it
// is a per-part meter.
var KnownMeters = map[MeterName]bool{
	MeterCapacity:          true,
	MeterSecondaryStat:     true,
	MeterDetectionStrength: false,
	MeterDetection:         false,
	MeterStealth:           false,
	MeterStructure:         false,
	MeterShield:            false,
	MeterSpeed:             false,
	MeterFuel:              false,
	MeterIndustry:          false,
	MeterResearch:          false,
	MeterInfluence:         false,
	MeterSupply:            false,
}

// PartMeters are created for every distinct part of a ship's design.
var PartMeters = []MeterName{MeterCapacity, MeterSecondaryStat}

// MeterField selects the current or max half of a meter.
type MeterField int

const (
	FieldCurrent MeterField = iota
	FieldMax
)

// MeterKey identifies a meter on an object.
type MeterKey struct {
	Meter MeterName `json:"meter" yaml:"meter"`
	Part  string    `json:"part,omitempty" yaml:"part"`
}

func (k MeterKey) String() string {
	if k.Part == "" {
		return string(k.Meter)
	}
	return string(k.Meter) + "@" + k.Part
}

// MeterRef identifies one field of a meter.
type MeterRef struct {
	Meter MeterName  `json:"meter"`
	Part  string     `json:"part,omitempty"`
	Field MeterField `json:"field"`
}

// Key drops the field.
func (r MeterRef) Key() MeterKey {
	return MeterKey{Meter: r.Meter, Part: r.Part}
}

// String renders the ref as "[max:]meter[@part]", the form ParseMeterRef
// accepts.
func (r MeterRef) String() string {
	s := r.Key().String()
	if r.Field == FieldMax {
		return "max:" + s
	}
	return s
}

// ParseMeterRef parses "[max:]meter[@part]". Meter names are matched case
// insensitively; part names are kept verbatim.
func ParseMeterRef(s string) (MeterRef, error) {
	var ref MeterRef
	s = strings.TrimSpace(s)
	if rest, ok := cutPrefixFold(s, "max:"); ok {
		ref.Field = FieldMax
		s = rest
	}
	name, part, _ := strings.Cut(s, "@")
	ref.Meter = MeterName(strings.ToLower(name))
	ref.Part = part
	isPart, ok := KnownMeters[ref.Meter]
	if !ok {
		return MeterRef{}, fmt.Errorf("unknown meter %q", name)
	}
	if isPart && ref.Part == "" {
		return MeterRef{}, fmt.Errorf("meter %q needs a part name (%s@PART)", name, name)
	}
	if !isPart && ref.Part != "" {
		return MeterRef{}, fmt.Errorf("meter %q is not a part meter", name)
	}
	return ref, nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

// Meter is a current/max pair.
type Meter struct {
	Current float64 `json:"current" yaml:"current"`
	Max     float64 `json:"max" yaml:"max"`
}

// Get returns the selected field.
func (m Meter) Get(f MeterField) float64 {
	if f == FieldMax {
		return m.Max
	}
	return m.Current
}

// With returns a copy with the selected field replaced.
func (m Meter) With(f MeterField, v float64) Meter {
	if f == FieldMax {
		m.Max = v
	} else {
		m.Current = v
	}
	return m
}
