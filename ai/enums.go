package ai

import "github.com/nathoo/effectcore/types"

// PriorityType classifies where an empire spends resources and production.
type PriorityType int

const (
	PriorityResourceGrowth                PriorityType = 1 // reserved
	PriorityResourceProduction            PriorityType = 2
	PriorityResourceResearch              PriorityType = 3
	PriorityResourceTrade                 PriorityType = 4 // reserved
	PriorityResourceConstruction          PriorityType = 5 // reserved
	PriorityProductionExploration         PriorityType = 6
	PriorityProductionOutpost             PriorityType = 7
	PriorityProductionColonisation        PriorityType = 8
	PriorityProductionInvasion            PriorityType = 9
	PriorityProductionMilitary            PriorityType = 10
	PriorityProductionBuildings           PriorityType = 11
	PriorityProductionOrbitalDefense      PriorityType = 19
	PriorityProductionOrbitalInvasion     PriorityType = 20
	PriorityProductionOrbitalOutpost      PriorityType = 21
	PriorityProductionOrbitalColonisation PriorityType = 22
	PriorityResourceInfluence             PriorityType = 23
)

var priorityTypes = newEnumTable("PriorityType", map[PriorityType]member{
	PriorityResourceGrowth:                {"RESOURCE_GROWTH", true},
	PriorityResourceProduction:            {"RESOURCE_PRODUCTION", false},
	PriorityResourceResearch:              {"RESOURCE_RESEARCH", false},
	PriorityResourceTrade:                 {"RESOURCE_TRADE", true},
	PriorityResourceConstruction:          {"RESOURCE_CONSTRUCTION", true},
	PriorityProductionExploration:         {"PRODUCTION_EXPLORATION", false},
	PriorityProductionOutpost:             {"PRODUCTION_OUTPOST", false},
	PriorityProductionColonisation:        {"PRODUCTION_COLONISATION", false},
	PriorityProductionInvasion:            {"PRODUCTION_INVASION", false},
	PriorityProductionMilitary:            {"PRODUCTION_MILITARY", false},
	PriorityProductionBuildings:           {"PRODUCTION_BUILDINGS", false},
	PriorityProductionOrbitalDefense:      {"PRODUCTION_ORBITAL_DEFENSE", false},
	PriorityProductionOrbitalInvasion:     {"PRODUCTION_ORBITAL_INVASION", false},
	PriorityProductionOrbitalOutpost:      {"PRODUCTION_ORBITAL_OUTPOST", false},
	PriorityProductionOrbitalColonisation: {"PRODUCTION_ORBITAL_COLONISATION", false},
	PriorityResourceInfluence:             {"RESOURCE_INFLUENCE", false},
})

func (p PriorityType) String() string { return priorityTypes.name(p) }

// Reserved reports whether p is an obsolete member kept only so stored
// values still decode.
func (p PriorityType) Reserved() bool { return priorityTypes.reserved(p) }

// Valid reports whether p is a member in use.
func (p PriorityType) Valid() bool { return priorityTypes.known(p) && !p.Reserved() }

func (p PriorityType) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *PriorityType) UnmarshalText(b []byte) error {
	v, err := priorityTypes.unmarshal(b)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePriorityType looks a priority up by name, e.g. "RESOURCE_RESEARCH".
func ParsePriorityType(s string) (PriorityType, error) { return priorityTypes.parse(s) }

// ResourcePriorities lists the priorities that weigh resource output.
func ResourcePriorities() []PriorityType {
	return []PriorityType{
		PriorityResourceProduction,
		PriorityResourceResearch,
		PriorityResourceInfluence,
	}
}

// ProductionPriorities lists the priorities that weigh what to build.
func ProductionPriorities() []PriorityType {
	return []PriorityType{
		PriorityProductionExploration,
		PriorityProductionOutpost,
		PriorityProductionColonisation,
		PriorityProductionInvasion,
		PriorityProductionMilitary,
		PriorityProductionBuildings,
	}
}

// ResourceMeter is the meter a resource priority is measured by.
func (p PriorityType) ResourceMeter() (types.MeterName, bool) {
	switch p {
	case PriorityResourceProduction:
		return types.MeterIndustry, true
	case PriorityResourceResearch:
		return types.MeterResearch, true
	case PriorityResourceInfluence:
		return types.MeterInfluence, true
	}
	return "", false
}

// MissionType is a fleet mission.
type MissionType int

const (
	MissionOutpost         MissionType = 1
	MissionColonisation    MissionType = 2
	MissionExploration     MissionType = 5
	MissionInvasion        MissionType = 9
	MissionMilitary        MissionType = 10
	MissionSecure          MissionType = 11 // MILITARY that waits for its target systems to be cleared
	MissionOrbitalDefense  MissionType = 12
	MissionOrbitalInvasion MissionType = 13
	MissionOrbitalOutpost  MissionType = 14
	MissionOrbitalColonise MissionType = 15 // reserved, never implemented
	MissionProtectRegion   MissionType = 16
)

var missionTypes = newEnumTable("MissionType", map[MissionType]member{
	MissionOutpost:         {"OUTPOST", false},
	MissionColonisation:    {"COLONISATION", false},
	MissionExploration:     {"EXPLORATION", false},
	MissionInvasion:        {"INVASION", false},
	MissionMilitary:        {"MILITARY", false},
	MissionSecure:          {"SECURE", false},
	MissionOrbitalDefense:  {"ORBITAL_DEFENSE", false},
	MissionOrbitalInvasion: {"ORBITAL_INVASION", false},
	MissionOrbitalOutpost:  {"ORBITAL_OUTPOST", false},
	MissionOrbitalColonise: {"ORBITAL_COLONISATION", true},
	MissionProtectRegion:   {"PROTECT_REGION", false},
})

func (m MissionType) String() string { return missionTypes.name(m) }
func (m MissionType) Reserved() bool { return missionTypes.reserved(m) }
func (m MissionType) Valid() bool    { return missionTypes.known(m) && !m.Reserved() }

func (m MissionType) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *MissionType) UnmarshalText(b []byte) error {
	v, err := missionTypes.unmarshal(b)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MissionTypes lists the missions in use, ascending.
func MissionTypes() []MissionType { return missionTypes.active() }

// ShipRoleType classifies ships and, by extension, fleets.
type ShipRoleType int

const (
	ShipRoleInvalid              ShipRoleType = -1
	ShipRoleMilitaryAttack       ShipRoleType = 1
	ShipRoleCivilianExploration  ShipRoleType = 4
	ShipRoleCivilianColonisation ShipRoleType = 5
	ShipRoleCivilianOutpost      ShipRoleType = 6
	ShipRoleMilitaryInvasion     ShipRoleType = 7
	ShipRoleMilitary             ShipRoleType = 8
	ShipRoleBaseDefense          ShipRoleType = 9
	ShipRoleBaseInvasion         ShipRoleType = 10
	ShipRoleBaseOutpost          ShipRoleType = 11
	ShipRoleBaseColonisation     ShipRoleType = 12
)

var shipRoles = newEnumTable("ShipRoleType", map[ShipRoleType]member{
	ShipRoleInvalid:              {"INVALID", false},
	ShipRoleMilitaryAttack:       {"MILITARY_ATTACK", false},
	ShipRoleCivilianExploration:  {"CIVILIAN_EXPLORATION", false},
	ShipRoleCivilianColonisation: {"CIVILIAN_COLONISATION", false},
	ShipRoleCivilianOutpost:      {"CIVILIAN_OUTPOST", false},
	ShipRoleMilitaryInvasion:     {"MILITARY_INVASION", false},
	ShipRoleMilitary:             {"MILITARY", false},
	ShipRoleBaseDefense:          {"BASE_DEFENSE", false},
	ShipRoleBaseInvasion:         {"BASE_INVASION", false},
	ShipRoleBaseOutpost:          {"BASE_OUTPOST", false},
	ShipRoleBaseColonisation:     {"BASE_COLONISATION", false},
})

func (r ShipRoleType) String() string { return shipRoles.name(r) }
func (r ShipRoleType) Valid() bool    { return shipRoles.known(r) && r != ShipRoleInvalid }

func (r ShipRoleType) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *ShipRoleType) UnmarshalText(b []byte) error {
	v, err := shipRoles.unmarshal(b)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// EmpireProductionType is what a production queue item builds.
type EmpireProductionType int

const (
	ProductionBuilding EmpireProductionType = 1
	ProductionShip     EmpireProductionType = 2
)

var productionTypes = newEnumTable("EmpireProductionType", map[EmpireProductionType]member{
	ProductionBuilding: {"BT_BUILDING", false},
	ProductionShip:     {"BT_SHIP", false},
})

func (p EmpireProductionType) String() string { return productionTypes.name(p) }

// RecordKind is the content record kind the item produces.
func (p EmpireProductionType) RecordKind() (types.RecordKind, bool) {
	if p == ProductionBuilding {
		return types.RecordBuilding, true
	}
	return "", false
}

// FocusType is a planet focus.
type FocusType string

const (
	FocusProtection FocusType = "FOCUS_PROTECTION"
	FocusGrowth     FocusType = "FOCUS_GROWTH"
	FocusIndustry   FocusType = "FOCUS_INDUSTRY"
	FocusResearch   FocusType = "FOCUS_RESEARCH"
	FocusInfluence  FocusType = "FOCUS_INFLUENCE"
	FocusStockpile  FocusType = "FOCUS_STOCKPILE"
)

// AllFocusTypes lists every focus.
var AllFocusTypes = []FocusType{FocusProtection, FocusGrowth, FocusIndustry, FocusResearch, FocusInfluence, FocusStockpile}

// EmpireMeter names a meter carried by an empire's own object.
type EmpireMeter string

const (
	EmpireMeterDetectionStrength EmpireMeter = "METER_DETECTION_STRENGTH"
)

// Meter maps the planner's name to the engine's meter.
func (m EmpireMeter) Meter() (types.MeterName, bool) {
	switch m {
	case EmpireMeterDetectionStrength:
		return types.MeterDetectionStrength, true
	}
	return "", false
}
