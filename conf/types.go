package conf

import "fmt"

// Scenario ...
type Scenario int

const (
	// Unspecified - no scenario given
	Unspecified Scenario = iota
	// Overland - Dunne overland flow over a hillslope
	Overland
	// CLM - single column coupled with CLM
	CLM
)

// FromString ...
func (sc *Scenario) FromString(str string) error {
	switch str {
	case "overland", "OVERLAND":
		*sc = Overland
	case "clm", "CLM":
		*sc = CLM
	default:
		return fmt.Errorf("Unknown scenario `%s`", str)
	}
	return nil
}

func (sc Scenario) String() string {
	switch sc {
	case Overland:
		return "overland"
	case CLM:
		return "clm"
	}
	return "unspecified"
}

// Field ...
type Field string

const (
	// Pressure field
	Pressure Field = "press"
	// Saturation field
	Saturation Field = "satur"
	// CLMOutput field
	CLMOutput Field = "clm_output"
)

// FromString ...
func (f *Field) FromString(str string) error {
	switch Field(str) {
	case Pressure, Saturation, CLMOutput:
		*f = Field(str)
		return nil
	}
	return fmt.Errorf("Unknown output field `%s`", str)
}
