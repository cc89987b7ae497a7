package entities

// CareLevel is the ordinal classification driving recommended response time.
type CareLevel string

const (
	CareLevelRoutine   CareLevel = "routine"
	CareLevelModerate  CareLevel = "moderate"
	CareLevelUrgent    CareLevel = "urgent"
	CareLevelEmergency CareLevel = "emergency"
)

// ValidCareLevels returns all care levels in ascending order of urgency.
func ValidCareLevels() []CareLevel {
	return []CareLevel{CareLevelRoutine, CareLevelModerate, CareLevelUrgent, CareLevelEmergency}
}

// IsValid checks if the care level is one of the defined constants.
func (c CareLevel) IsValid() bool {
	switch c {
	case CareLevelRoutine, CareLevelModerate, CareLevelUrgent, CareLevelEmergency:
		return true
	}
	return false
}

// Rank returns the ordinal position of the care level, with routine
// lowest. Unknown values rank below routine.
func (c CareLevel) Rank() int {
	switch c {
	case CareLevelRoutine:
		return 1
	case CareLevelModerate:
		return 2
	case CareLevelUrgent:
		return 3
	case CareLevelEmergency:
		return 4
	}
	return 0
}
