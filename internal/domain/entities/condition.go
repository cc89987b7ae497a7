package entities

// Condition describes one entry of the static condition table.
type Condition struct {
	ID              string    `json:"id"`
	Description     string    `json:"description"`
	CareLevel       CareLevel `json:"care_level"`
	Recommendations []string  `json:"recommendations"`
}

// AgeBand is a coarse demographic bucket scaling the risk score.
type AgeBand struct {
	Name           string  `json:"name"`
	MinAge         int     `json:"min_age"`
	MaxAge         int     `json:"max_age"`
	RiskMultiplier float64 `json:"risk_multiplier"`
}

// Contains reports whether age falls inside the band (inclusive).
func (b AgeBand) Contains(age int) bool {
	return age >= b.MinAge && age <= b.MaxAge
}
