package calculator

// Thresholds are the tunable cut-offs used by the signal and priority functions.
type Thresholds struct {
	LowEnergy    float64 `yaml:"low_energy"`
	LowProgress  float64 `yaml:"low_progress"`
	HighProgress float64 `yaml:"high_progress"`
	DebtEnergy   float64 `yaml:"debt_energy"`
	DebtMinWeeks int     `yaml:"debt_min_weeks"`
	ComebackHigh float64 `yaml:"comeback_high"`
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowEnergy:    25,
		LowProgress:  15,
		HighProgress: 80,
		DebtEnergy:   40,
		DebtMinWeeks: 3,
		ComebackHigh: 70,
	}
}

// WithDefaults fills zero fields from DefaultThresholds.
func (t Thresholds) WithDefaults() Thresholds {
	d := DefaultThresholds()
	if t.LowEnergy == 0 {
		t.LowEnergy = d.LowEnergy
	}
	if t.LowProgress == 0 {
		t.LowProgress = d.LowProgress
	}
	if t.HighProgress == 0 {
		t.HighProgress = d.HighProgress
	}
	if t.DebtEnergy == 0 {
		t.DebtEnergy = d.DebtEnergy
	}
	if t.DebtMinWeeks <= 0 {
		t.DebtMinWeeks = d.DebtMinWeeks
	}
	if t.ComebackHigh == 0 {
		t.ComebackHigh = d.ComebackHigh
	}
	return t
}
