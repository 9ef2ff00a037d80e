package cohort

import "fmt"

// SAConfig parameterizes the simulated-annealing refiner.
type SAConfig struct {
	// InitialTemp is T0.
	InitialTemp float64
	// FinalTemp is T_min — the loop stops once T <= FinalTemp.
	FinalTemp float64
	// Alpha is the geometric cooling rate applied once per step.
	Alpha float64
	// MaxSteps bounds the loop independent of temperature. 0 means
	// unbounded (T_min alone governs termination).
	MaxSteps int
}

// DefaultSAConfig returns a conservative default cooling schedule: T0=100,
// alpha=0.95, Tmin=0.01.
func DefaultSAConfig() SAConfig {
	return SAConfig{
		InitialTemp: 100.0,
		FinalTemp:   0.01,
		Alpha:       0.95,
		MaxSteps:    0,
	}
}

// Validate checks the configuration is internally consistent.
func (c SAConfig) Validate() error {
	if c.InitialTemp <= 0 {
		return fmt.Errorf("sa: InitialTemp must be > 0 (got %f)", c.InitialTemp)
	}
	if c.FinalTemp <= 0 {
		return fmt.Errorf("sa: FinalTemp must be > 0 (got %f)", c.FinalTemp)
	}
	if c.FinalTemp >= c.InitialTemp {
		return fmt.Errorf("sa: FinalTemp must be < InitialTemp (got %f >= %f)", c.FinalTemp, c.InitialTemp)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("sa: Alpha must be in (0,1) (got %f)", c.Alpha)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("sa: MaxSteps must be >= 0 (got %d)", c.MaxSteps)
	}
	return nil
}
