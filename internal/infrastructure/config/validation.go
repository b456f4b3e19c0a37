package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oiltrace/tanksim/internal/domain/shared"
)

// Validator wraps go-playground/validator with the teacher's
// readable-message formatting.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator instance.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates a struct using its validation tags.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Field(), e.Tag(), e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// ValidateConfig validates the full config and additionally enforces
// the cross-field invariants struct tags cannot express, surfacing
// every failure as a ConfigInvalidError so the run aborts before
// construction rather than mid-tick.
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	if err := v.Validate(cfg); err != nil {
		return shared.NewConfigInvalidError("simulation", err.Error())
	}

	sim := cfg.Simulation
	if sim.FirstCargoMaxReady < sim.FirstCargoMinReady {
		return shared.NewConfigInvalidError("first_cargo_max_ready", "must be >= first_cargo_min_ready")
	}
	if sim.UseSolverPlan && sim.SolverPlan == nil {
		return shared.NewConfigInvalidError("solver_plan", "use_solver_plan is true but no solver_plan was supplied")
	}
	if !sim.UseSolverPlan {
		anyEnabled := false
		for _, v := range sim.CargoDefs {
			if v > 0 {
				anyEnabled = true
				break
			}
		}
		if !anyEnabled && len(sim.CargoDefs) > 0 {
			return shared.NewConfigInvalidError("cargo_defs", "no cargo type has a positive nominal volume")
		}
	}
	return nil
}
