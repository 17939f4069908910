// Package scenario reads batch definitions: fault patches, stations or
// station generators, and the elastic half-space, from JSON or YAML files.
package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ZelongGuo/dislocation/internal/disloc"
	"github.com/ZelongGuo/dislocation/internal/material"
)

var validate = validator.New()

// Scenario is one batch evaluation
type Scenario struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Half-space. A material preset, when named, replaces mu and nu.
	Material string  `json:"material,omitempty" yaml:"material,omitempty"`
	Mu       float64 `json:"mu" yaml:"mu" default:"3e10" validate:"gt=0"`         // Pa
	Nu       float64 `json:"nu" yaml:"nu" default:"0.25" validate:"gt=-1,lt=0.5"` // Poisson's ratio

	// Patch geometry is not validated here; bad patches are flagged per pair
	Patches []disloc.FaultPatch `json:"patches" yaml:"patches" validate:"required,min=1"`

	Stations []disloc.ObservationPoint `json:"stations,omitempty" yaml:"stations,omitempty"`
	Grid     *Grid                     `json:"grid,omitempty" yaml:"grid,omitempty"`
	Profile  *Profile                  `json:"profile,omitempty" yaml:"profile,omitempty"`
}

// LoadFromFile loads a scenario from a .json, .yaml or .yml file
func LoadFromFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
}

// Parse decodes a scenario in the given format ("json", "yaml" or "yml"),
// applies defaults and the material preset, then validates it
func Parse(data []byte, format string) (*Scenario, error) {
	var sc Scenario
	// defaults first, so values given explicitly (even zero) survive decoding
	if err := defaults.Set(&sc); err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &sc); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return nil, err
		}
	default:
		return nil, &ValidationError{msg: fmt.Sprintf("unsupported scenario format %q (use json or yaml)", format)}
	}

	if sc.Material != "" {
		preset, err := material.Lookup(sc.Material)
		if err != nil {
			return nil, &ValidationError{msg: err.Error()}
		}
		sc.Mu, sc.Nu = preset.Mu, preset.Nu
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks that the scenario can be evaluated
func (sc *Scenario) Validate() error {
	if err := validate.Struct(sc); err != nil {
		return fromValidator(err)
	}
	if len(sc.Stations) == 0 && sc.Grid == nil && sc.Profile == nil {
		return &ValidationError{"scenario needs stations, a grid or a profile"}
	}
	return nil
}

// Elastic returns the half-space constants
func (sc *Scenario) Elastic() disloc.ElasticConstants {
	return disloc.ElasticConstants{Mu: sc.Mu, Nu: sc.Nu}
}

// Observations returns the listed stations followed by the grid and then
// the profile stations
func (sc *Scenario) Observations() []disloc.ObservationPoint {
	obs := append([]disloc.ObservationPoint(nil), sc.Stations...)
	if sc.Grid != nil {
		obs = append(obs, sc.Grid.Points()...)
	}
	if sc.Profile != nil {
		obs = append(obs, sc.Profile.Points()...)
	}
	return obs
}

// ValidationError represents a scenario validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{msg: err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &ValidationError{msg: strings.Join(msgs, "; ")}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
