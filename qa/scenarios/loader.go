// Package scenarios replays YAML-described simulation scripts against the
// engine and checks the expected ride outcomes.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kmartel07/gridride/core/model"
)

type LocationDef struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (l LocationDef) ToModel() model.Location {
	return model.Location{X: l.X, Y: l.Y}
}

type RiderDef struct {
	Pickup  LocationDef `yaml:"pickup"`
	Dropoff LocationDef `yaml:"dropoff"`
}

type Expected struct {
	Completed int `yaml:"completed"`
	Failed    int `yaml:"failed"`
	Waiting   int `yaml:"waiting"`
}

// Scenario is one scripted run. Responses maps a rider index (creation
// order) to the decisions its ride receives, consumed one per assignment;
// rides with no scripted decisions are always accepted.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	GridSize    int            `yaml:"grid_size"`
	Drivers     []LocationDef  `yaml:"drivers"`
	Riders      []RiderDef     `yaml:"riders"`
	Responses   map[int][]bool `yaml:"responses,omitempty"`
	Ticks       int            `yaml:"ticks"`
	Expected    Expected       `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
