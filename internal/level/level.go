package level

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vancomm/mine-stalker/internal/mines"
	"github.com/vancomm/mine-stalker/internal/stalker"
)

var ErrInvalidLevel = errors.New("invalid level")

// Level is a named puzzle. Hazards, when listed, are used as is; otherwise
// Mines hazards are placed at random, reproducibly when Seed is set.
// Missing Start and Goal default to the middle of the bottom and top rows.
type Level struct {
	Name    string             `yaml:"name" json:"name"`
	Rows    int                `yaml:"rows" json:"rows"`
	Cols    int                `yaml:"cols" json:"cols"`
	Start   *stalker.Position  `yaml:"start,omitempty" json:"start,omitempty"`
	Goal    *stalker.Position  `yaml:"goal,omitempty" json:"goal,omitempty"`
	Hazards []stalker.Position `yaml:"hazards,omitempty" json:"hazards,omitempty"`
	Mines   int                `yaml:"mines,omitempty" json:"mines,omitempty"`
	Seed    uint64             `yaml:"seed,omitempty" json:"seed,omitempty"`
}

type document struct {
	Levels []Level `yaml:"levels"`
}

func Parse(data []byte) ([]Level, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to parse levels: %w", err)
	}
	if len(doc.Levels) == 0 {
		return nil, fmt.Errorf("%w: no levels defined", ErrInvalidLevel)
	}

	names := make(map[string]bool, len(doc.Levels))
	for i, lv := range doc.Levels {
		if err := lv.Validate(); err != nil {
			return nil, fmt.Errorf("level #%d: %w", i, err)
		}
		if names[lv.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidLevel, lv.Name)
		}
		names[lv.Name] = true
	}
	return doc.Levels, nil
}

func Load(path string) ([]Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read level file: %w", err)
	}
	return Parse(data)
}

func Marshal(levels []Level) ([]byte, error) {
	return yaml.Marshal(document{Levels: levels})
}

func Find(levels []Level, name string) (Level, bool) {
	for _, lv := range levels {
		if lv.Name == name {
			return lv, true
		}
	}
	return Level{}, false
}

func (lv Level) Validate() error {
	if lv.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidLevel)
	}
	if lv.Rows <= 0 || lv.Cols <= 0 {
		return fmt.Errorf("%w %q: size %dx%d", ErrInvalidLevel, lv.Name, lv.Rows, lv.Cols)
	}
	if err := lv.Params().Validate(); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidLevel, lv.Name, err)
	}
	if len(lv.Hazards) > 0 && lv.Mines > 0 {
		return fmt.Errorf("%w %q: both hazards and mines given", ErrInvalidLevel, lv.Name)
	}
	return nil
}

func (lv Level) Params() mines.Params {
	return mines.Params{Rows: lv.Rows, Cols: lv.Cols, MineCount: lv.Mines}
}

func (lv Level) Endpoints() (start, goal stalker.Position) {
	p := lv.Params()
	start, goal = p.DefaultStart(), p.DefaultGoal()
	if lv.Start != nil {
		start = *lv.Start
	}
	if lv.Goal != nil {
		goal = *lv.Goal
	}
	return start, goal
}

// Grid builds the level's grid. r is only used for levels with random
// mines and no seed.
func (lv Level) Grid(r *rand.Rand) (*stalker.Grid, error) {
	if err := lv.Validate(); err != nil {
		return nil, err
	}
	start, goal := lv.Endpoints()

	if lv.Mines == 0 {
		return stalker.NewGrid(stalker.Params{
			Rows:    lv.Rows,
			Cols:    lv.Cols,
			Start:   start,
			Goal:    goal,
			Hazards: lv.Hazards,
		})
	}

	if lv.Seed != 0 {
		r = rand.New(rand.NewPCG(lv.Seed, lv.Seed))
	}
	if r == nil {
		return nil, fmt.Errorf("%w %q: random mines need a seed", ErrInvalidLevel, lv.Name)
	}
	return mines.NewGrid(lv.Params(), start, goal, r)
}
