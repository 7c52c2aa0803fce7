package mines

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/mine-stalker/internal/stalker"
)

var Log = logrus.New()

// MaxCells caps the area of a field.
const MaxCells = 1 << 16

var (
	ErrInvalidParams = errors.New("invalid field params")
	ErrTooManyMines  = errors.New("too many mines for the field")
)

// Params describe a field to be mined.
type Params struct {
	Rows      int `schema:"rows,required" json:"rows"`
	Cols      int `schema:"cols,required" json:"cols"`
	MineCount int `schema:"mine_count,required" json:"mine_count"`
}

// Default is the classic 16x13 field with 20 mines.
func Default() Params {
	return Params{Rows: 16, Cols: 13, MineCount: 20}
}

func (p Params) Unpack() (rows, cols, mineCount int) {
	return p.Rows, p.Cols, p.MineCount
}

// DefaultStart is the middle of the bottom row.
func (p Params) DefaultStart() stalker.Position {
	return stalker.Position{Row: p.Rows - 1, Col: p.Cols / 2}
}

// DefaultGoal is the middle of the top row.
func (p Params) DefaultGoal() stalker.Position {
	return stalker.Position{Row: 0, Col: p.Cols / 2}
}

func (p Params) PointInBounds(pos stalker.Position) bool {
	return 0 <= pos.Row && pos.Row < p.Rows && 0 <= pos.Col && pos.Col < p.Cols
}

func (p Params) Validate() error {
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidParams, p.Rows, p.Cols)
	}
	if p.Rows > MaxCells/p.Cols {
		return fmt.Errorf(
			"%w: %dx%d exceeds %d cells", ErrInvalidParams, p.Rows, p.Cols, MaxCells,
		)
	}
	if p.MineCount < 0 {
		return fmt.Errorf("%w: negative mine count %d", ErrInvalidParams, p.MineCount)
	}
	return nil
}

// FreeCells is the number of cells that may hold a mine once start and goal
// are kept clear. p must be valid.
func (p Params) FreeCells(start, goal stalker.Position) int {
	free := p.Rows*p.Cols - 1
	if start != goal {
		free--
	}
	return free
}

func (p Params) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Rows, p.Cols, p.MineCount)
}

func ParseSeed(seed string) (*Params, error) {
	p := &Params{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Rows, &p.Cols, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid field params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	return p, p.Validate()
}

func (p Params) String() string {
	return fmt.Sprintf("%dx%d(%d)", p.Rows, p.Cols, p.MineCount)
}
