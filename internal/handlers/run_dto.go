package handlers

import (
	"fmt"

	"github.com/vancomm/mine-stalker/internal/mines"
	"github.com/vancomm/mine-stalker/internal/repository"
	"github.com/vancomm/mine-stalker/internal/stalker"
)

// NewRunQuery overrides the configured default field. Start and goal must be
// given as complete pairs.
type NewRunQuery struct {
	Rows      *int    `schema:"rows"`
	Cols      *int    `schema:"cols"`
	MineCount *int    `schema:"mine_count"`
	StartRow  *int    `schema:"start_row"`
	StartCol  *int    `schema:"start_col"`
	GoalRow   *int    `schema:"goal_row"`
	GoalCol   *int    `schema:"goal_col"`
	Seed      *uint64 `schema:"seed"`
}

func ParseNewRunQuery(src map[string][]string) (NewRunQuery, error) {
	var q NewRunQuery
	err := decodeQuery(&q, src)
	return q, err
}

func pair(name string, row, col *int, fallback stalker.Position) (stalker.Position, error) {
	switch {
	case row == nil && col == nil:
		return fallback, nil
	case row == nil || col == nil:
		return stalker.Position{}, fmt.Errorf("%s needs both row and col", name)
	default:
		return stalker.Position{Row: *row, Col: *col}, nil
	}
}

// Resolve fills the query's gaps from defaults.
func (q NewRunQuery) Resolve(defaults mines.Params) (params mines.Params, start, goal stalker.Position, err error) {
	params = defaults
	if q.Rows != nil {
		params.Rows = *q.Rows
	}
	if q.Cols != nil {
		params.Cols = *q.Cols
	}
	if q.MineCount != nil {
		params.MineCount = *q.MineCount
	}
	if err = params.Validate(); err != nil {
		return
	}
	if start, err = pair("start", q.StartRow, q.StartCol, params.DefaultStart()); err != nil {
		return
	}
	goal, err = pair("goal", q.GoalRow, q.GoalCol, params.DefaultGoal())
	return
}

type ListRunsQuery struct {
	Found *bool   `schema:"found"`
	Level *string `schema:"level"`
	Limit int     `schema:"limit"`
	Mine  bool    `schema:"mine"`
}

func ParseListRunsQuery(src map[string][]string) (ListRunsQuery, error) {
	var q ListRunsQuery
	err := decodeQuery(&q, src)
	return q, err
}

type StepDTO struct {
	Row             int `json:"row"`
	Col             int `json:"col"`
	AdjacentHazards int `json:"adjacent_hazards"`
}

func NewStepDTO(g *stalker.Grid, pos stalker.Position) StepDTO {
	return StepDTO{Row: pos.Row, Col: pos.Col, AdjacentHazards: g.AdjacentHazards(pos)}
}

type RunDTO struct {
	RunID      string             `json:"run_id"`
	PlayerID   *int64             `json:"player_id,omitempty"`
	LevelName  *string            `json:"level_name,omitempty"`
	Rows       int                `json:"rows"`
	Cols       int                `json:"cols"`
	Start      stalker.Position   `json:"start"`
	Goal       stalker.Position   `json:"goal"`
	Hazards    []stalker.Position `json:"hazards"`
	Found      bool               `json:"found"`
	Path       []StepDTO          `json:"path"`
	Moves      int                `json:"moves"`
	Expanded   int                `json:"expanded"`
	Generated  int                `json:"generated"`
	DurationUs int64              `json:"duration_us"`
	CreatedAt  int64              `json:"created_at"`
}

func NewRunDTO(run *repository.Run) (*RunDTO, error) {
	g, err := run.Grid()
	if err != nil {
		return nil, fmt.Errorf("run %s holds an invalid grid: %w", run.RunID, err)
	}

	steps := make([]StepDTO, len(run.Path))
	for i, pos := range run.Path {
		steps[i] = NewStepDTO(g, pos)
	}

	dto := &RunDTO{
		RunID:      run.RunID.String(),
		PlayerID:   run.PlayerID,
		LevelName:  run.LevelName,
		Rows:       run.Rows,
		Cols:       run.Cols,
		Start:      run.Start,
		Goal:       run.Goal,
		Hazards:    g.Hazards(),
		Found:      run.Found,
		Path:       steps,
		Moves:      run.Path.Moves(),
		Expanded:   run.Expanded,
		Generated:  run.Generated,
		DurationUs: run.DurationUs,
		CreatedAt:  run.CreatedAt.Time.UnixMilli(),
	}
	return dto, nil
}

// FrameDTO is one websocket message of a streamed run.
type FrameDTO struct {
	Index int      `json:"index"`
	Step  *StepDTO `json:"step,omitempty"`
	Done  bool     `json:"done"`
	Found bool     `json:"found"`
	Moves int      `json:"moves"`
}
