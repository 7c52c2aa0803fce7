package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/mine-stalker/internal/stalker"
)

type Run struct {
	RunID      uuid.UUID          `db:"run_id"`
	PlayerID   *int64             `db:"player_id"`
	LevelName  *string            `db:"level_name"`
	Rows       int                `db:"grid_rows"`
	Cols       int                `db:"grid_cols"`
	Start      stalker.Position   `db:"start"`
	Goal       stalker.Position   `db:"goal"`
	Hazards    []stalker.Position `db:"hazards"`
	Path       stalker.Path       `db:"path"`
	Found      bool               `db:"found"`
	Expanded   int                `db:"expanded"`
	Generated  int                `db:"generated"`
	DurationUs int64              `db:"duration_us"`
	CreatedAt  pgtype.Timestamptz `db:"created_at"`
}

// Grid rebuilds the grid the run was searched on.
func (r Run) Grid() (*stalker.Grid, error) {
	return stalker.NewGrid(stalker.Params{
		Rows:    r.Rows,
		Cols:    r.Cols,
		Start:   r.Start,
		Goal:    r.Goal,
		Hazards: r.Hazards,
	})
}

func (r Run) Duration() time.Duration {
	return time.Duration(r.DurationUs) * time.Microsecond
}

type CreateRunParams struct {
	PlayerID  *int64
	LevelName *string
	Grid      *stalker.Grid
	Result    stalker.Result
	Duration  time.Duration
}

func (q Queries) CreateRun(ctx context.Context, params CreateRunParams) (*Run, error) {
	args := pgx.NamedArgs{
		"run_id":      uuid.New(),
		"player_id":   params.PlayerID,
		"level_name":  params.LevelName,
		"grid_rows":   params.Grid.Rows(),
		"grid_cols":   params.Grid.Cols(),
		"start":       params.Grid.Start(),
		"goal":        params.Grid.Goal(),
		"hazards":     params.Grid.Hazards(),
		"path":        params.Result.Path,
		"found":       params.Result.Found,
		"expanded":    params.Result.Expanded,
		"generated":   params.Result.Generated,
		"duration_us": params.Duration.Microseconds(),
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO run (
			run_id, player_id, level_name, grid_rows, grid_cols, start, goal,
			hazards, path, found, expanded, generated, duration_us
		)
		VALUES (
			@run_id, @player_id, @level_name, @grid_rows, @grid_cols, @start, @goal,
			@hazards, @path, @found, @expanded, @generated, @duration_us
		)
		RETURNING *;`,
		args,
	)
	run, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Run])
	return run, translate(err)
}

func (q Queries) FetchRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	rows, _ := q.db.Query(ctx, "SELECT * FROM run WHERE run_id = $1", runID)
	run, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Run])
	return run, translate(err)
}

type RunFilter struct {
	PlayerID  *int64
	LevelName *string
	Found     *bool
	Limit     int
}

const (
	DefaultRunLimit = 20
	MaxRunLimit     = 100
)

func (f RunFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.PlayerID != nil {
		clauses = append(clauses, "player_id = @player_id")
		args["player_id"] = *f.PlayerID
	}
	if f.LevelName != nil {
		clauses = append(clauses, "level_name = @level_name")
		args["level_name"] = *f.LevelName
	}
	if f.Found != nil {
		clauses = append(clauses, "found = @found")
		args["found"] = *f.Found
	}
	return strings.Join(clauses, " AND "), args
}

func (f RunFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultRunLimit
	case f.Limit > MaxRunLimit:
		return MaxRunLimit
	default:
		return f.Limit
	}
}

func (q Queries) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query := "SELECT * FROM run"

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	query += " ORDER BY created_at DESC LIMIT @limit;"
	args["limit"] = filter.limit()

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Run])
}
