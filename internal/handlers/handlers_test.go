package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/mine-stalker/internal/config"
	"github.com/vancomm/mine-stalker/internal/level"
	"github.com/vancomm/mine-stalker/internal/mines"
	"github.com/vancomm/mine-stalker/internal/repository"
)

var logger = logrus.New()

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type fakeStore struct {
	mu         sync.Mutex
	runs       []*repository.Run
	levels     map[string]*repository.Level
	lastFilter repository.RunFilter
	failWith   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{levels: make(map[string]*repository.Level)}
}

func (s *fakeStore) CreateRun(_ context.Context, params repository.CreateRunParams) (*repository.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	g := params.Grid
	run := &repository.Run{
		RunID:      uuid.New(),
		PlayerID:   params.PlayerID,
		LevelName:  params.LevelName,
		Rows:       g.Rows(),
		Cols:       g.Cols(),
		Start:      g.Start(),
		Goal:       g.Goal(),
		Hazards:    g.Hazards(),
		Path:       params.Result.Path,
		Found:      params.Result.Found,
		Expanded:   params.Result.Expanded,
		Generated:  params.Result.Generated,
		DurationUs: params.Duration.Microseconds(),
		CreatedAt:  pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	s.runs = append(s.runs, run)
	return run, nil
}

func (s *fakeStore) FetchRun(_ context.Context, runID uuid.UUID) (*repository.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, run := range s.runs {
		if run.RunID == runID {
			return run, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) ListRuns(_ context.Context, filter repository.RunFilter) ([]repository.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = filter
	runs := make([]repository.Run, 0, len(s.runs))
	for _, run := range s.runs {
		if filter.PlayerID != nil && (run.PlayerID == nil || *run.PlayerID != *filter.PlayerID) {
			continue
		}
		if filter.Found != nil && run.Found != *filter.Found {
			continue
		}
		runs = append(runs, *run)
	}
	return runs, nil
}

func (s *fakeStore) CreateLevels(_ context.Context, levels []level.Level) ([]*repository.Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lv := range levels {
		if _, ok := s.levels[lv.Name]; ok {
			return nil, fmt.Errorf("level %q: %w", lv.Name, repository.ErrConflict)
		}
	}
	rows := make([]*repository.Level, 0, len(levels))
	for _, lv := range levels {
		row := &repository.Level{
			Name:    lv.Name,
			Rows:    lv.Rows,
			Cols:    lv.Cols,
			Start:   lv.Start,
			Goal:    lv.Goal,
			Hazards: lv.Hazards,
			Mines:   lv.Mines,
			Seed:    int64(lv.Seed),
		}
		s.levels[lv.Name] = row
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *fakeStore) FetchLevel(_ context.Context, name string) (*repository.Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.levels[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return row, nil
}

type fixture struct {
	store  *fakeStore
	runs   *RunHandler
	levels *LevelHandler
	mux    *http.ServeMux
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newFakeStore()
	search := &config.Search{
		Timeout: time.Second,
		Field:   mines.Params{Rows: 3, Cols: 3, MineCount: 0},
	}
	ws, err := config.NewWebSocket()
	require.NoError(t, err)
	ws.StreamInterval = time.Millisecond

	runs := NewRunHandler(logger, store, search, ws, rand.New(rand.NewPCG(1, 2)))
	levels := NewLevelHandler(logger, store, runs)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /runs", runs.NewRun)
	mux.HandleFunc("GET /runs", runs.List)
	mux.HandleFunc("GET /runs/{id}", runs.Fetch)
	mux.HandleFunc("GET /runs/{id}/connect", runs.Connect)
	mux.HandleFunc("PUT /levels", levels.Put)
	mux.HandleFunc("GET /levels/{name}", levels.Fetch)
	mux.HandleFunc("POST /levels/{name}/runs", levels.NewRun)

	return &fixture{store: store, runs: runs, levels: levels, mux: mux}
}

func (f *fixture) do(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, r)
	return w
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	NewHealth(logger, fakePinger{}).Check(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	NewHealth(logger, fakePinger{errors.New("down")}).Check(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "application/json", w.Result().Header.Get("Content-Type"))
	assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
}

func TestSendError(t *testing.T) {
	w := httptest.NewRecorder()
	sendError(w, logger, http.StatusTeapot, errors.New("short and stout"))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "application/json", w.Result().Header.Get("Content-Type"))
	assert.JSONEq(t, `{"error":"short and stout"}`, w.Body.String())
}
