package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/mine-stalker/internal/config"
	"github.com/vancomm/mine-stalker/internal/middleware"
	"github.com/vancomm/mine-stalker/internal/mines"
	"github.com/vancomm/mine-stalker/internal/stalker"
)

func decodeRun(t *testing.T, w *httptest.ResponseRecorder) RunDTO {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var dto RunDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	return dto
}

func withClaims(r *http.Request, playerID int64) *http.Request {
	claims := config.NewPlayerClaims(playerID, "stalker")
	ctx := context.WithValue(r.Context(), middleware.CtxPlayerClaims, claims)
	return r.WithContext(ctx)
}

func TestNewRunQueryResolve(t *testing.T) {
	defaults := mines.Params{Rows: 5, Cols: 5, MineCount: 3}

	q, err := ParseNewRunQuery(url.Values{"rows": {"7"}, "goal_row": {"1"}, "goal_col": {"2"}})
	require.NoError(t, err)
	params, start, goal, err := q.Resolve(defaults)
	require.NoError(t, err)
	assert.Equal(t, mines.Params{Rows: 7, Cols: 5, MineCount: 3}, params)
	assert.Equal(t, stalker.Position{Row: 6, Col: 2}, start)
	assert.Equal(t, stalker.Position{Row: 1, Col: 2}, goal)

	q, err = ParseNewRunQuery(url.Values{"start_row": {"1"}})
	require.NoError(t, err)
	_, _, _, err = q.Resolve(defaults)
	assert.Error(t, err)

	q, err = ParseNewRunQuery(url.Values{"cols": {"0"}})
	require.NoError(t, err)
	_, _, _, err = q.Resolve(defaults)
	assert.ErrorIs(t, err, mines.ErrInvalidParams)

	_, err = ParseNewRunQuery(url.Values{"rows": {"many"}})
	assert.Error(t, err)
}

func TestNewRun(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodPost, "/runs?rows=3&cols=3&mine_count=0", nil))
	dto := decodeRun(t, w)

	assert.True(t, dto.Found)
	assert.Equal(t, []StepDTO{
		{Row: 2, Col: 1},
		{Row: 1, Col: 1},
		{Row: 0, Col: 1},
	}, dto.Path)
	assert.Equal(t, 2, dto.Moves)
	assert.Empty(t, dto.Hazards)
	assert.Nil(t, dto.PlayerID)
	assert.Nil(t, dto.LevelName)
	require.Len(t, f.store.runs, 1)
	assert.Equal(t, f.store.runs[0].RunID.String(), dto.RunID)
}

func TestNewRunSeedIsReproducible(t *testing.T) {
	f := newFixture(t)
	target := "/runs?rows=8&cols=8&mine_count=12&seed=99"

	first := decodeRun(t, f.do(httptest.NewRequest(http.MethodPost, target, nil)))
	second := decodeRun(t, f.do(httptest.NewRequest(http.MethodPost, target, nil)))

	assert.Len(t, first.Hazards, 12)
	assert.Equal(t, first.Hazards, second.Hazards)
	assert.Equal(t, first.Path, second.Path)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestNewRunTagsPlayer(t *testing.T) {
	f := newFixture(t)

	r := withClaims(httptest.NewRequest(http.MethodPost, "/runs", nil), 42)
	dto := decodeRun(t, f.do(r))

	require.NotNil(t, dto.PlayerID)
	assert.EqualValues(t, 42, *dto.PlayerID)
}

func TestNewRunBadRequests(t *testing.T) {
	tests := map[string]string{
		"bad int":         "/runs?rows=lots",
		"half a start":    "/runs?start_row=1",
		"too many mines":  "/runs?rows=3&cols=3&mine_count=8",
		"start outside":   "/runs?start_row=5&start_col=5",
		"goal outside":    "/runs?goal_row=-1&goal_col=0",
		"field too large": "/runs?rows=100000&cols=100000&mine_count=0",
		"area overflows":  "/runs?rows=2147483648&cols=2147483648",
	}
	for name, target := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			w := f.do(httptest.NewRequest(http.MethodPost, target, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
			assert.Empty(t, f.store.runs)
		})
	}
}

func TestNewRunTimeout(t *testing.T) {
	f := newFixture(t)
	f.runs.search.Timeout = 0

	w := f.do(httptest.NewRequest(http.MethodPost, "/runs", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), ErrSearchTimeout.Error())
	assert.Empty(t, f.store.runs)
}

func TestNewRunStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.failWith = errors.New("connection refused")

	w := f.do(httptest.NewRequest(http.MethodPost, "/runs", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestFetchRun(t *testing.T) {
	f := newFixture(t)
	created := decodeRun(t, f.do(httptest.NewRequest(http.MethodPost, "/runs", nil)))

	fetched := decodeRun(t, f.do(httptest.NewRequest(http.MethodGet, "/runs/"+created.RunID, nil)))
	assert.Equal(t, created, fetched)

	w := f.do(httptest.NewRequest(http.MethodGet, "/runs/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/runs/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRuns(t *testing.T) {
	f := newFixture(t)
	decodeRun(t, f.do(httptest.NewRequest(http.MethodPost, "/runs", nil)))
	decodeRun(t, f.do(withClaims(httptest.NewRequest(http.MethodPost, "/runs", nil), 7)))

	list := func(r *http.Request) []RunDTO {
		w := f.do(r)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var dtos []RunDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
		return dtos
	}

	all := list(httptest.NewRequest(http.MethodGet, "/runs?found=true&limit=5", nil))
	assert.Len(t, all, 2)
	require.NotNil(t, f.store.lastFilter.Found)
	assert.True(t, *f.store.lastFilter.Found)
	assert.Equal(t, 5, f.store.lastFilter.Limit)
	assert.Nil(t, f.store.lastFilter.PlayerID)

	mine := list(withClaims(httptest.NewRequest(http.MethodGet, "/runs?mine=1", nil), 7))
	require.Len(t, mine, 1)
	assert.EqualValues(t, 7, *mine[0].PlayerID)

	w := f.do(httptest.NewRequest(http.MethodGet, "/runs?mine=1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/runs?limit=ten", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRunsEmpty(t *testing.T) {
	f := newFixture(t)
	w := f.do(httptest.NewRequest(http.MethodGet, "/runs", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestConnectStreamsRun(t *testing.T) {
	f := newFixture(t)
	created := decodeRun(t, f.do(httptest.NewRequest(http.MethodPost, "/runs", nil)))

	server := httptest.NewServer(f.mux)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/runs/" + created.RunID + "/connect"
	c, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer c.Close()

	for i, want := range created.Path {
		var frame FrameDTO
		require.NoError(t, c.ReadJSON(&frame))
		assert.Equal(t, i, frame.Index)
		assert.False(t, frame.Done)
		require.NotNil(t, frame.Step)
		assert.Equal(t, want, *frame.Step)
	}

	var done FrameDTO
	require.NoError(t, c.ReadJSON(&done))
	assert.True(t, done.Done)
	assert.True(t, done.Found)
	assert.Equal(t, created.Moves, done.Moves)
	assert.Nil(t, done.Step)

	_, _, err = c.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), err)
}

func TestConnectUnknownRun(t *testing.T) {
	f := newFixture(t)
	w := f.do(httptest.NewRequest(http.MethodGet, "/runs/"+uuid.NewString()+"/connect", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
