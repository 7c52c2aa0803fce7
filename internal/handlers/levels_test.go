package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/mine-stalker/internal/level"
	"github.com/vancomm/mine-stalker/internal/repository"
	"github.com/vancomm/mine-stalker/internal/stalker"
)

const corridorYAML = `
levels:
  - name: corridor
    rows: 3
    cols: 3
    start: {row: 2, col: 1}
    goal: {row: 0, col: 1}
    hazards: [{row: 1, col: 0}, {row: 1, col: 2}]
  - name: random
    rows: 10
    cols: 10
    mines: 15
    seed: 42
`

func putLevels(f *fixture, body string) *httptest.ResponseRecorder {
	return f.do(httptest.NewRequest(http.MethodPut, "/levels", strings.NewReader(body)))
}

func TestPutLevels(t *testing.T) {
	f := newFixture(t)

	w := putLevels(f, corridorYAML)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored []level.Level
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, "corridor", stored[0].Name)
	assert.Equal(t, 15, stored[1].Mines)
	assert.Contains(t, f.store.levels, "random")

	w = putLevels(f, corridorYAML)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), repository.ErrConflict.Error())
	assert.Contains(t, w.Body.String(), "corridor")
}

func TestPutLevelsConflictStoresNothing(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, putLevels(f, corridorYAML).Code)

	w := putLevels(f, `
levels:
  - name: fresh
    rows: 4
    cols: 4
  - name: corridor
    rows: 3
    cols: 3
`)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "corridor")
	assert.NotContains(t, f.store.levels, "fresh")
	assert.Len(t, f.store.levels, 2)
}

func TestPutLevelsRejectsBadDocuments(t *testing.T) {
	tests := map[string]string{
		"not yaml":  "levels: [",
		"empty":     "levels: []",
		"no name":   "levels: [{rows: 3, cols: 3}]",
		"duplicate": "levels: [{name: a, rows: 2, cols: 2}, {name: a, rows: 2, cols: 2}]",
		"hazard on start": `
levels:
  - name: trap
    rows: 3
    cols: 3
    hazards: [{row: 2, col: 1}]
`,
		"too many mines":  "levels: [{name: packed, rows: 2, cols: 2, mines: 3, seed: 1}]",
		"field too large": "levels: [{name: vast, rows: 100000, cols: 100000}]",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			w := putLevels(f, body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Empty(t, f.store.levels)
		})
	}
}

func TestPutLevelsTooLarge(t *testing.T) {
	f := newFixture(t)
	body := "levels:\n" + strings.Repeat("#", maxLevelDocument+1)
	w := putLevels(f, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestFetchLevel(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, putLevels(f, corridorYAML).Code)

	w := f.do(httptest.NewRequest(http.MethodGet, "/levels/corridor", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var lv level.Level
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lv))
	assert.Equal(t, []stalker.Position{{Row: 1, Col: 0}, {Row: 1, Col: 2}}, lv.Hazards)

	w = f.do(httptest.NewRequest(http.MethodGet, "/levels/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLevelRun(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, putLevels(f, corridorYAML).Code)

	dto := decodeRun(t, f.do(httptest.NewRequest(http.MethodPost, "/levels/corridor/runs", nil)))
	require.NotNil(t, dto.LevelName)
	assert.Equal(t, "corridor", *dto.LevelName)
	assert.True(t, dto.Found)
	assert.Equal(t, []StepDTO{
		{Row: 2, Col: 1, AdjacentHazards: 2},
		{Row: 1, Col: 1, AdjacentHazards: 2},
		{Row: 0, Col: 1, AdjacentHazards: 2},
	}, dto.Path)

	first := decodeRun(t, f.do(httptest.NewRequest(http.MethodPost, "/levels/random/runs", nil)))
	second := decodeRun(t, f.do(httptest.NewRequest(http.MethodPost, "/levels/random/runs", nil)))
	assert.Len(t, first.Hazards, 15)
	assert.Equal(t, first.Hazards, second.Hazards)

	w := f.do(httptest.NewRequest(http.MethodPost, "/levels/missing/runs", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
