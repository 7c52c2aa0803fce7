package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/mine-stalker/internal/level"
	"github.com/vancomm/mine-stalker/internal/repository"
)

const maxLevelDocument = 1 << 20

type LevelHandler struct {
	logger *logrus.Logger
	store  Store
	runs   *RunHandler
}

func NewLevelHandler(logger *logrus.Logger, store Store, runs *RunHandler) *LevelHandler {
	return &LevelHandler{logger: logger, store: store, runs: runs}
}

// Put stores every level of a YAML document or none of them. A name that is
// already taken rejects the whole document with 409.
func (h LevelHandler) Put(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxLevelDocument))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		sendError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	levels, err := level.Parse(data)
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	for _, lv := range levels {
		if _, err := lv.Grid(h.runs.fork()); err != nil {
			sendError(w, h.logger, http.StatusBadRequest, fmt.Errorf("level %q: %w", lv.Name, err))
			return
		}
	}

	rows, err := h.store.CreateLevels(r.Context(), levels)
	if errors.Is(err, repository.ErrConflict) {
		sendError(w, h.logger, http.StatusConflict, err)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.WithError(err).Error("unable to store levels")
		return
	}
	stored := make([]level.Level, 0, len(rows))
	for _, row := range rows {
		stored = append(stored, row.Level())
	}

	h.logger.WithField("count", len(stored)).Info("levels stored")
	sendJSONOrLog(w, h.logger, stored)
}

func (h LevelHandler) fetch(w http.ResponseWriter, r *http.Request) (level.Level, bool) {
	row, err := h.store.FetchLevel(r.Context(), r.PathValue("name"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return level.Level{}, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.WithError(err).Error("unable to fetch level from db")
		return level.Level{}, false
	}
	return row.Level(), true
}

func (h LevelHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	lv, ok := h.fetch(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, h.logger, lv)
}

func (h LevelHandler) NewRun(w http.ResponseWriter, r *http.Request) {
	lv, ok := h.fetch(w, r)
	if !ok {
		return
	}

	grid, err := lv.Grid(h.runs.fork())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.WithError(err).WithField("level", lv.Name).Error("db returned an invalid level")
		return
	}

	h.runs.solve(w, r, grid, &lv.Name)
}
