package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/mine-stalker/internal/config"
	"github.com/vancomm/mine-stalker/internal/middleware"
	"github.com/vancomm/mine-stalker/internal/mines"
	"github.com/vancomm/mine-stalker/internal/repository"
	"github.com/vancomm/mine-stalker/internal/stalker"
)

var (
	ErrSearchTimeout = errors.New("search timed out")
	ErrNotLoggedIn   = errors.New("mine=1 requires a bearer token")
)

type RunHandler struct {
	logger *logrus.Logger
	store  Store
	search *config.Search
	ws     *config.WebSocket

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRunHandler(
	logger *logrus.Logger,
	store Store,
	search *config.Search,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *RunHandler {
	handler := &RunHandler{
		logger: logger,
		store:  store,
		search: search,
		ws:     ws,
		rnd:    rnd,
	}

	return handler
}

// fork hands out a private generator so hazard placement does not hold the
// shared one.
func (h *RunHandler) fork() *rand.Rand {
	h.mu.Lock()
	defer h.mu.Unlock()
	return rand.New(rand.NewPCG(h.rnd.Uint64(), h.rnd.Uint64()))
}

func (h *RunHandler) NewRun(w http.ResponseWriter, r *http.Request) {
	query, err := ParseNewRunQuery(r.URL.Query())
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	params, start, goal, err := query.Resolve(h.search.Field)
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var rnd *rand.Rand
	if query.Seed != nil {
		rnd = rand.New(rand.NewPCG(*query.Seed, *query.Seed))
	} else {
		rnd = h.fork()
	}

	grid, err := mines.NewGrid(params, start, goal, rnd)
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	h.solve(w, r, grid, nil)
}

// solve searches grid within the configured timeout, stores the outcome and
// writes it to w.
func (h *RunHandler) solve(
	w http.ResponseWriter, r *http.Request, grid *stalker.Grid, levelName *string,
) {
	log := h.logger.WithFields(logrus.Fields{
		"rows":    grid.Rows(),
		"cols":    grid.Cols(),
		"hazards": grid.HazardCount(),
	})

	ctx, cancel := context.WithTimeout(r.Context(), h.search.Timeout)
	defer cancel()

	started := time.Now()
	result, err := grid.Search(ctx)
	elapsed := time.Since(started)
	if errors.Is(err, context.DeadlineExceeded) {
		log.WithField("elapsed", elapsed).Warn("search timed out")
		sendError(w, h.logger, http.StatusServiceUnavailable, ErrSearchTimeout)
		return
	}
	if err != nil {
		log.WithError(err).Debug("search abandoned")
		return
	}
	log.WithFields(logrus.Fields{
		"found":    result.Found,
		"moves":    result.Path.Moves(),
		"expanded": result.Expanded,
		"elapsed":  elapsed,
	}).Debug("search finished")

	params := repository.CreateRunParams{
		LevelName: levelName,
		Grid:      grid,
		Result:    result,
		Duration:  elapsed,
	}
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		params.PlayerID = &claims.PlayerId
	}

	run, err := h.store.CreateRun(r.Context(), params)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).Error("unable to store run")
		return
	}

	dto, err := NewRunDTO(run)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).Error("unable to render run")
		return
	}

	sendJSONOrLog(w, h.logger, dto)
}

func (h *RunHandler) fetch(w http.ResponseWriter, r *http.Request) (*repository.Run, bool) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid run id: %w", err))
		return nil, false
	}

	run, err := h.store.FetchRun(r.Context(), runID)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.WithError(err).Error("unable to fetch run from db")
		return nil, false
	}
	return run, true
}

func (h *RunHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	run, ok := h.fetch(w, r)
	if !ok {
		return
	}

	dto, err := NewRunDTO(run)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.WithError(err).Error("db returned an invalid run")
		return
	}

	sendJSONOrLog(w, h.logger, dto)
}

func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := ParseListRunsQuery(r.URL.Query())
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	filter := repository.RunFilter{
		Found:     query.Found,
		LevelName: query.Level,
		Limit:     query.Limit,
	}
	if query.Mine {
		claims, ok := middleware.PlayerClaims(r.Context())
		if !ok {
			sendError(w, h.logger, http.StatusUnauthorized, ErrNotLoggedIn)
			return
		}
		filter.PlayerID = &claims.PlayerId
	}

	runs, err := h.store.ListRuns(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.WithError(err).Error("unable to list runs")
		return
	}

	dtos := make([]*RunDTO, 0, len(runs))
	for i := range runs {
		dto, err := NewRunDTO(&runs[i])
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			h.logger.WithError(err).Error("db returned an invalid run")
			return
		}
		dtos = append(dtos, dto)
	}

	sendJSONOrLog(w, h.logger, dtos)
}
