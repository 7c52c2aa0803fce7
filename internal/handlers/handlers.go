package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/mine-stalker/internal/level"
	"github.com/vancomm/mine-stalker/internal/repository"
)

// Store is the part of the repository the handlers need.
type Store interface {
	CreateRun(ctx context.Context, params repository.CreateRunParams) (*repository.Run, error)
	FetchRun(ctx context.Context, runID uuid.UUID) (*repository.Run, error)
	ListRuns(ctx context.Context, filter repository.RunFilter) ([]repository.Run, error)
	CreateLevels(ctx context.Context, levels []level.Level) ([]*repository.Level, error)
	FetchLevel(ctx context.Context, name string) (*repository.Level, error)
}

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Add("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, logger *logrus.Logger, v any) {
	_, err := SendJSON(w, v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logger.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

// sendStatusJSON writes v with a status other than 200. Headers go out with
// WriteHeader, so Content-Type is set first.
func sendStatusJSON(w http.ResponseWriter, logger *logrus.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

func sendError(w http.ResponseWriter, logger *logrus.Logger, status int, err error) {
	sendStatusJSON(w, logger, status, wrapError(err))
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

func decodeQuery(dst any, src map[string][]string) error {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec.Decode(dst, src)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	logger *logrus.Logger
	db     Pinger
}

func NewHealth(logger *logrus.Logger, db Pinger) *Health {
	return &Health{logger: logger, db: db}
}

func (h Health) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.WithError(err).Warn("database ping failed")
		sendStatusJSON(w, h.logger, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	sendJSONOrLog(w, h.logger, map[string]string{"status": "ok"})
}
