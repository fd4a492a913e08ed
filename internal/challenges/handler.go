package challenges

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/fitcoach/internal/fitlog"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=challenges_test

type challengesService interface {
	List(ctx context.Context, userID string) ([]Challenge, error)
	Join(ctx context.Context, userID string, key MetricKey, startDate, endDate *time.Time) (Challenge, error)
	SetStatus(ctx context.Context, userID string, id uuid.UUID, status Status) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	Catalog() []Definition
	Metrics(ctx context.Context, userID string) (*MetricsReport, error)
}

type Handler struct {
	service challengesService
}

func NewHandler(service challengesService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/challenges/catalog", h.HandleCatalog).Methods("GET", "OPTIONS").Name("challenges-catalog")
	r.HandleFunc("/users/{userId}/challenges", h.HandleList).Methods("GET", "OPTIONS").Name("list-challenges")
	r.HandleFunc("/users/{userId}/challenges", h.HandleJoin).Methods("POST", "OPTIONS").Name("join-challenge")
	r.HandleFunc("/users/{userId}/challenges/{id}/status", h.HandleSetStatus).Methods("PUT", "OPTIONS").Name("set-challenge-status")
	r.HandleFunc("/users/{userId}/challenges/{id}", h.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-challenge")
	r.HandleFunc("/users/{userId}/metrics", h.HandleMetrics).Methods("GET", "OPTIONS").Name("user-metrics")
}

type joinRequest struct {
	Key       MetricKey   `json:"key"`
	StartDate fitlog.Date `json:"startDate"`
	EndDate   fitlog.Date `json:"endDate"`
}

type statusRequest struct {
	Status Status `json:"status"`
}

func optionalTime(d fitlog.Date) *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.UTC()
	return &t
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Errorf("challenges, unmarshal json params: %s", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return false
	}
	return true
}

func challengeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid challenge id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenges.catalog")
	defer span.End()

	pkg.WriteJSON(w, h.service.Catalog(), http.StatusOK)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenges.list")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	chs, err := h.service.List(ctx, userID)
	if err != nil {
		log.Errorf("list challenges of %s: %s", userID, err)
		http.Error(w, "list challenges failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, chs, http.StatusOK)
}

func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenges.join")
	defer span.End()

	var req joinRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Key == "" {
		http.Error(w, "missing challenge key", http.StatusBadRequest)
		return
	}

	userID := mux.Vars(r)["userId"]
	ch, err := h.service.Join(ctx, userID, req.Key, optionalTime(req.StartDate), optionalTime(req.EndDate))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownDefinition):
			http.Error(w, "unknown challenge", http.StatusBadRequest)
		case errors.Is(err, ErrChallengeExists):
			http.Error(w, "challenge already joined", http.StatusConflict)
		default:
			log.Errorf("join challenge %s for %s: %s", req.Key, userID, err)
			http.Error(w, "join challenge failed", http.StatusInternalServerError)
		}
		return
	}
	pkg.WriteJSON(w, ch, http.StatusCreated)
}

func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenges.set_status")
	defer span.End()

	id, ok := challengeID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := mux.Vars(r)["userId"]
	if err := h.service.SetStatus(ctx, userID, id, req.Status); err != nil {
		switch {
		case errors.Is(err, ErrChallengeNotFound):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidPayload):
			http.Error(w, "invalid status", http.StatusBadRequest)
		case errors.Is(err, ErrChallengeExists):
			http.Error(w, "challenge already running", http.StatusConflict)
		default:
			log.Errorf("set challenge %s status: %s", id, err)
			http.Error(w, "set status failed", http.StatusInternalServerError)
		}
		return
	}
	pkg.WriteTextResponseOK(w, "updated")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenges.delete")
	defer span.End()

	id, ok := challengeID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, mux.Vars(r)["userId"], id); err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete challenge %s: %s", id, err)
		http.Error(w, "delete challenge failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteTextResponseOK(w, "deleted")
}

func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenges.metrics")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	report, err := h.service.Metrics(ctx, userID)
	if err != nil {
		log.Errorf("metrics of %s: %s", userID, err)
		http.Error(w, "compute metrics failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, report, http.StatusOK)
}
