package fitlog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=fitlog_test

type eventService interface {
	AddMeal(ctx context.Context, meal Meal) (Meal, error)
	AddWorkout(ctx context.Context, workout Workout) (Workout, error)
	AddMeasurement(ctx context.Context, measurement Measurement) (Measurement, error)
	AddJournalEntry(ctx context.Context, entry JournalEntry) (JournalEntry, error)
	Delete(ctx context.Context, collection Collection, userID string, id int) error
	Snapshot(ctx context.Context, userID string) (*Snapshot, error)
}

type Handler struct {
	service eventService
}

func NewHandler(service eventService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/users/{userId}/meals", h.HandleAddMeal).Methods("POST", "OPTIONS").Name("add-meal")
	r.HandleFunc("/users/{userId}/workouts", h.HandleAddWorkout).Methods("POST", "OPTIONS").Name("add-workout")
	r.HandleFunc("/users/{userId}/measurements", h.HandleAddMeasurement).Methods("POST", "OPTIONS").Name("add-measurement")
	r.HandleFunc("/users/{userId}/journal", h.HandleAddJournalEntry).Methods("POST", "OPTIONS").Name("add-journal-entry")
	r.HandleFunc("/users/{userId}/{collection:meals|workouts|measurements|journal}", h.HandleList).Methods("GET", "OPTIONS").Name("list-events")
	r.HandleFunc("/users/{userId}/{collection:meals|workouts|measurements|journal}/{id}", h.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-event")
}

func decodeEvent(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Errorf("new event, unmarshal json params: %s", err)
		http.Error(w, "invalid event", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) HandleAddMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitlog.meals.add")
	defer span.End()

	var meal Meal
	if !decodeEvent(w, r, &meal) {
		return
	}
	meal.UserID = mux.Vars(r)["userId"]

	added, err := h.service.AddMeal(ctx, meal)
	if err != nil {
		log.Errorf("add meal: %s", err)
		http.Error(w, "add meal failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (h *Handler) HandleAddWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitlog.workouts.add")
	defer span.End()

	var workout Workout
	if !decodeEvent(w, r, &workout) {
		return
	}
	workout.UserID = mux.Vars(r)["userId"]

	added, err := h.service.AddWorkout(ctx, workout)
	if err != nil {
		log.Errorf("add workout: %s", err)
		http.Error(w, "add workout failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (h *Handler) HandleAddMeasurement(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitlog.measurements.add")
	defer span.End()

	var measurement Measurement
	if !decodeEvent(w, r, &measurement) {
		return
	}
	measurement.UserID = mux.Vars(r)["userId"]

	added, err := h.service.AddMeasurement(ctx, measurement)
	if err != nil {
		log.Errorf("add measurement: %s", err)
		http.Error(w, "add measurement failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (h *Handler) HandleAddJournalEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitlog.journal.add")
	defer span.End()

	var entry JournalEntry
	if !decodeEvent(w, r, &entry) {
		return
	}
	entry.UserID = mux.Vars(r)["userId"]

	added, err := h.service.AddJournalEntry(ctx, entry)
	if err != nil {
		log.Errorf("add journal entry: %s", err)
		http.Error(w, "add journal entry failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitlog.list")
	defer span.End()

	vars := mux.Vars(r)
	collection := Collection(vars["collection"])
	if !collection.IsValid() {
		http.Error(w, "unknown collection", http.StatusBadRequest)
		return
	}

	snapshot, err := h.service.Snapshot(ctx, vars["userId"])
	if err != nil {
		log.Errorf("list %s: %s", collection, err)
		http.Error(w, "list events failed", http.StatusInternalServerError)
		return
	}

	var events any
	switch collection {
	case CollectionMeals:
		events = snapshot.Meals
	case CollectionWorkouts:
		events = snapshot.Workouts
	case CollectionMeasurements:
		events = snapshot.Measurements
	case CollectionJournal:
		events = snapshot.Journal
	}
	pkg.WriteJSON(w, events, http.StatusOK)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitlog.delete")
	defer span.End()

	vars := mux.Vars(r)
	collection := Collection(vars["collection"])
	if !collection.IsValid() {
		http.Error(w, "unknown collection", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(ctx, collection, vars["userId"], id); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete %s event %d: %s", collection, id, err)
		http.Error(w, "delete event failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteTextResponseOK(w, "deleted")
}
