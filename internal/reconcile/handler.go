package reconcile

import (
	"net/http"

	"github.com/2beens/fitcoach/internal/challenges"
	"github.com/2beens/fitcoach/internal/notify"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type runResponse struct {
	UserID    string              `json:"userId"`
	Updates   []challenges.Update `json:"updates"`
	Persisted int                 `json:"persisted"`
	Skipped   int                 `json:"skipped"`
	Failed    int                 `json:"failed"`
	Notified  map[notify.Kind]int `json:"notified"`
	Error     string              `json:"error,omitempty"`
}

// Handler serves manual reconciliation of a single user.
type Handler struct {
	runner Runner
}

func NewHandler(runner Runner) *Handler {
	return &Handler{
		runner: runner,
	}
}

// HandleReconcile runs a full reconciliation synchronously and reports what
// it did. Partial write failures still answer 200, listing the error.
func (h *Handler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reconcile.run")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}

	result := h.runner.Run(ctx, Trigger{UserID: userID, ChallengesChanged: true})
	resp := runResponse{
		UserID:    result.UserID,
		Updates:   result.Updates,
		Persisted: result.Persisted,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
		Notified:  result.Notified,
	}
	if result.Err != nil {
		log.Errorf("manual reconcile of %s: %s", userID, result.Err)
		if result.Persisted == 0 && result.Failed == 0 {
			http.Error(w, "reconcile failed", http.StatusInternalServerError)
			return
		}
		resp.Error = result.Err.Error()
	}
	pkg.WriteJSON(w, resp, http.StatusOK)
}
