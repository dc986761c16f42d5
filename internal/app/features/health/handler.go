package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Live   string
	Log    *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
// live names the configured live-query mode and is echoed in the response.
func NewHandler(client *mongo.Client, live string, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Live:   live,
		Log:    logger,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Live     string `json:"live,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "live":"changestream" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		respond.JSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "error",
			Database: "disconnected",
			Message:  "Database unavailable",
			Error:    err.Error(),
		})
		return
	}

	respond.JSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Database: "connected",
		Live:     h.Live,
	})
}

// ServeLive handles GET /health/live. It never touches the database, so a
// slow primary does not get the process restarted.
func (h *Handler) ServeLive(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, healthResponse{Status: "ok", Live: h.Live})
}
