package api

import (
	"context"
	"io"
	"net/http"
	"ragnar/training-app/internal/repository"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StreamHandler exposes live change notifications over Server-Sent Events.
// Each connection opens its own feed; event order within one stream follows
// store emission order, but two streams give no cross-ordering guarantee.
type StreamHandler struct {
	changeFeed repository.ChangeFeed
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(changeFeed repository.ChangeFeed) *StreamHandler {
	return &StreamHandler{changeFeed: changeFeed}
}

// StreamRoster handles GET /stream/roster. Trainer dashboard live updates.
func (h *StreamHandler) StreamRoster(c *gin.Context) {
	events, err := h.changeFeed.WatchRoster(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to open roster stream")
		return
	}
	streamEvents(c, events)
}

// StreamExercises handles GET /stream/exercises.
func (h *StreamHandler) StreamExercises(c *gin.Context) {
	events, err := h.changeFeed.WatchExercises(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to open exercise stream")
		return
	}
	streamEvents(c, events)
}

// StreamSessions handles GET /stream/athletes/:athleteId/sessions. The student
// surface uses this to re-render the day when the trainer edits it.
func (h *StreamHandler) StreamSessions(c *gin.Context) {
	athleteID, ok := parseObjectIDParam(c, "athleteId")
	if !ok {
		return
	}
	if !authorizeAthleteAccess(c, athleteID) {
		return
	}
	h.streamForAthlete(c, athleteID, h.changeFeed.WatchSessions)
}

// StreamMessages handles GET /stream/athletes/:athleteId/messages.
func (h *StreamHandler) StreamMessages(c *gin.Context) {
	athleteID, ok := parseObjectIDParam(c, "athleteId")
	if !ok {
		return
	}
	if !authorizeAthleteAccess(c, athleteID) {
		return
	}
	h.streamForAthlete(c, athleteID, h.changeFeed.WatchMessages)
}

func (h *StreamHandler) streamForAthlete(
	c *gin.Context,
	athleteID primitive.ObjectID,
	watch func(ctx context.Context, athleteID primitive.ObjectID) (<-chan repository.ChangeEvent, error),
) {
	events, err := watch(c.Request.Context(), athleteID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to open stream")
		return
	}
	streamEvents(c, events)
}

// streamEvents writes feed events to the client as SSE until the feed closes
// or the client disconnects.
func streamEvents(c *gin.Context, events <-chan repository.ChangeEvent) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		event, open := <-events
		if !open {
			return false // Feed closed: end the response
		}
		c.SSEvent("change", event)
		return true
	})
}
