package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mindcare-backend/internal/services"
)

const msgMoodRequired = "Mood is required"

// Fixed client messages for mood route failures.
const (
	MsgListFailed = "Failed to fetch moods"
	MsgSaveFailed = "Failed to save mood"
)

// MoodRequest is the JSON payload for POST /mood.
type MoodRequest struct {
	Mood string `json:"mood" example:"calm"`
}

// ListMoods godoc
// @ID          listMoods
// @Summary     List moods
// @Description Returns every mood entry, most recent first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Mood
// @Produce     json
//
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"  example(W/\"moods:3:1714564800000000000\")
//
// @Success     200  {array}   domain.MoodEntry
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse  "Failed to fetch moods"
// @Router      /mood [get]
func (h *Handlers) ListMoods(c *gin.Context) {
	ctx := c.Request.Context()

	inm := c.GetHeader("If-None-Match")

	// Cheap pre-check: answer 304 from the aggregates alone (best effort).
	if inm != "" {
		if count, latest, err := h.moodSvc.Stats(ctx); err == nil {
			if etag := moodsETag(count, latest); inm == etag {
				c.Header("ETag", etag)
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.moodSvc.List(ctx)
	if err != nil {
		failWithCause(c, http.StatusInternalServerError, ErrCodeListFailed, MsgListFailed, err)
		return
	}

	// The tag always describes the items being returned.
	var latest *time.Time
	if len(items) > 0 {
		latest = &items[0].Timestamp
	}
	etag := moodsETag(int64(len(items)), latest)
	c.Header("ETag", etag)
	if inm == etag {
		c.Status(http.StatusNotModified)
		return
	}
	ok(c, http.StatusOK, items)
}

// moodsETag builds the weak validator for a mood log of count entries whose
// newest entry is latest.
func moodsETag(count int64, latest *time.Time) string {
	var ts int64
	if latest != nil {
		ts = latest.UnixNano()
	}
	return fmt.Sprintf(`W/"moods:%d:%d"`, count, ts)
}

// PostMood godoc
// @ID          postMood
// @Summary     Append a mood
// @Description Stores a mood label and returns the full mood log, most recent first.
// @Tags        Mood
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.MoodRequest  true  "Mood label"
//
// @Success     200  {array}   domain.MoodEntry
// @Failure     400  {object}  handlers.ErrorResponse  "Mood is required"
// @Failure     500  {object}  handlers.ErrorResponse  "Failed to save mood"
// @Router      /mood [post]
func (h *Handlers) PostMood(c *gin.Context) {
	var req MoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgMoodRequired)
		return
	}

	items, err := h.moodSvc.Append(c.Request.Context(), req.Mood)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMood) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgMoodRequired)
			return
		}
		failWithCause(c, http.StatusInternalServerError, ErrCodeCreateFailed, MsgSaveFailed, err)
		return
	}
	ok(c, http.StatusOK, items)
}
