package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mindcare-backend/internal/http/middleware"
	"github.com/tbourn/go-mindcare-backend/internal/services"
)

const msgMessageRequired = "Message is required"

// MsgChatFailed is the fixed client message for any POST /chat failure.
const MsgChatFailed = "Chat processing failed"

// ChatRequest is the JSON payload for POST /chat.
type ChatRequest struct {
	Message string `json:"message" example:"I've been feeling anxious lately"`
}

// ChatResponse is the JSON body returned by POST /chat.
type ChatResponse struct {
	Reply     string `json:"reply" example:"I'm sorry you're going through this. What has been on your mind?"`
	Sentiment string `json:"sentiment" example:"fear"`
	Risk      bool   `json:"risk" example:"false"`
}

// PostChat godoc
// @ID          postChat
// @Summary     Send a message
// @Description Classifies the message, checks it for risk phrases, obtains a supportive reply and stores the turn and its mood.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false  "Replay a previous result for the same key"  example(3f2a7c1e-retry-1)
// @Param       body             body    handlers.ChatRequest  true  "Chat message"
//
// @Success     200  {object}  handlers.ChatResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Message is required"
// @Failure     500  {object}  handlers.ErrorResponse  "Chat processing failed"
// @Router      /chat [post]
func (h *Handlers) PostChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgMessageRequired)
		return
	}

	key, _ := middleware.GetIdempotencyKey(c)
	turn, err := h.chatSvc.Respond(c.Request.Context(), key, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgMessageRequired)
			return
		}
		failWithCause(c, http.StatusInternalServerError, ErrCodeChatFailed, MsgChatFailed, err)
		return
	}

	ok(c, http.StatusOK, ChatResponse{
		Reply:     turn.Reply,
		Sentiment: turn.Sentiment,
		Risk:      turn.Risk,
	})
}
