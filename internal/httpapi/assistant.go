package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/talentsage/internal/assistant"
)

func (h *handler) assistantState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"mode":         h.conv.Mode(),
		"currentJobId": h.conv.CurrentJobID(),
		"open":         h.conv.IsOpen(),
		"minimized":    h.conv.IsMinimized(),
		"listening":    h.conv.IsListening(),
		"speaking":     h.conv.IsSpeaking(),
		"rules":        h.interpreter.Rules(),
		"messages":     h.conv.Messages(),
	})
}

func (h *handler) listMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": h.conv.Messages()})
}

func (h *handler) sendMessage(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.interpreter.Submit(c.Request.Context(), h.conv, req.Content)
	switch {
	case errors.Is(err, assistant.ErrEmptyCommand):
		abort(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Info("client went away before reply", zap.Error(err))
		abort(c, http.StatusServiceUnavailable, "request cancelled")
		return
	case err != nil:
		abort(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": reply})
}

func (h *handler) setCurrentJob(c *gin.Context) {
	var req struct {
		JobID string `json:"jobId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.JobID != "" {
		if _, ok := h.store.Job(req.JobID); !ok {
			abort(c, http.StatusNotFound, "job not found")
			return
		}
	}

	h.conv.SetCurrentJobID(req.JobID)
	c.JSON(http.StatusOK, gin.H{"currentJobId": h.conv.CurrentJobID()})
}

func (h *handler) resetConversation(c *gin.Context) {
	h.conv.Reset()
	c.JSON(http.StatusOK, gin.H{"messages": h.conv.Messages()})
}
