package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/yogava/internal/domain/pipeline"
)

// SubmitRequest is the body accepted by POST /submit.
type SubmitRequest struct {
	VideoURL string `json:"video_url"`
}

// Handler wires the HTTP transport to the pipeline.
type Handler struct {
	pipelineSvc pipeline.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(pipelineSvc pipeline.Service, logger *slog.Logger) *Handler {
	return &Handler{
		pipelineSvc: pipelineSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

// Submit runs the pipeline for one video and blocks until it finishes.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "body must be JSON with a video_url field", err))
		return
	}
	videoURL := strings.TrimSpace(req.VideoURL)
	if videoURL == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "video_url is required", nil))
		return
	}

	h.logger.Info("video submitted", "video_url", videoURL)
	// A started run always finishes, even if the client goes away.
	if !h.pipelineSvc.Run(context.WithoutCancel(c.Request.Context()), videoURL) {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "pipeline_failed", "video could not be processed", nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Service is running"})
}
