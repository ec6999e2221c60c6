package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cgradwohl/message-log-service/internal/domain"
	"github.com/cgradwohl/message-log-service/internal/dto"
	"github.com/cgradwohl/message-log-service/internal/service"
)

// tenantHeader carries the tenant on every route; the API façade in front of
// this service sets it after auth.
const tenantHeader = "X-Tenant-Id"

type Handler struct {
	messageLogs service.MessageLogServicer
	router      *gin.Engine
	log         *zap.Logger
}

func NewHandler(messageLogs service.MessageLogServicer, log *zap.Logger) *Handler {
	h := &Handler{
		messageLogs: messageLogs,
		router:      gin.Default(),
		log:         log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/messages/:messageID/events", h.createEvent)
	h.router.GET("/messages/:messageID/events", h.getLogs)
	h.router.GET("/messages/:messageID/history", h.getHistory)
	h.router.GET("/messages/:messageID", h.getMessage)
}

// healthCheck handles health check requests
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// createEvent handles POST /messages/:messageID/events
// @Summary Append an event to a message's log
// @Description Append one event record; the write is best-effort and never fails the producer
// @Tags events
// @Accept json
// @Produce json
// @Param messageID path string true "Message ID"
// @Param event body dto.CreateEventRequest true "Event data"
// @Success 202 {object} dto.CreateEventResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /messages/{messageID}/events [post]
func (h *Handler) createEvent(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	messageID := c.Param("messageID")

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid create event request",
			zap.Error(err),
			zap.String("message_id", messageID))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	eventType := domain.EventType(req.Type)
	if !eventType.Known() {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "unknown event type: " + req.Type,
		})
		return
	}

	record := h.messageLogs.Create(c.Request.Context(), tenantID, messageID, eventType, req.JSON, req.Timestamp)

	// A dropped write is still a 202: logging must never fail the
	// message-processing pipeline that triggered it.
	resp := dto.CreateEventResponse{Status: "accepted"}
	if record != nil {
		resp.EventID = record.ID
	}

	c.JSON(http.StatusAccepted, resp)
}

// getLogs handles GET /messages/:messageID/events
// @Summary List a message's event log
// @Tags events
// @Produce json
// @Param messageID path string true "Message ID"
// @Param type query string false "Event type filter"
// @Success 200 {object} dto.GetLogsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /messages/{messageID}/events [get]
func (h *Handler) getLogs(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	messageID := c.Param("messageID")

	var req dto.GetLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	var records []*domain.EventRecord
	var err error
	if req.Type != "" {
		records, err = h.messageLogs.GetByType(c.Request.Context(), tenantID, messageID, domain.EventType(req.Type))
	} else {
		records, err = h.messageLogs.GetLogs(c.Request.Context(), tenantID, messageID)
	}
	if err != nil {
		h.renderError(c, err, messageID)
		return
	}

	c.JSON(http.StatusOK, dto.GetLogsResponse{Results: records})
}

// getHistory handles GET /messages/:messageID/history
// @Summary List a message's audit-trail history
// @Tags history
// @Produce json
// @Param messageID path string true "Message ID"
// @Param type query string false "History type filter"
// @Success 200 {object} dto.GetHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /messages/{messageID}/history [get]
func (h *Handler) getHistory(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	messageID := c.Param("messageID")

	var req dto.GetHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	records, err := h.messageLogs.GetHistoryByID(c.Request.Context(), tenantID, messageID, req.Type)
	if err != nil {
		h.renderError(c, err, messageID)
		return
	}

	c.JSON(http.StatusOK, dto.GetHistoryResponse{Results: records})
}

// getMessage handles GET /messages/:messageID
// @Summary Get a message's computed status aggregate
// @Tags messages
// @Produce json
// @Param messageID path string true "Message ID"
// @Param providers query bool false "Include per-channel provider breakdown"
// @Success 200 {object} domain.MessageLog
// @Failure 404 {object} dto.ErrorResponse
// @Router /messages/{messageID} [get]
func (h *Handler) getMessage(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	messageID := c.Param("messageID")

	var req dto.GetMessageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	messageLog, err := h.messageLogs.GetByID(c.Request.Context(), tenantID, messageID, req.Providers)
	if err != nil {
		h.renderError(c, err, messageID)
		return
	}

	c.JSON(http.StatusOK, messageLog)
}

// tenant extracts the tenant header, rejecting requests without one.
func (h *Handler) tenant(c *gin.Context) (string, bool) {
	tenantID := c.GetHeader(tenantHeader)
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: tenantHeader + " header is required",
		})
		return "", false
	}
	return tenantID, true
}

// renderError maps service errors to HTTP responses.
func (h *Handler) renderError(c *gin.Context, err error, messageID string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	default:
		h.log.Error("Request failed",
			zap.Error(err),
			zap.String("message_id", messageID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}
