package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/messenger-cosmos-public/relay/internal/config"
	"github.com/messenger-cosmos-public/relay/internal/history"
	"github.com/messenger-cosmos-public/relay/internal/logging"
	"github.com/messenger-cosmos-public/relay/internal/realtime"
	"github.com/messenger-cosmos-public/relay/internal/validation"
)

type Handler struct {
	store     *history.Store
	hub       *realtime.Hub
	validator *validation.Validator
	cfg       config.Config
	log       *slog.Logger
}

func NewHandler(store *history.Store, hub *realtime.Hub, cfg config.Config, log *slog.Logger) *Handler {
	return &Handler{
		store:     store,
		hub:       hub,
		validator: validation.New(),
		cfg:       cfg,
		log:       log,
	}
}

// max mirrors history.MaxTextLength.
type createMessageRequest struct {
	Text *string `json:"text" validate:"required,max=1000"`
}

func (h *Handler) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.cfg.ServiceName})
}

func (h *Handler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListMessages returns the full history, newest first.
func (h *Handler) ListMessages(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.store.List())
}

// CreateMessage stores a message and broadcasts it to every listener.
func (h *Handler) CreateMessage(ctx *gin.Context) {
	var req createMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !h.validator.ValidateStruct(ctx, req) {
		return
	}

	msg := h.store.Create(*req.Text)
	h.hub.Publish(realtime.MessageCreated(msg))

	ctx.JSON(http.StatusCreated, msg)
}

// Stream holds the connection open and pushes every published event to it.
func (h *Handler) Stream(ctx *gin.Context) {
	listener := h.hub.Subscribe()
	defer h.hub.Unsubscribe(listener)

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("X-Accel-Buffering", "no")
	ctx.Status(http.StatusOK)
	ctx.Writer.WriteHeaderNow()
	ctx.Writer.Flush()

	err := h.hub.Stream(ctx.Request.Context(), listener, newSSEWriter(ctx.Writer, ctx.Writer))
	if err != nil {
		h.log.Debug("stream closed", slog.String("listener", listener.ID()), logging.Error(err))
	}
}
