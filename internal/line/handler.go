package line

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/yclai/tianqibot/internal/history"
)

const indexMessage = "LINE Bot with Weather and AI Service"

// Replier produces the reply text for an inbound user message.
type Replier interface {
	Route(ctx context.Context, text string) string
}

// Handler receives LINE webhook callbacks, verifies their signature,
// dispatches text messages for fulfillment, records the exchange, and
// sends the reply.
type Handler struct {
	channelSecret string
	store         history.Store
	replier       Replier
	sender        Sender
	logger        *slog.Logger
}

// NewHandler creates a webhook handler.
func NewHandler(channelSecret string, store history.Store, replier Replier, sender Sender, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		channelSecret: channelSecret,
		store:         store,
		replier:       replier,
		sender:        sender,
		logger:        logger.With("component", "line_handler"),
	}
}

// RegisterRoutes attaches the handler's endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.Index)
	mux.HandleFunc("/callback", h.Callback)
}

// Index is a fixed health/landing endpoint.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(indexMessage))
}

// Callback handles a LINE webhook delivery. Signature verification runs
// before any event is looked at; a failed check rejects the whole batch.
// Events are processed in order within the request, and fulfillment
// failures never surface as webhook errors.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	cb, err := webhook.ParseRequest(h.channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.WarnContext(r.Context(), "Invalid webhook signature")
			http.Error(w, "Invalid signature", http.StatusBadRequest)
		} else {
			h.logger.ErrorContext(r.Context(), "Failed to parse webhook request", "error", err)
			http.Error(w, "Bad request", http.StatusBadRequest)
		}
		return
	}

	for _, event := range cb.Events {
		h.handleEvent(r.Context(), event)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) handleEvent(ctx context.Context, event webhook.EventInterface) {
	msgEvent, ok := event.(webhook.MessageEvent)
	if !ok {
		h.logger.DebugContext(ctx, "Ignoring non-message event")
		return
	}

	textMsg, ok := msgEvent.Message.(webhook.TextMessageContent)
	if !ok {
		h.logger.DebugContext(ctx, "Ignoring non-text message")
		return
	}

	userID := sourceUserID(msgEvent.Source)
	text := strings.TrimSpace(textMsg.Text)

	h.logger.InfoContext(ctx, "Processing message", "user_id", userID, "message_length", len(text))

	reply := h.replier.Route(ctx, text)

	h.recordExchange(ctx, userID, text, reply)

	if err := h.sender.ReplyText(ctx, msgEvent.ReplyToken, reply); err != nil {
		h.logger.ErrorContext(ctx, "Failed to send reply", "user_id", userID, "error", err)
	}
}

// recordExchange appends the user message and the bot reply to the
// conversation history and flushes the store. History failures are
// logged and otherwise ignored so a reply is still attempted.
func (h *Handler) recordExchange(ctx context.Context, userID, text, reply string) {
	if err := h.store.Append(ctx, userID, history.NewEntry(history.RoleUser, text)); err != nil {
		h.logger.ErrorContext(ctx, "Failed to record user message", "user_id", userID, "error", err)
	}
	if err := h.store.Append(ctx, userID, history.NewEntry(history.RoleBot, reply)); err != nil {
		h.logger.ErrorContext(ctx, "Failed to record bot reply", "user_id", userID, "error", err)
	}
	if err := h.store.Persist(ctx); err != nil {
		h.logger.ErrorContext(ctx, "Failed to persist conversation history", "user_id", userID, "error", err)
	}
}

// sourceUserID extracts the acting user's identifier from any source kind.
// Group and room sources still identify the sender when the user has agreed
// to be identified; otherwise the log falls back to a shared key.
func sourceUserID(source webhook.SourceInterface) string {
	var userID string
	switch s := source.(type) {
	case webhook.UserSource:
		userID = s.UserId
	case webhook.GroupSource:
		userID = s.UserId
	case webhook.RoomSource:
		userID = s.UserId
	}
	if userID == "" {
		return "unknown"
	}
	return userID
}
