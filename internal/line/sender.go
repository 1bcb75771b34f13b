// Package line implements the LINE Messaging API transport: webhook
// intake with signature verification and reply delivery.
package line

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Sender delivers reply messages back to LINE.
type Sender interface {
	ReplyText(ctx context.Context, replyToken, text string) error
}

type apiSender struct {
	client *messaging_api.MessagingApiAPI
	logger *slog.Logger
}

// NewSender creates a Sender backed by the LINE Messaging API.
func NewSender(channelToken string, logger *slog.Logger) (Sender, error) {
	if channelToken == "" {
		return nil, fmt.Errorf("LINE channel token is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging API client: %w", err)
	}

	return &apiSender{
		client: client,
		logger: logger.With("component", "line_sender"),
	}, nil
}

// ReplyText sends a single text message using the one-time reply token.
// The underlying SDK call does not take a context; ctx is accepted for
// interface symmetry and future cancellation support.
func (s *apiSender) ReplyText(ctx context.Context, replyToken, text string) error {
	_, err := s.client.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}

	s.logger.DebugContext(ctx, "Reply sent", "reply_length", len(text))
	return nil
}
