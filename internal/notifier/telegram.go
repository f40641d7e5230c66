// Package notifier delivers scan reports to Telegram and reads bot commands.
package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// DefaultAPIURL is the Telegram Bot API root.
const DefaultAPIURL = "https://api.telegram.org"

// MaxMessageLen is Telegram's limit for one message text.
const MaxMessageLen = 4096

// Notifier sends a text message somewhere.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	ChatID string

	client    *resty.Client
	retryBase time.Duration
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewTelegramNotifier creates a notifier with optional proxy support. apiURL may be
// empty to use the public endpoint.
func NewTelegramNotifier(apiURL, botToken, chatID, proxyURL string) *TelegramNotifier {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	client := resty.New().
		SetBaseURL(fmt.Sprintf("%s/bot%s", apiURL, botToken)).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &TelegramNotifier{
		ChatID:    chatID,
		client:    client,
		retryBase: time.Second,
	}
}

// Send sends an HTML message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	var result apiResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"chat_id":                  t.ChatID,
			"text":                     text,
			"parse_mode":               "HTML",
			"disable_web_page_preview": true,
		}).
		SetResult(&result).
		SetError(&result).
		Post("/sendMessage")
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if !resp.IsSuccess() || !result.OK {
		return fmt.Errorf("telegram API error: status %d: %s", resp.StatusCode(), result.Description)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := t.Send(ctx, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := t.retryBase << uint(i)
		log.Warn().Err(err).
			Int("attempt", i+1).
			Int("attempts", maxRetries+1).
			Dur("backoff", backoff).
			Msg("telegram send failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", maxRetries+1, lastErr)
}

// SendLong splits text on line boundaries to respect MaxMessageLen and sends each part.
func (t *TelegramNotifier) SendLong(ctx context.Context, text string, maxRetries int) error {
	for _, part := range SplitMessage(text, MaxMessageLen) {
		if err := t.SendWithRetry(ctx, part, maxRetries); err != nil {
			return err
		}
	}
	return nil
}
