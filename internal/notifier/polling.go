package notifier

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// CommandHandler is called when a user command is received. A non-empty reply is sent back.
type CommandHandler func(ctx context.Context, command string) string

type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

type updatesResponse struct {
	OK     bool             `json:"ok"`
	Result []telegramUpdate `json:"result"`
}

// pollTimeout is the long-poll wait Telegram holds a getUpdates call open for.
const pollTimeout = 25

// StartPolling long-polls for commands from the configured chat. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	for {
		if ctx.Err() != nil {
			log.Info().Msg("telegram polling stopped")
			return
		}

		updates, err := t.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("telegram polling stopped")
				return
			}
			log.Warn().Err(err).Msg("telegram polling request failed")
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			t.dispatch(ctx, update, handler)
		}
	}
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, offset int) ([]telegramUpdate, error) {
	var result updatesResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"offset":  strconv.Itoa(offset),
			"timeout": strconv.Itoa(pollTimeout),
		}).
		SetResult(&result).
		Get("/getUpdates")
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() || !result.OK {
		return nil, &pollError{status: resp.StatusCode()}
	}
	return result.Result, nil
}

func (t *TelegramNotifier) dispatch(ctx context.Context, update telegramUpdate, handler CommandHandler) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	if strconv.FormatInt(update.Message.Chat.ID, 10) != t.ChatID {
		log.Warn().Int64("chat_id", update.Message.Chat.ID).Msg("ignoring command from unknown chat")
		return
	}
	text := strings.TrimSpace(update.Message.Text)
	log.Info().Str("command", text).Msg("received command")
	reply := handler(ctx, text)
	if reply == "" {
		return
	}
	if err := t.SendLong(ctx, reply, 2); err != nil {
		log.Error().Err(err).Msg("send reply failed")
	}
}

type pollError struct{ status int }

func (e *pollError) Error() string {
	return "getUpdates: status " + strconv.Itoa(e.status)
}
