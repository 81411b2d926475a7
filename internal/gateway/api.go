package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ========================= REST API =========================

const (
	userAgent     = "DiscordBot (https://github.com/Hassan767275/league-bot, 1.0)"
	maxRetryAfter = 5 * time.Second
)

// RespondInteraction отвечает на slash-команду сообщением; ephemeral - видно только вызвавшему.
func (c *Client) RespondInteraction(ctx context.Context, interactionID, token, content string, ephemeral bool) error {
	body := interactionResponse{
		Type: callbackChannelMessage,
		Data: interactionResponseData{Content: content},
	}
	if ephemeral {
		body.Data.Flags = flagEphemeral
	}
	path := fmt.Sprintf("/interactions/%s/%s/callback", interactionID, token)
	return c.doJSON(ctx, http.MethodPost, path, body)
}

// DeferInteraction подтверждает slash-команду без текста ("бот думает..."),
// сам ответ потом приходит через EditInteractionResponse. Discord ждёт первый ответ не дольше 3 секунд.
func (c *Client) DeferInteraction(ctx context.Context, interactionID, token string, ephemeral bool) error {
	body := interactionResponse{Type: callbackDeferredChannelMessage}
	if ephemeral {
		body.Data.Flags = flagEphemeral
	}
	path := fmt.Sprintf("/interactions/%s/%s/callback", interactionID, token)
	return c.doJSON(ctx, http.MethodPost, path, body)
}

// EditInteractionResponse заменяет текст исходного (в т.ч. отложенного) ответа.
func (c *Client) EditInteractionResponse(ctx context.Context, appID, token, content string) error {
	path := fmt.Sprintf("/webhooks/%s/%s/messages/@original", appID, token)
	return c.doJSON(ctx, http.MethodPatch, path, messageEdit{Content: content})
}

// SendMessage пишет в канал; replyTo - id сообщения, на которое отвечаем (может быть пустым).
func (c *Client) SendMessage(ctx context.Context, channelID, content, replyTo string) error {
	body := messageCreate{Content: content}
	if replyTo != "" {
		body.MessageReference = &messageReference{MessageID: replyTo}
	}
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/channels/%s/messages", channelID), body)
}

// OverwriteCommands регистрирует набор команд: для гильдии (сразу) или глобально, если guildID пустой.
func (c *Client) OverwriteCommands(ctx context.Context, appID, guildID string, cmds []ApplicationCommand) error {
	path := fmt.Sprintf("/applications/%s/commands", appID)
	if guildID != "" {
		path = fmt.Sprintf("/applications/%s/guilds/%s/commands", appID, guildID)
	}
	return c.doJSON(ctx, http.MethodPut, path, cmds)
}

// doJSON шлёт запрос; на 429 один раз ждёт retry_after (не дольше maxRetryAfter) и повторяет.
func (c *Client) doJSON(ctx context.Context, method, path string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	for attempt := 0; ; attempt++ {
		wait, err := c.do(ctx, method, path, b)
		if err == nil || wait <= 0 || attempt > 0 {
			return err
		}
		c.logger.Warnw("rate limited by discord, retrying", "method", method, "path", path, "retry_after", wait)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
	}
}

// do - одна попытка. При 429 вместе с ошибкой возвращает, сколько ждать.
func (c *Client) do(ctx context.Context, method, path string, b []byte) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: string(msg)}
		if resp.StatusCode != http.StatusTooManyRequests {
			return 0, apiErr
		}
		return retryAfter(resp.Header.Get("Retry-After"), msg), apiErr
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return 0, nil
}

// retryAfter берёт секунды из заголовка Retry-After, иначе из retry_after в теле.
func retryAfter(header string, body []byte) time.Duration {
	sec, err := strconv.ParseFloat(strings.TrimSpace(header), 64)
	if err != nil {
		var rl struct {
			RetryAfter float64 `json:"retry_after"`
		}
		if json.Unmarshal(body, &rl) != nil {
			return 0
		}
		sec = rl.RetryAfter
	}
	if sec <= 0 {
		return 0
	}
	d := time.Duration(sec * float64(time.Second))
	if d > maxRetryAfter {
		return 0 // слишком долго - отдаём ошибку сразу
	}
	return d
}
