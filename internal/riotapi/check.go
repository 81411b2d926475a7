package riotapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

const DefaultPlatform = "na1"

type ResultKind int

const (
	// ResultOK - сервер ответил, код ответа в StatusCode (любой, не только 200).
	ResultOK ResultKind = iota
	ResultTimedOut
	ResultFailed
)

func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultTimedOut:
		return "timed_out"
	case ResultFailed:
		return "failed"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result - итог одного запроса к status-эндпоинту.
type Result struct {
	Kind       ResultKind
	StatusCode int
	Err        error
}

func OK(code int) Result { return Result{Kind: ResultOK, StatusCode: code} }

func TimedOut(err error) Result { return Result{Kind: ResultTimedOut, Err: err} }

func Failed(err error) Result { return Result{Kind: ResultFailed, Err: err} }

// BuildStatusURL формирует адрес status-эндпоинта для платформы.
func BuildStatusURL(platform string) string {
	return fmt.Sprintf("https://%s.api.riotgames.com/lol/status/v4/platform-data", platform)
}

// CheckStatus делает GET на status-эндпоинт и возвращает только HTTP-код.
// Тело ответа не разбирается.
func (c *Client) CheckStatus(ctx context.Context) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return Failed(err)
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warnw("riot status request timed out", "platform", c.platform, "error", err)
			return TimedOut(err)
		}
		c.logger.Errorw("riot status request failed", "platform", c.platform, "error", err)
		return Failed(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Infow("riot status checked", "platform", c.platform, "status", resp.StatusCode)
	return OK(resp.StatusCode)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
