package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type capturedRequest struct {
	method string
	path   string
	auth   string
	body   []byte
}

func newAPIServer(t *testing.T, status int) (*httptest.Server, *capturedRequest) {
	t.Helper()
	got := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		got.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		if status/100 != 2 {
			_, _ = w.Write([]byte(`{"message":"Missing Access"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func newAPIClient(srv *httptest.Server) *Client {
	return New(Config{Token: "bot-token", APIBase: srv.URL}, zap.NewNop().Sugar())
}

func TestRespondInteraction(t *testing.T) {
	srv, got := newAPIServer(t, http.StatusNoContent)
	c := newAPIClient(srv)

	if err := c.RespondInteraction(context.Background(), "123", "tok", "hello", true); err != nil {
		t.Fatal(err)
	}
	if got.method != http.MethodPost || got.path != "/interactions/123/tok/callback" {
		t.Fatalf("got %s %s", got.method, got.path)
	}
	if got.auth != "Bot bot-token" {
		t.Fatalf("auth: %q", got.auth)
	}

	var body interactionResponse
	if err := json.Unmarshal(got.body, &body); err != nil {
		t.Fatal(err)
	}
	if body.Type != 4 || body.Data.Content != "hello" || body.Data.Flags != 64 {
		t.Fatalf("body: %+v", body)
	}

	if err := c.RespondInteraction(context.Background(), "123", "tok", "hello", false); err != nil {
		t.Fatal(err)
	}
	body = interactionResponse{}
	_ = json.Unmarshal(got.body, &body)
	if body.Data.Flags != 0 {
		t.Fatalf("public reply must not carry flags: %+v", body)
	}
}

func TestSendMessage(t *testing.T) {
	srv, got := newAPIServer(t, http.StatusOK)
	c := newAPIClient(srv)

	if err := c.SendMessage(context.Background(), "chan1", "text", "msg9"); err != nil {
		t.Fatal(err)
	}
	if got.method != http.MethodPost || got.path != "/channels/chan1/messages" {
		t.Fatalf("got %s %s", got.method, got.path)
	}
	var body messageCreate
	if err := json.Unmarshal(got.body, &body); err != nil {
		t.Fatal(err)
	}
	if body.Content != "text" || body.MessageReference == nil || body.MessageReference.MessageID != "msg9" {
		t.Fatalf("body: %s", got.body)
	}
}

func TestOverwriteCommands(t *testing.T) {
	cmds := []ApplicationCommand{{Name: "riotcheck", Description: "d", Type: CommandTypeChatInput}}
	cases := []struct {
		guild string
		want  string
	}{
		{"", "/applications/app1/commands"},
		{"g1", "/applications/app1/guilds/g1/commands"},
	}
	for _, tc := range cases {
		srv, got := newAPIServer(t, http.StatusOK)
		c := newAPIClient(srv)
		if err := c.OverwriteCommands(context.Background(), "app1", tc.guild, cmds); err != nil {
			t.Fatal(err)
		}
		if got.method != http.MethodPut || got.path != tc.want {
			t.Fatalf("guild %q: got %s %s", tc.guild, got.method, got.path)
		}
		var body []ApplicationCommand
		if err := json.Unmarshal(got.body, &body); err != nil {
			t.Fatal(err)
		}
		if len(body) != 1 || body[0].Name != "riotcheck" {
			t.Fatalf("body: %s", got.body)
		}
	}
}

func TestAPIError(t *testing.T) {
	srv, _ := newAPIServer(t, http.StatusForbidden)
	c := newAPIClient(srv)

	err := c.SendMessage(context.Background(), "chan1", "text", "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %v want *APIError", err)
	}
	if apiErr.Status != http.StatusForbidden {
		t.Fatalf("status: %d", apiErr.Status)
	}
}

func TestDeferAndEditInteraction(t *testing.T) {
	srv, got := newAPIServer(t, http.StatusOK)
	c := newAPIClient(srv)

	if err := c.DeferInteraction(context.Background(), "123", "tok", true); err != nil {
		t.Fatal(err)
	}
	if got.method != http.MethodPost || got.path != "/interactions/123/tok/callback" {
		t.Fatalf("defer: got %s %s", got.method, got.path)
	}
	var body map[string]any
	if err := json.Unmarshal(got.body, &body); err != nil {
		t.Fatal(err)
	}
	data, _ := body["data"].(map[string]any)
	if body["type"] != float64(5) || data["flags"] != float64(64) {
		t.Fatalf("defer body: %s", got.body)
	}
	if _, ok := data["content"]; ok {
		t.Fatalf("deferred response must not carry content: %s", got.body)
	}

	if err := c.EditInteractionResponse(context.Background(), "app1", "tok", "done"); err != nil {
		t.Fatal(err)
	}
	if got.method != http.MethodPatch || got.path != "/webhooks/app1/tok/messages/@original" {
		t.Fatalf("edit: got %s %s", got.method, got.path)
	}
	if string(got.body) != `{"content":"done"}` {
		t.Fatalf("edit body: %s", got.body)
	}
}

// rateLimitedServer отвечает 429 первые limited раз, дальше 204.
func rateLimitedServer(t *testing.T, limited int32, header, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		if calls.Add(1) <= limited {
			if header != "" {
				w.Header().Set("Retry-After", header)
			}
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(body))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestRetryOnRateLimit(t *testing.T) {
	cases := []struct {
		name   string
		header string
		body   string
	}{
		{"header", "0.05", `{"message":"You are being rate limited.","global":false}`},
		{"body", "", `{"message":"You are being rate limited.","retry_after":0.05,"global":false}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, calls := rateLimitedServer(t, 1, tc.header, tc.body)
			c := newAPIClient(srv)

			if err := c.RespondInteraction(context.Background(), "i1", "tok", "hello", true); err != nil {
				t.Fatalf("reply lost after 429: %v", err)
			}
			if calls.Load() != 2 {
				t.Fatalf("requests: got %d want 2", calls.Load())
			}
		})
	}
}

func TestRateLimitRetriedOnce(t *testing.T) {
	srv, calls := rateLimitedServer(t, 10, "0.01", `{"retry_after":0.01}`)
	c := newAPIClient(srv)

	err := c.SendMessage(context.Background(), "chan1", "text", "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusTooManyRequests {
		t.Fatalf("got %v want 429 *APIError", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("requests: got %d want 2", calls.Load())
	}
}

func TestRateLimitWaitStopsOnContext(t *testing.T) {
	srv, calls := rateLimitedServer(t, 10, "3", "")
	c := newAPIClient(srv)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := c.SendMessage(ctx, "chan1", "text", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if time.Since(start) > time.Second {
		t.Fatalf("waited %s past context deadline", time.Since(start))
	}
	if calls.Load() != 1 {
		t.Fatalf("requests: got %d want 1", calls.Load())
	}
}

func TestRetryAfter(t *testing.T) {
	cases := []struct {
		header string
		body   string
		want   time.Duration
	}{
		{"1.5", "", 1500 * time.Millisecond},
		{"", `{"retry_after":0.25}`, 250 * time.Millisecond},
		{"2", `{"retry_after":0.25}`, 2 * time.Second},
		{"", "", 0},
		{"", "not json", 0},
		{"60", "", 0}, // дольше maxRetryAfter
		{"-1", "", 0},
	}
	for _, tc := range cases {
		if got := retryAfter(tc.header, []byte(tc.body)); got != tc.want {
			t.Errorf("retryAfter(%q, %q) = %s want %s", tc.header, tc.body, got, tc.want)
		}
	}
}
