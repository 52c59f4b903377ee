package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Short connect timeout bounds how long the streaming attempt can delay
	// the unary fallback
	streamConnectTimeout = 5 * time.Second
	// Unary timeout reflects full LLM generation latency
	unaryTimeout = 90 * time.Second
)

// Message is one chat turn in a generation request
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the JSON envelope sent to the generation backend, identical for
// the streaming and unary channels.
type Request struct {
	Type     string    `json:"type"`
	Messages []Message `json:"messages"`
	RepoURL  string    `json:"repo_url"`
	Model    string    `json:"model"`
}

// Client talks to the generation backend, preferring a persistent websocket
// stream and falling back to a one-shot HTTP call when the stream cannot be
// established. Callers only see the full response text.
type Client struct {
	baseURL    string
	httpClient *http.Client
	dialer     *websocket.Dialer
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: unaryTimeout,
		},
		dialer: &websocket.Dialer{
			HandshakeTimeout: streamConnectTimeout,
		},
	}
}

// Ask sends the request and returns the complete response text. The request
// is sent at most once per channel: any failure of the streaming channel,
// whether connecting or mid-stream, degrades to one unary call; only a failure
// of the unary call itself surfaces to the caller.
func (c *Client) Ask(ctx context.Context, req *Request) (string, error) {
	text, err := c.askStream(ctx, req)
	if err == nil {
		return text, nil
	}
	if !isConnectionError(err) {
		return "", err
	}

	slog.Warn("websocket unavailable, falling back to HTTP API", "error", err)
	return c.askUnary(ctx, req)
}

// connectionError marks streaming-channel failures the unary call can recover
// from, as opposed to failures of the unary call itself.
type connectionError struct {
	err error
}

func (e *connectionError) Error() string { return e.err.Error() }
func (e *connectionError) Unwrap() error { return e.err }

func isConnectionError(err error) bool {
	var ce *connectionError
	return errors.As(err, &ce)
}

func (c *Client) askStream(ctx context.Context, req *Request) (string, error) {
	// http -> ws, https -> wss
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/ws/chat"

	dialCtx, cancel := context.WithTimeout(ctx, streamConnectTimeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(dialCtx, wsURL, nil)
	if err != nil {
		return "", &connectionError{fmt.Errorf("websocket connect failed: %w", err)}
	}
	defer conn.Close()
	slog.Info("websocket connection established")

	if err := conn.WriteJSON(req); err != nil {
		return "", &connectionError{fmt.Errorf("websocket send failed: %w", err)}
	}

	// Concatenate every message until the backend closes the stream. A
	// mid-stream failure (reset, abnormal close) discards the partial text and
	// degrades to the unary channel.
	var parts strings.Builder
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || err == io.EOF {
				break
			}
			return "", &connectionError{fmt.Errorf("websocket stream failed: %w", err)}
		}
		parts.Write(message)
	}

	slog.Info("received response from websocket")
	return parts.String(), nil
}

func (c *Client) askUnary(ctx context.Context, req *Request) (string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat/stream", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("generation backend returned status %d: %s", resp.StatusCode, string(body))
	}

	return string(body), nil
}
