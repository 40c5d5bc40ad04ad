// Package api is the single HTTP boundary of the console. Every call comes
// back as an Envelope: transport failures, timeouts and non-2xx statuses
// are converted into failure envelopes here, never surfaced as errors to
// call sites. Callers only branch on Envelope.Success.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/marcostaira/drgestao-admcli/pkg/logger"
)

const (
	DefaultTimeout      = 30 * time.Second
	defaultRetryWaitMax = 5 * time.Second

	msgTimeout    = "Tempo limite da requisição excedido"
	msgConnection = "Erro de conexão com a API"
	msgEncode     = "Erro ao preparar a requisição"
	msgRead       = "Erro ao ler a resposta da API"
)

// TokenSource supplies the bearer token attached to outgoing requests. An
// empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

type Envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

type Client struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	tokens  TokenSource
}

func NewClient(baseURL string, timeout time.Duration, retryAttempts int, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryAttempts
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.Logger = nil

	// Retry transport failures only. An HTTP error status is a definitive
	// answer from the server and must reach the caller as-is.
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}

		return false, nil
	}

	return &Client{
		client:  retryClient.StandardClient(),
		baseURL: baseURL,
		timeout: timeout,
		tokens:  tokens,
	}
}

func (c *Client) Get(ctx context.Context, endpoint string) Envelope {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) Post(ctx context.Context, endpoint string, body any) Envelope {
	return c.do(ctx, http.MethodPost, endpoint, body)
}

func (c *Client) Put(ctx context.Context, endpoint string, body any) Envelope {
	return c.do(ctx, http.MethodPut, endpoint, body)
}

func (c *Client) Delete(ctx context.Context, endpoint string) Envelope {
	return c.do(ctx, http.MethodDelete, endpoint, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any) Envelope {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return failure(msgEncode)
		}

		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return failure(msgConnection)
	}

	requestID := uuid.Must(uuid.NewV4()).String()
	ctx = logger.SetRequestID(ctx, requestID)

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-Request-ID", requestID)

	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	slog.DebugContext(ctx, "api request", "method", method, "endpoint", endpoint)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			slog.WarnContext(ctx, "api request timed out", "endpoint", endpoint)
			return failure(msgTimeout)
		}

		slog.ErrorContext(ctx, "api request failed", "endpoint", endpoint, "error", err.Error())

		return failure(msgConnection)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(msgRead)
	}

	slog.DebugContext(ctx, "api response", "endpoint", endpoint, "status", resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errorEnvelope(resp.StatusCode, respBody)
	}

	return successEnvelope(respBody)
}

type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// errorEnvelope parses a non-2xx body tolerantly. An unparsable body is
// treated as an empty object: the status line alone becomes the message.
func errorEnvelope(status int, body []byte) Envelope {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		parsed = errorBody{}
	}

	message := parsed.Message
	if message == "" {
		message = fmt.Sprintf("Erro %d: %s", status, http.StatusText(status))
	}

	errs := parsed.Errors
	if errs == nil {
		errs = map[string][]string{}
	}

	return Envelope{Success: false, Message: message, Errors: errs}
}

func successEnvelope(body []byte) Envelope {
	env := Envelope{Success: true}

	if len(body) == 0 {
		return env
	}

	env.Data = json.RawMessage(body)

	// surface a top-level message field when the payload carries one
	var withMessage struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(body, &withMessage); err == nil {
		env.Message = withMessage.Message
	}

	return env
}

func failure(message string) Envelope {
	return Envelope{Success: false, Message: message}
}

// CallError carries a failure envelope's message and field errors across
// the typed client boundary. It still is a value, not a thrown exception:
// callers branch on it like any Go error.
type CallError struct {
	Message string
	Fields  map[string][]string
}

func (e *CallError) Error() string { return e.Message }

// Decode unmarshals an envelope's payload into T. A failure envelope
// decodes to the zero value and reports the envelope's message and field
// errors as a *CallError.
func Decode[T any](env Envelope) (T, error) {
	var out T

	if !env.Success {
		return out, &CallError{Message: env.Message, Fields: env.Errors}
	}

	if len(env.Data) == 0 {
		return out, nil
	}

	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}

	return out, nil
}
