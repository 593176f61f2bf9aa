package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lms-dashboard/internal/domain"

	"github.com/cenkalti/backoff/v4"
)

const maxErrorBody = 4 << 10

// BackendOptions configures the LMS REST client.
type BackendOptions struct {
	BaseURL  string
	Timeout  time.Duration // per attempt
	Retries  int           // extra attempts for idempotent calls
	Strict   bool          // check list responses against the JSON schemas
	Client   *http.Client
	MinDelay time.Duration // first retry delay, defaults to 200ms
}

// Backend is the HTTP client every LMS repository goes through. It adds the
// bearer token, bounds each attempt with a timeout and retries idempotent
// calls that failed on the network or with 502/503/504.
type Backend struct {
	base     *url.URL
	client   *http.Client
	timeout  time.Duration
	retries  int
	minDelay time.Duration
	contract *ContractChecker
}

func NewBackend(opts BackendOptions) (*Backend, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("backend base URL is empty")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL scheme %q", base.Scheme)
	}

	b := &Backend{
		base:     base,
		client:   opts.Client,
		timeout:  opts.Timeout,
		retries:  opts.Retries,
		minDelay: opts.MinDelay,
	}
	if b.client == nil {
		b.client = &http.Client{}
	}
	if b.timeout <= 0 {
		b.timeout = 10 * time.Second
	}
	if b.retries < 0 {
		b.retries = 0
	}
	if b.minDelay <= 0 {
		b.minDelay = 200 * time.Millisecond
	}
	if opts.Strict {
		b.contract, err = NewContractChecker()
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

type call struct {
	method string
	path   string
	token  string
	body   interface{}
	schema string // contract name checked in strict mode
}

func (c call) idempotent() bool {
	switch c.method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// do runs c and decodes the JSON response into out (which may be nil).
func (b *Backend) do(ctx context.Context, c call, out interface{}) error {
	var payload []byte
	if c.body != nil {
		var err error
		payload, err = json.Marshal(c.body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", c.method, c.path, err)
		}
	}

	var body []byte
	attempt := func() error {
		var err error
		body, err = b.once(ctx, c, payload)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !c.idempotent() || !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = b.minDelay
	policy.MaxElapsedTime = 0
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(b.retries)), ctx)

	err := backoff.RetryNotify(attempt, retry, func(err error, wait time.Duration) {
		slog.Warn("backend call failed, retrying",
			"method", c.method, "path", c.path, "wait", wait, "error", err)
	})
	if err != nil {
		return err
	}

	if b.contract != nil && c.schema != "" {
		if err := b.contract.Check(c.schema, body); err != nil {
			return &domain.APIError{Method: c.method, Path: c.path, Status: http.StatusOK, Message: err.Error(), Err: domain.ErrContract}
		}
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.APIError{Method: c.method, Path: c.path, Status: http.StatusOK, Message: err.Error(), Err: domain.ErrContract}
	}
	return nil
}

func (b *Backend) once(ctx context.Context, c call, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, c.method, b.base.String()+c.path, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", c.method, c.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		// no status code at all: the backend is asleep or unreachable
		return nil, &domain.APIError{Method: c.method, Path: c.path, Err: fmt.Errorf("%w: %v", domain.ErrBackendAsleep, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.APIError{Method: c.method, Path: c.path, Status: resp.StatusCode, Err: fmt.Errorf("%w: reading body: %v", domain.ErrBackendAsleep, err)}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	return nil, &domain.APIError{
		Method:  c.method,
		Path:    c.path,
		Status:  resp.StatusCode,
		Message: errorMessage(body),
		Err:     statusError(resp.StatusCode),
	}
}

// Ping reports whether the backend answers HTTP at all. Any status counts.
func (b *Backend) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.base.String()+"/", nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return &domain.APIError{Method: http.MethodGet, Path: "/", Err: fmt.Errorf("%w: %v", domain.ErrBackendAsleep, err)}
	}
	resp.Body.Close()
	return nil
}

func retryable(err error) bool {
	return errors.Is(err, domain.ErrBackendAsleep) || errors.Is(err, domain.ErrBackendUnavailable)
}

func statusError(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case status == http.StatusForbidden:
		return domain.ErrForbidden
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status >= 500:
		return domain.ErrBackendUnavailable
	default:
		return domain.ErrValidation
	}
}

// errorMessage pulls a human readable message out of an error body. The
// backend uses {"message": ...} and sometimes {"error": ...}.
func errorMessage(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func escape(id string) string {
	return url.PathEscape(id)
}
