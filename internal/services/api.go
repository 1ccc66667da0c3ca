// API service for making raw HTTP requests to the willette backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/andrewwillette/willette/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// TokenSource supplies the bearer token attached to mutating calls.
//
// [session.Store] satisfies it.
type TokenSource interface {
	Token() string
}

// APIService provides methods for making raw HTTP requests to the willette backend.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	logger     *log.Logger
}

// APIServiceOpts contains optional dependencies for [NewAPIService].
type APIServiceOpts struct {
	HTTPClient *http.Client
	Tokens     TokenSource
	Limiter    *rate.Limiter // nil disables throttling
	Logger     *log.Logger
}

// NewAPIService creates a new API service instance for the backend at baseURL.
func NewAPIService(baseURL string, opts APIServiceOpts) *APIService {
	if baseURL == "" {
		baseURL = shared.LocalBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: opts.HTTPClient,
		tokens:     opts.Tokens,
		limiter:    opts.Limiter,
		logger:     opts.Logger,
	}
}

// NewLimiter returns a token bucket allowing perSecond requests with the given burst, or nil when perSecond is not positive.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// SetLogger replaces the logger used for request logging.
func (a *APIService) SetLogger(l *log.Logger) {
	a.logger = l
}

// APIResponse represents a raw API response with status and body.
//
// ParsedBody holds the body when it is valid JSON and nil otherwise; callers treat nil as "no usable body"
// even when the status is a success.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	ParsedBody json.RawMessage
	RequestID  string
}

// OK reports whether the backend accepted the call (200 or 201).
func (r *APIResponse) OK() bool {
	return r.StatusCode == http.StatusOK || r.StatusCode == http.StatusCreated
}

// HasBody reports whether the response carried a usable JSON body.
func (r *APIResponse) HasBody() bool {
	return r.ParsedBody != nil
}

// Decode unmarshals the parsed body into v.
func (r *APIResponse) Decode(v any) error {
	if r.ParsedBody == nil {
		return fmt.Errorf("%w: no body", shared.ErrParse)
	}
	if err := json.Unmarshal(r.ParsedBody, v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrParse, err)
	}
	return nil
}

// Request is the single primitive every backend call goes through.
//
// With a non-nil body the value is JSON encoded and sent with method, a JSON content type and
// authHeader as the Authorization header (empty is allowed). Only 200 and 201 responses are parsed,
// and a body that is not JSON is logged and dropped rather than returned as an error.
//
// With a nil body a plain GET is issued regardless of method and authHeader, and a response that is
// not JSON is an error wrapping [shared.ErrParse] whatever its status.
//
// Transport failures wrap [shared.ErrTransport]. Nothing is retried.
func (a *APIService) Request(ctx context.Context, endpoint string, body any, method, authHeader string) (*APIResponse, error) {
	requestID := shared.GenerateID()
	logger := shared.WithLogger(a.logger, "request_id", requestID, "endpoint", endpoint)

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %w", shared.ErrTransport, err)
		}
	}

	fullURL := a.baseURL + endpoint

	var req *http.Request
	var err error
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode request body: %v", shared.ErrInvalidInput, err)
		}

		req, err = http.NewRequestWithContext(ctx, method, fullURL, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "*/*")
		req.Header.Set("Authorization", authHeader)
	} else {
		method = http.MethodGet
		req, err = http.NewRequestWithContext(ctx, method, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
	}
	req.Header.Set("X-Request-Id", requestID)

	logger.Debug("sending request", "method", method)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		logger.Warn("http call failed", "error", err)
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrTransport, err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
		RequestID:  requestID,
	}
	logger.Debug("received response", "status", resp.StatusCode, "bytes", len(respBody))

	if body == nil {
		if !json.Valid(respBody) {
			return nil, fmt.Errorf("%w: %s returned status %d", shared.ErrParse, endpoint, resp.StatusCode)
		}
		apiResp.ParsedBody = respBody
		return apiResp, nil
	}

	if apiResp.OK() {
		if json.Valid(respBody) {
			apiResp.ParsedBody = respBody
		} else {
			logger.Warn("response body is not JSON, ignoring", "status", resp.StatusCode)
		}
	}

	return apiResp, nil
}

// Get performs a GET request to the specified path.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.Request(ctx, path, nil, http.MethodGet, "")
}

// Post performs a POST request with the given JSON data, attaching the stored token.
func (a *APIService) Post(ctx context.Context, path string, data json.RawMessage) (*APIResponse, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: data is not valid JSON", shared.ErrInvalidInput)
	}
	return a.Request(ctx, path, data, http.MethodPost, a.token())
}

func (a *APIService) token() string {
	if a.tokens == nil {
		return ""
	}
	return a.tokens.Token()
}
