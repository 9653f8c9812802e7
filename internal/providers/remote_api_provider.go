package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mepapp/calltrack/internal/constants"
	"mepapp/calltrack/internal/models/dtos"
)

// ProviderError describes a failed call to the remote call log API.
type ProviderError struct {
	Code    string
	Status  int
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code of a ProviderError anywhere in err's chain, or "".
func ErrorCode(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// RemoteAPIProvider talks to the server's call log API on behalf of the device.
type RemoteAPIProvider struct {
	BaseURL string
	Client  *http.Client
}

// NewRemoteAPIProvider creates a provider with a bounded client timeout.
func NewRemoteAPIProvider(baseURL string, timeout time.Duration) *RemoteAPIProvider {
	return &RemoteAPIProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// SubmitCall posts one call record. The server answers with the stored record,
// whether it was created now or already existed.
func (p *RemoteAPIProvider) SubmitCall(ctx context.Context, token string, req dtos.CallLogRequest) (*dtos.CallLogResponse, error) {
	if req.StaffID == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidRequest,
			Message: "staff id cannot be empty",
		}
	}

	var result dtos.CallLogResponse
	if err := p.do(ctx, http.MethodPost, "/api/call-logs", token, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// WhoAmI resolves the identity behind token. Used as the session health probe.
func (p *RemoteAPIProvider) WhoAmI(ctx context.Context, token string) (*dtos.WhoAmIResponse, error) {
	var result dtos.WhoAmIResponse
	if err := p.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping checks that the API answers at all. No token is required.
func (p *RemoteAPIProvider) Ping(ctx context.Context) error {
	var result dtos.PingResponse
	return p.do(ctx, http.MethodGet, "/api/call-logs/ping", "", nil, &result)
}

// do sends a request and decodes the data field of the response envelope into result.
func (p *RemoteAPIProvider) do(ctx context.Context, method, endpoint, token string, payload interface{}, result interface{}) error {
	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return &ProviderError{
				Code:    constants.ErrCodeInvalidRequest,
				Message: "Failed to marshal request body",
				Err:     err,
			}
		}
		body = bytes.NewReader(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+endpoint, body)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Status:  resp.StatusCode,
			Message: "Failed to read response body",
			Err:     readErr,
		}
	}

	var envelope struct {
		dtos.APIResponse
		Data json.RawMessage `json:"data"`
	}
	decodeErr := json.Unmarshal(bodyBytes, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return buildHTTPError(resp.StatusCode, endpoint, envelope.Code, envelope.Message, string(bodyBytes))
	}

	if decodeErr != nil {
		return &ProviderError{
			Code:    constants.ErrCodeDecodeError,
			Status:  resp.StatusCode,
			Message: "Failed to decode response",
			Details: string(bodyBytes),
			Err:     decodeErr,
		}
	}
	if result == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeDecodeError,
			Status:  resp.StatusCode,
			Message: "Failed to decode response data",
			Details: string(envelope.Data),
			Err:     err,
		}
	}
	return nil
}

// buildHTTPError creates appropriate error based on status code. A code sent
// by the server takes precedence.
func buildHTTPError(statusCode int, endpoint, code, message, body string) error {
	pe := &ProviderError{
		Code:    code,
		Status:  statusCode,
		Message: message,
		Details: body,
	}
	if pe.Message == "" {
		pe.Message = fmt.Sprintf("HTTP %d from %s", statusCode, endpoint)
	}
	if pe.Code != "" {
		return pe
	}

	switch statusCode {
	case http.StatusUnauthorized:
		pe.Code = constants.ErrCodeUnauthorized
	case http.StatusForbidden:
		pe.Code = constants.ErrCodeForbidden
	case http.StatusNotFound:
		pe.Code = constants.ErrCodeNotFound
	case http.StatusTooManyRequests:
		pe.Code = constants.ErrCodeRateLimited
	case http.StatusBadRequest:
		pe.Code = constants.ErrCodeInvalidRequest
	default:
		pe.Code = constants.ErrCodeServerError
	}
	return pe
}
