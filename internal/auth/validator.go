package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Validator is the external credential gate: a single boolean check used
// before state-mutating character operations.
type Validator interface {
	IsValid(ctx context.Context, source, password string) (bool, error)
}

// HTTPValidator calls the credential service over REST.
type HTTPValidator struct {
	url   string
	httpc *http.Client
}

func NewHTTPValidator(url string) *HTTPValidator {
	return &HTTPValidator{url: url, httpc: &http.Client{}}
}

type validateRequest struct {
	Source   string `json:"source"`
	Password string `json:"password"`
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

func (v *HTTPValidator) IsValid(ctx context.Context, source, password string) (bool, error) {
	raw, err := json.Marshal(validateRequest{Source: source, Password: password})
	if err != nil {
		return false, fmt.Errorf("marshal validate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(raw))
	if err != nil {
		return false, fmt.Errorf("build validate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpc.Do(req)
	if err != nil {
		return false, fmt.Errorf("validate request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("validate service returned %d", resp.StatusCode)
	}

	var out validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode validate response: %w", err)
	}
	return out.Valid, nil
}

// AllowAll пропускает всё; используется когда gate не сконфигурирован.
type AllowAll struct{}

func (AllowAll) IsValid(ctx context.Context, source, password string) (bool, error) {
	return true, nil
}
