package libraries

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// IdentityAdmin talks to the identity provider's admin users endpoint with the
// service key.
type IdentityAdmin struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

func NewIdentityAdmin(baseURL, serviceKey string) (*IdentityAdmin, error) {
	if baseURL == "" || serviceKey == "" {
		return nil, fmt.Errorf("IDENTITY_ADMIN_URL and IDENTITY_SERVICE_KEY are required")
	}
	return &IdentityAdmin{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type identityError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (e identityError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription} {
		if s != "" {
			return s
		}
	}
	return ""
}

// UpdatePassword sets a new password on the account with the given id.
func (a *IdentityAdmin) UpdatePassword(ctx context.Context, userID string, password string) error {
	payload, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, a.baseURL+"/admin/users/"+userID, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.serviceKey)
	req.Header.Set("apikey", a.serviceKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var ie identityError
		_ = json.NewDecoder(resp.Body).Decode(&ie)
		if msg := ie.text(); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("identity admin error %d", resp.StatusCode)
	}
	return nil
}
