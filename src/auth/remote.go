package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"autobooks/src/utils/requests"
)

// RemoteVerifier asks the auth server who owns the token.
type RemoteVerifier struct {
	api     *requests.ExternalAPIService
	baseURL string
	apiKey  string
}

func NewRemoteVerifier(api *requests.ExternalAPIService, baseURL, apiKey string) *RemoteVerifier {
	return &RemoteVerifier{api: api, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

func (v *RemoteVerifier) Verify(ctx context.Context, token string) (*Session, error) {
	headers := map[string]string{}
	if v.apiKey != "" {
		headers["apikey"] = v.apiKey
	}

	res, err := v.api.Get(ctx, v.baseURL+"/auth/v1/user", token, nil, headers)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: auth server returned %s", ErrUnauthorized, res.Status)
	}

	var session Session
	if err := json.NewDecoder(res.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode auth user: %w", err)
	}
	if session.UserID == "" {
		return nil, fmt.Errorf("%w: auth server returned no user", ErrUnauthorized)
	}
	return &session, nil
}
