package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/userfront/userfront/client/internal/types"
)

// ListUsers fetches the user collection. A body that is not a JSON array is
// reported as an empty collection rather than an error.
func ListUsers(ctx context.Context, httpClient HTTPClient, baseURL string) ([]types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/users", nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	doc, err := doJSON(httpClient, httpReq, "list users")
	if err != nil {
		return nil, err
	}
	users, ok := types.ToUsers(doc)
	if !ok {
		log.Warn().Str("kind", kindOf(doc)).Msg("list users: response is not an array, returning no users")
	}
	return users, nil
}

// GetUser retrieves a user by ID.
func GetUser(ctx context.Context, httpClient HTTPClient, baseURL, userID string) (*types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Client-side validation removed; server is the authority
	u := fmt.Sprintf("%s/users/%s", baseURL, url.PathEscape(userID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	doc, err := doJSON(httpClient, httpReq, "get user")
	if err != nil {
		return nil, err
	}
	raw, _ := doc.(map[string]any)
	user := types.ToUser(raw)
	return &user, nil
}

// CreateUser posts a new user and returns the record the server stored,
// including its server-assigned ID.
func CreateUser(ctx context.Context, httpClient HTTPClient, baseURL string, req types.NewUser) (*types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/users", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	doc, err := doJSON(httpClient, httpReq, "create user")
	if err != nil {
		return nil, err
	}
	raw, _ := doc.(map[string]any)
	user := types.ToUser(raw)
	return &user, nil
}
