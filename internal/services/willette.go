package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/andrewwillette/willette/internal/models"
	"github.com/andrewwillette/willette/internal/shared"
)

// Backend endpoints.
const (
	ListURLsEndpoint   = "/get-soundcloud-urls"
	AddURLEndpoint     = "/add-soundcloud-url"
	DeleteURLEndpoint  = "/delete-soundcloud-url"
	UpdateURLsEndpoint = "/update-soundcloud-urls"
	KeyOfDayEndpoint   = "/keyOfDay"
	LoginEndpoint      = "/login"
)

// ListURLs fetches every persisted soundcloud URL in backend order.
//
// A JSON null body yields a nil slice with no error.
func (a *APIService) ListURLs(ctx context.Context) (*APIResponse, []models.SoundcloudURL, error) {
	resp, err := a.Request(ctx, ListURLsEndpoint, nil, http.MethodGet, "")
	if err != nil {
		return nil, nil, err
	}

	var urls []models.SoundcloudURL
	if err := resp.Decode(&urls); err != nil {
		return resp, nil, err
	}
	return resp, urls, nil
}

// Login posts credentials and returns the issued token, or "" when the response carried none.
//
// The backend answers with the token as a JSON string; the {"bearerToken": ...} object form is accepted too,
// and a number or boolean is kept as its JSON text.
func (a *APIService) Login(ctx context.Context, username, password string) (*APIResponse, string, error) {
	a.logger.Info("calling login", "username", username)

	creds := models.Credentials{Username: username, Password: password}
	resp, err := a.Request(ctx, LoginEndpoint, creds, http.MethodPost, "")
	if err != nil {
		return nil, "", err
	}
	return resp, decodeToken(resp.ParsedBody), nil
}

func decodeToken(body json.RawMessage) string {
	if body == nil {
		return ""
	}
	var token string
	if err := json.Unmarshal(body, &token); err == nil {
		return token
	}
	var obj models.BearerToken
	if err := json.Unmarshal(body, &obj); err == nil {
		return obj.BearerToken
	}

	// other scalars are kept in their textual form
	var value any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return ""
	}
	switch v := value.(type) {
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// DeleteURL asks the backend to remove url, authorized by the stored token.
func (a *APIService) DeleteURL(ctx context.Context, url string) (*APIResponse, error) {
	a.logger.Info("calling delete url", "url", url)
	return a.Request(ctx, DeleteURLEndpoint, models.URLBody{URL: url}, http.MethodDelete, a.token())
}

// AddURL asks the backend to persist url, authorized by the stored token.
func (a *APIService) AddURL(ctx context.Context, url string) (*APIResponse, error) {
	a.logger.Info("calling add url", "url", url)
	return a.Request(ctx, AddURLEndpoint, models.URLBody{URL: url}, http.MethodPut, a.token())
}

// UpdateURLs sends the full record list so the backend can store every uiOrder.
func (a *APIService) UpdateURLs(ctx context.Context, urls []models.SoundcloudURL) (*APIResponse, error) {
	a.logger.Info("calling update urls", "count", len(urls))
	if urls == nil {
		urls = []models.SoundcloudURL{}
	}
	return a.Request(ctx, UpdateURLsEndpoint, urls, http.MethodPut, a.token())
}

// KeyOfDay fetches today's key. The backend sends a JSON string; an object with a keyOfDay field is accepted too.
func (a *APIService) KeyOfDay(ctx context.Context) (*APIResponse, string, error) {
	resp, err := a.Request(ctx, KeyOfDayEndpoint, nil, http.MethodGet, "")
	if err != nil {
		return nil, "", err
	}

	var key string
	if err := json.Unmarshal(resp.ParsedBody, &key); err == nil {
		return resp, key, nil
	}
	var obj struct {
		KeyOfDay string `json:"keyOfDay"`
	}
	if err := json.Unmarshal(resp.ParsedBody, &obj); err == nil && obj.KeyOfDay != "" {
		return resp, obj.KeyOfDay, nil
	}
	return resp, "", fmt.Errorf("%w: unexpected key of day body %s", shared.ErrParse, string(resp.ParsedBody))
}
