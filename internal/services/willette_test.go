package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andrewwillette/willette/internal/models"
	"github.com/andrewwillette/willette/internal/session"
	"github.com/andrewwillette/willette/internal/shared"
	tu "github.com/andrewwillette/willette/internal/testing"
)

// newRecordingServer serves body with status on every path and records what it receives.
func newRecordingServer(t *testing.T, status int, body string) (*httptest.Server, *tu.RequestLog) {
	t.Helper()
	log := tu.NewRequestLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	srv := httptest.NewServer(log)
	t.Cleanup(srv.Close)
	return srv, log
}

func TestWilletteOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("ListURLs", func(t *testing.T) {
		t.Run("Array Body", func(t *testing.T) {
			srv, log := newRecordingServer(t, http.StatusOK, `[{"url":"b","uiOrder":2},{"url":"a","uiOrder":1}]`)
			api := newTestService(srv.URL, nil, nil)

			_, urls, err := api.ListURLs(ctx)
			if err != nil {
				t.Fatalf("ListURLs() error = %v", err)
			}
			if len(urls) != 2 || urls[0].URL != "b" || urls[1].UIOrder != 1 {
				t.Errorf("expected backend order preserved, got %v", urls)
			}

			req, _ := log.Last(ListURLsEndpoint)
			if req.Method != http.MethodGet || req.HasAuth {
				t.Errorf("expected unauthenticated GET, got %s auth=%v", req.Method, req.HasAuth)
			}
		})

		t.Run("Null Body", func(t *testing.T) {
			srv, _ := newRecordingServer(t, http.StatusOK, `null`)
			api := newTestService(srv.URL, nil, nil)

			resp, urls, err := api.ListURLs(ctx)
			if err != nil {
				t.Fatalf("ListURLs() error = %v", err)
			}
			if urls != nil {
				t.Errorf("expected nil records, got %v", urls)
			}
			if resp == nil || resp.StatusCode != http.StatusOK {
				t.Errorf("expected response to be returned, got %v", resp)
			}
		})

		t.Run("Plain Text Body", func(t *testing.T) {
			srv, _ := newRecordingServer(t, http.StatusInternalServerError, "Failed to get soundcloud urls from service.")
			api := newTestService(srv.URL, nil, nil)

			_, _, err := api.ListURLs(ctx)
			if !errors.Is(err, shared.ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})

		t.Run("Wrong Shape", func(t *testing.T) {
			srv, _ := newRecordingServer(t, http.StatusOK, `{"url":"a"}`)
			api := newTestService(srv.URL, nil, nil)

			_, _, err := api.ListURLs(ctx)
			if !errors.Is(err, shared.ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		tc := []struct {
			name   string
			status int
			body   string
			token  string
		}{
			{"String Token", http.StatusOK, `"tok123"`, "tok123"},
			{"Object Token", http.StatusOK, `{"bearerToken":"tok456"}`, "tok456"},
			{"No Body", http.StatusOK, ``, ""},
			{"Rejected", http.StatusForbidden, `"nope"`, ""},
			{"Unexpected Shape", http.StatusOK, `[1,2]`, ""},
			{"Number Token", http.StatusOK, `12345`, "12345"},
			{"Large Number Token", http.StatusOK, `98765432109876543210`, "98765432109876543210"},
			{"Boolean Token", http.StatusOK, `true`, "true"},
			{"Null Token", http.StatusOK, `null`, ""},
		}

		for _, c := range tc {
			t.Run(c.name, func(t *testing.T) {
				srv, log := newRecordingServer(t, c.status, c.body)
				tokens := session.NewMemoryStore()
				tokens.SetToken("stale")
				api := newTestService(srv.URL, nil, tokens)

				resp, token, err := api.Login(ctx, "andrew", "pw")
				if err != nil {
					t.Fatalf("Login() error = %v", err)
				}
				if resp.StatusCode != c.status {
					t.Errorf("expected status %d, got %d", c.status, resp.StatusCode)
				}
				if token != c.token {
					t.Errorf("expected token %q, got %q", c.token, token)
				}

				req, _ := log.Last(LoginEndpoint)
				if req.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", req.Method)
				}
				if !req.HasAuth || req.Authorization != "" {
					t.Errorf("expected empty Authorization header, got %q", req.Authorization)
				}
				var creds models.Credentials
				if err := json.Unmarshal(req.Body, &creds); err != nil {
					t.Fatalf("failed to decode login body: %v", err)
				}
				if creds.Username != "andrew" || creds.Password != "pw" {
					t.Errorf("unexpected credentials %+v", creds)
				}
			})
		}
	})

	t.Run("Mutations Carry The Stored Token", func(t *testing.T) {
		tc := []struct {
			name     string
			endpoint string
			method   string
			call     func(*APIService) (*APIResponse, error)
			body     string
		}{
			{
				name:     "DeleteURL",
				endpoint: DeleteURLEndpoint,
				method:   http.MethodDelete,
				call:     func(a *APIService) (*APIResponse, error) { return a.DeleteURL(ctx, "u1") },
				body:     `{"url":"u1"}`,
			},
			{
				name:     "AddURL",
				endpoint: AddURLEndpoint,
				method:   http.MethodPut,
				call:     func(a *APIService) (*APIResponse, error) { return a.AddURL(ctx, "u2") },
				body:     `{"url":"u2"}`,
			},
			{
				name:     "UpdateURLs",
				endpoint: UpdateURLsEndpoint,
				method:   http.MethodPut,
				call: func(a *APIService) (*APIResponse, error) {
					return a.UpdateURLs(ctx, []models.SoundcloudURL{{URL: "u3", UIOrder: 5}})
				},
				body: `[{"url":"u3","uiOrder":5}]`,
			},
			{
				name:     "UpdateURLs Nil",
				endpoint: UpdateURLsEndpoint,
				method:   http.MethodPut,
				call:     func(a *APIService) (*APIResponse, error) { return a.UpdateURLs(ctx, nil) },
				body:     `[]`,
			},
		}

		for _, c := range tc {
			t.Run(c.name, func(t *testing.T) {
				srv, log := newRecordingServer(t, http.StatusOK, "done")
				tokens := session.NewMemoryStore()
				tokens.SetToken("tok123")
				api := newTestService(srv.URL, nil, tokens)

				resp, err := c.call(api)
				if err != nil {
					t.Fatalf("%s() error = %v", c.name, err)
				}
				if !resp.OK() {
					t.Errorf("expected OK response, got %d", resp.StatusCode)
				}

				req, ok := log.Last(c.endpoint)
				if !ok {
					t.Fatalf("expected a request to %s", c.endpoint)
				}
				if req.Method != c.method {
					t.Errorf("expected %s, got %s", c.method, req.Method)
				}
				if req.Authorization != "tok123" {
					t.Errorf("expected raw token header, got %q", req.Authorization)
				}
				if string(req.Body) != c.body {
					t.Errorf("expected body %s, got %s", c.body, req.Body)
				}
			})
		}

		t.Run("Without A Token", func(t *testing.T) {
			srv, log := newRecordingServer(t, http.StatusUnauthorized, "Invalid auth token is invalid.")
			api := newTestService(srv.URL, nil, session.NewMemoryStore())

			resp, err := api.DeleteURL(ctx, "u1")
			if err != nil {
				t.Fatalf("DeleteURL() error = %v", err)
			}
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("expected the call to reach the backend, got %d", resp.StatusCode)
			}
			if req, _ := log.Last(DeleteURLEndpoint); !req.HasAuth || req.Authorization != "" {
				t.Errorf("expected empty Authorization header, got %q", req.Authorization)
			}
		})
	})

	t.Run("KeyOfDay", func(t *testing.T) {
		tc := []struct {
			name    string
			body    string
			key     string
			wantErr error
		}{
			{"String", `"F#"`, "F#", nil},
			{"Object", `{"keyOfDay":"Bb"}`, "Bb", nil},
			{"Number", `7`, "", shared.ErrParse},
			{"Not JSON", `F#`, "", shared.ErrParse},
		}

		for _, c := range tc {
			t.Run(c.name, func(t *testing.T) {
				srv, _ := newRecordingServer(t, http.StatusOK, c.body)
				api := newTestService(srv.URL, nil, nil)

				_, key, err := api.KeyOfDay(ctx)
				if c.wantErr != nil {
					if !errors.Is(err, c.wantErr) {
						t.Errorf("expected %v, got %v", c.wantErr, err)
					}
					return
				}
				if err != nil {
					t.Fatalf("KeyOfDay() error = %v", err)
				}
				if key != c.key {
					t.Errorf("expected key %q, got %q", c.key, key)
				}
			})
		}
	})
}
