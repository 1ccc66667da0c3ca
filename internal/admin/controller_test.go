package admin

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andrewwillette/willette/internal/models"
	"github.com/andrewwillette/willette/internal/server"
	"github.com/andrewwillette/willette/internal/services"
	"github.com/andrewwillette/willette/internal/session"
	"github.com/andrewwillette/willette/internal/shared"
	tu "github.com/andrewwillette/willette/internal/testing"
)

type fixture struct {
	backend    *server.Backend
	requests   *tu.RequestLog
	store      *session.MemoryStore
	controller *Controller
}

func newFixture(t *testing.T, urls ...models.SoundcloudURL) *fixture {
	t.Helper()
	logger := shared.NewLogger(io.Discard)
	backend := server.NewBackend(server.BackendOpts{
		Username: "andrew",
		Password: "fiddle",
		URLs:     urls,
		Logger:   logger,
	})
	return newFixtureWithHandler(t, backend, server.NewHandler(backend))
}

func newFixtureWithHandler(t *testing.T, backend *server.Backend, handler http.Handler) *fixture {
	t.Helper()
	logger := shared.NewLogger(io.Discard)
	requests := tu.NewRequestLog(handler)
	srv := httptest.NewServer(requests)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	api := services.NewAPIService(srv.URL, services.APIServiceOpts{Tokens: store, Logger: logger})
	return &fixture{
		backend:    backend,
		requests:   requests,
		store:      store,
		controller: NewController(api, store, logger),
	}
}

func newFailingController(t *testing.T) (*Controller, *session.MemoryStore) {
	t.Helper()
	logger := shared.NewLogger(io.Discard)
	client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
	store := session.NewMemoryStore()
	api := services.NewAPIService("http://unreachable", services.APIServiceOpts{
		HTTPClient: client,
		Tokens:     store,
		Logger:     logger,
	})
	return NewController(api, store, logger), store
}

func urls(pairs ...any) []models.SoundcloudURL {
	var out []models.SoundcloudURL
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, models.SoundcloudURL{URL: pairs[i].(string), UIOrder: models.Order(pairs[i+1].(int))})
	}
	return out
}

func recordURLs(s State) []string {
	var out []string
	for _, r := range s.Records {
		out = append(out, r.URL)
	}
	return out
}

func TestController(t *testing.T) {
	ctx := context.Background()

	t.Run("Refresh", func(t *testing.T) {
		t.Run("Sorts Ascending", func(t *testing.T) {
			f := newFixture(t, urls("c", 3, "a", 1, "b", 2)...)

			s := f.controller.Drive(ctx, State{}, RefreshMsg{})

			got := recordURLs(s)
			if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
				t.Errorf("expected [a b c], got %v", got)
			}
			if s.Err != nil {
				t.Errorf("expected no error, got %v", s.Err)
			}
		})

		t.Run("Is Idempotent", func(t *testing.T) {
			f := newFixture(t, urls("b", 2, "a", 1)...)

			first := f.controller.Drive(ctx, State{}, RefreshMsg{})
			second := f.controller.Drive(ctx, first, RefreshMsg{})

			if len(first.Records) != len(second.Records) {
				t.Fatalf("expected equal lengths, got %d and %d", len(first.Records), len(second.Records))
			}
			for i := range first.Records {
				if first.Records[i] != second.Records[i] {
					t.Errorf("record %d differs: %v vs %v", i, first.Records[i], second.Records[i])
				}
			}
			if f.requests.Count(services.ListURLsEndpoint) != 2 {
				t.Errorf("expected two list calls, got %d", f.requests.Count(services.ListURLsEndpoint))
			}
		})

		t.Run("Null Body Clears Records Without Banner", func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("null"))
			})
			f := newFixtureWithHandler(t, nil, handler)

			s := f.controller.Drive(ctx, State{Records: urls("a", 1)}, RefreshMsg{})

			if s.Records != nil {
				t.Errorf("expected nil records, got %v", s.Records)
			}
			if s.Banner().Kind != BannerNone {
				t.Errorf("expected no banner, got %v", s.Banner())
			}
		})

		t.Run("Transport Error Keeps Records", func(t *testing.T) {
			controller, _ := newFailingController(t)
			before := State{Records: urls("a", 1)}

			s := controller.Drive(ctx, before, RefreshMsg{})

			if !errors.Is(s.Err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", s.Err)
			}
			if len(s.Records) != 1 || s.Records[0].URL != "a" {
				t.Errorf("expected records to be kept, got %v", s.Records)
			}
		})

		t.Run("Parse Error Keeps Records", func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Failed to get soundcloud urls from service."))
			})
			f := newFixtureWithHandler(t, nil, handler)

			s := f.controller.Drive(ctx, State{Records: urls("a", 1)}, RefreshMsg{})

			if !errors.Is(s.Err, shared.ErrParse) {
				t.Errorf("expected ErrParse, got %v", s.Err)
			}
			if len(s.Records) != 1 {
				t.Errorf("expected records to be kept, got %v", s.Records)
			}
		})
	})

	t.Run("EditOrder", func(t *testing.T) {
		controller, _ := newFailingController(t)
		base := State{Records: urls("a", 1, "b", 2)}

		tc := []struct {
			name  string
			url   string
			value string
			want  []models.Order
		}{
			{"Integer", "b", "5", []models.Order{1, 5}},
			{"Empty Is Zero", "a", "", []models.Order{0, 2}},
			{"Hex", "a", "0x10", []models.Order{16, 2}},
			{"Unknown URL", "z", "9", []models.Order{1, 2}},
		}

		for _, c := range tc {
			t.Run(c.name, func(t *testing.T) {
				s, cmd := controller.Update(ctx, base, EditOrderMsg{URL: c.url, Value: c.value})
				if cmd != nil {
					t.Error("expected edit to issue no command")
				}
				for i, want := range c.want {
					if s.Records[i].UIOrder != want {
						t.Errorf("record %d: expected %v, got %v", i, want, s.Records[i].UIOrder)
					}
				}
				if base.Records[0].UIOrder != 1 || base.Records[1].UIOrder != 2 {
					t.Error("expected the previous state to be left untouched")
				}
			})
		}

		t.Run("Non Numeric Is NaN", func(t *testing.T) {
			s, _ := controller.Update(ctx, base, EditOrderMsg{URL: "a", Value: "abc"})
			if !s.Records[0].UIOrder.NaN() {
				t.Errorf("expected NaN, got %v", s.Records[0].UIOrder)
			}
		})

		t.Run("Does Not Reorder", func(t *testing.T) {
			s, _ := controller.Update(ctx, base, EditOrderMsg{URL: "a", Value: "10"})
			if got := recordURLs(s); got[0] != "a" || got[1] != "b" {
				t.Errorf("expected display order to hold until the next fetch, got %v", got)
			}
		})
	})

	t.Run("Save", func(t *testing.T) {
		t.Run("Sends Edited Order As A Number", func(t *testing.T) {
			f := newFixture(t, urls("a", 1, "b", 2)...)

			s := f.controller.Drive(ctx, State{}, RefreshMsg{})
			s = f.controller.Drive(ctx, s, EditOrderMsg{URL: "b", Value: "5"})
			s = f.controller.Drive(ctx, s, SaveMsg{})

			req, ok := f.requests.Last(services.UpdateURLsEndpoint)
			if !ok {
				t.Fatal("expected an update call")
			}
			want := `[{"url":"a","uiOrder":1},{"url":"b","uiOrder":5}]`
			if string(req.Body) != want {
				t.Errorf("expected body %s, got %s", want, req.Body)
			}
			if s.SaveStatus != http.StatusOK {
				t.Errorf("expected save status 200, got %d", s.SaveStatus)
			}
			if f.requests.Count(services.ListURLsEndpoint) != 1 {
				t.Errorf("expected no re-fetch after save, got %d list calls", f.requests.Count(services.ListURLsEndpoint))
			}
			if f.backend.URLs()[1].UIOrder != 5 {
				t.Errorf("expected backend to store 5, got %v", f.backend.URLs()[1].UIOrder)
			}
		})

		t.Run("NaN Is Sent As Null", func(t *testing.T) {
			f := newFixture(t, urls("a", 1)...)

			s := f.controller.Drive(ctx, State{}, RefreshMsg{})
			s = f.controller.Drive(ctx, s, EditOrderMsg{URL: "a", Value: "abc"})
			f.controller.Drive(ctx, s, SaveMsg{})

			req, _ := f.requests.Last(services.UpdateURLsEndpoint)
			if string(req.Body) != `[{"url":"a","uiOrder":null}]` {
				t.Errorf("expected null uiOrder, got %s", req.Body)
			}
		})

		t.Run("Nothing Loaded", func(t *testing.T) {
			f := newFixture(t)

			s, cmd := f.controller.Update(ctx, State{}, SaveMsg{})
			if cmd != nil {
				t.Error("expected no command without records")
			}
			if s.SaveStatus != 0 {
				t.Errorf("expected no save status, got %d", s.SaveStatus)
			}
		})

		t.Run("Leaves Banner Alone", func(t *testing.T) {
			f := newFixture(t, urls("a", 1)...)

			s := f.controller.Drive(ctx, State{Records: urls("a", 1), UnauthorizedReason: AddUnauthorized}, SaveMsg{})
			if s.UnauthorizedReason != AddUnauthorized {
				t.Errorf("expected banner to be kept, got %q", s.UnauthorizedReason)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("Success Clears Reason And Re-fetches", func(t *testing.T) {
			f := newFixture(t, urls("a", 1, "b", 2)...)
			f.store.SetToken(f.backend.IssueToken())

			s := f.controller.Drive(ctx, State{}, RefreshMsg{})
			s.UnauthorizedReason = DeleteUnauthorized
			s = f.controller.Drive(ctx, s, DeleteMsg{URL: "a"})

			if s.UnauthorizedReason != "" {
				t.Errorf("expected reason to be cleared, got %q", s.UnauthorizedReason)
			}
			if got := recordURLs(s); len(got) != 1 || got[0] != "b" {
				t.Errorf("expected [b] after re-fetch, got %v", got)
			}
			if f.requests.Count(services.ListURLsEndpoint) != 2 {
				t.Errorf("expected a re-fetch, got %d list calls", f.requests.Count(services.ListURLsEndpoint))
			}
		})

		t.Run("Unauthorized Sets Reason And Re-fetches", func(t *testing.T) {
			f := newFixture(t, urls("a", 1)...)
			f.store.SetToken("bad")

			s := f.controller.Drive(ctx, State{}, DeleteMsg{URL: "a"})

			if s.UnauthorizedReason != DeleteUnauthorized {
				t.Errorf("expected %q, got %q", DeleteUnauthorized, s.UnauthorizedReason)
			}
			if s.Banner() != (Banner{Kind: BannerUnauthorized, Message: DeleteUnauthorized}) {
				t.Errorf("unexpected banner %v", s.Banner())
			}
			if f.requests.Count(services.ListURLsEndpoint) != 1 {
				t.Errorf("expected a re-fetch, got %d list calls", f.requests.Count(services.ListURLsEndpoint))
			}
			if got := recordURLs(s); len(got) != 1 {
				t.Errorf("expected the record to survive, got %v", got)
			}
			req, _ := f.requests.Last(services.DeleteURLEndpoint)
			if req.Authorization != "bad" {
				t.Errorf("expected stored token to be sent, got %q", req.Authorization)
			}
		})

		t.Run("Unknown URL Is Reported As Unauthorized", func(t *testing.T) {
			f := newFixture(t, urls("a", 1)...)
			f.store.SetToken(f.backend.IssueToken())

			s := f.controller.Drive(ctx, State{}, DeleteMsg{URL: "missing"})
			if s.UnauthorizedReason != DeleteUnauthorized {
				t.Errorf("expected %q for a 400, got %q", DeleteUnauthorized, s.UnauthorizedReason)
			}
		})

		t.Run("Transport Error Leaves Banner", func(t *testing.T) {
			controller, _ := newFailingController(t)

			s := controller.Drive(ctx, State{UnauthorizedReason: AddUnauthorized}, DeleteMsg{URL: "a"})

			if !errors.Is(s.Err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", s.Err)
			}
			if s.UnauthorizedReason != AddUnauthorized {
				t.Errorf("expected banner untouched, got %q", s.UnauthorizedReason)
			}
		})

		t.Run("Issues Fetch After Transport Error", func(t *testing.T) {
			controller, _ := newFailingController(t)

			_, cmd := controller.Update(ctx, State{}, DeletedMsg{Err: shared.ErrTransport})
			if cmd == nil {
				t.Fatal("expected a re-fetch command")
			}
			if _, ok := cmd().(URLsFetchedMsg); !ok {
				t.Error("expected the command to fetch urls")
			}
		})
	})

	t.Run("Add", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			f := newFixture(t, urls("a", 1)...)
			f.store.SetToken(f.backend.IssueToken())

			s := f.controller.Drive(ctx, State{UnauthorizedReason: AddUnauthorized}, AddMsg{URL: "z"})

			if s.UnauthorizedReason != "" {
				t.Errorf("expected reason cleared, got %q", s.UnauthorizedReason)
			}
			// new urls are stored with uiOrder 0, so they sort ahead of "a"
			if got := recordURLs(s); len(got) != 2 || got[0] != "z" || got[1] != "a" {
				t.Errorf("expected [z a], got %v", got)
			}
		})

		t.Run("Unauthorized", func(t *testing.T) {
			f := newFixture(t, urls("a", 1)...)

			s := f.controller.Drive(ctx, State{}, AddMsg{URL: "z"})

			if s.UnauthorizedReason != AddUnauthorized {
				t.Errorf("expected %q, got %q", AddUnauthorized, s.UnauthorizedReason)
			}
			if f.requests.Count(services.ListURLsEndpoint) != 1 {
				t.Errorf("expected a re-fetch, got %d", f.requests.Count(services.ListURLsEndpoint))
			}
			if len(f.backend.URLs()) != 1 {
				t.Errorf("expected backend untouched, got %v", f.backend.URLs())
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		fixedLogin := func(status int, body string) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write([]byte(body))
			})
		}

		t.Run("Success Persists Token", func(t *testing.T) {
			f := newFixtureWithHandler(t, nil, fixedLogin(http.StatusOK, `"tok123"`))

			s := f.controller.Drive(ctx, State{UnauthorizedReason: DeleteUnauthorized}, LoginMsg{Username: "u", Password: "p"})

			if f.store.Token() != "tok123" {
				t.Errorf("expected tok123 to be stored, got %q", f.store.Token())
			}
			if !s.LoginSucceeded {
				t.Error("expected login to succeed")
			}
			if s.Banner().Kind != BannerSuccess {
				t.Errorf("expected success banner, got %v", s.Banner())
			}
		})

		t.Run("Forbidden Leaves Store Untouched", func(t *testing.T) {
			f := newFixtureWithHandler(t, nil, fixedLogin(http.StatusForbidden, `"denied"`))
			f.store.SetToken("previous")

			s := f.controller.Drive(ctx, State{LoginSucceeded: true}, LoginMsg{Username: "u", Password: "p"})

			if f.store.Token() != "previous" {
				t.Errorf("expected store untouched, got %q", f.store.Token())
			}
			if s.LoginSucceeded {
				t.Error("expected login to fail")
			}
			if s.Banner() != (Banner{Kind: BannerUnauthorized, Message: LoginFailed}) {
				t.Errorf("unexpected banner %v", s.Banner())
			}
		})

		t.Run("OK Without Token Fails", func(t *testing.T) {
			f := newFixtureWithHandler(t, nil, fixedLogin(http.StatusOK, ``))

			s := f.controller.Drive(ctx, State{}, LoginMsg{Username: "u", Password: "p"})

			if s.UnauthorizedReason != LoginFailed {
				t.Errorf("expected %q, got %q", LoginFailed, s.UnauthorizedReason)
			}
			if f.store.Token() != "" {
				t.Errorf("expected no token, got %q", f.store.Token())
			}
		})

		t.Run("Against Backend", func(t *testing.T) {
			f := newFixture(t, urls("a", 1)...)

			s := f.controller.Drive(ctx, State{}, LoginMsg{Username: "andrew", Password: "fiddle"})
			if !s.LoginSucceeded {
				t.Fatal("expected login to succeed")
			}

			s = f.controller.Drive(ctx, s, DeleteMsg{URL: "a"})
			if s.UnauthorizedReason != "" {
				t.Errorf("expected the stored token to authorize delete, got %q", s.UnauthorizedReason)
			}
			if len(s.Records) != 0 {
				t.Errorf("expected empty list after delete, got %v", s.Records)
			}
		})

		t.Run("Transport Error Sets Err Only", func(t *testing.T) {
			controller, store := newFailingController(t)

			s := controller.Drive(ctx, State{}, LoginMsg{Username: "u", Password: "p"})

			if !errors.Is(s.Err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", s.Err)
			}
			if s.UnauthorizedReason != "" || s.LoginSucceeded {
				t.Errorf("expected banner untouched, got %v", s.Banner())
			}
			if store.Token() != "" {
				t.Errorf("expected no token, got %q", store.Token())
			}
		})
	})

	t.Run("Init Loads Records And Key", func(t *testing.T) {
		f := newFixture(t, urls("b", 2, "a", 1)...)

		s := f.controller.Drive(ctx, State{}, f.controller.Init(ctx)())

		if got := recordURLs(s); len(got) != 2 || got[0] != "a" {
			t.Errorf("expected sorted records, got %v", got)
		}
		if s.KeyOfDay == "" {
			t.Error("expected key of day to be loaded")
		}
	})
}

func TestBanner(t *testing.T) {
	tc := []struct {
		name  string
		state State
		want  Banner
	}{
		{"None", State{}, Banner{Kind: BannerNone}},
		{"Success", State{LoginSucceeded: true}, Banner{Kind: BannerSuccess, Message: "Login Successful"}},
		{"Unauthorized", State{UnauthorizedReason: AddUnauthorized}, Banner{Kind: BannerUnauthorized, Message: AddUnauthorized}},
		{"Reason Wins", State{UnauthorizedReason: LoginFailed, LoginSucceeded: true}, Banner{Kind: BannerUnauthorized, Message: LoginFailed}},
	}

	for _, c := range tc {
		t.Run(c.name, func(t *testing.T) {
			if got := c.state.Banner(); got != c.want {
				t.Errorf("expected %v, got %v", c.want, got)
			}
		})
	}
}
