package admin

import (
	"context"
	"net/http"
	"slices"

	"github.com/andrewwillette/willette/internal/models"
	"github.com/andrewwillette/willette/internal/services"
	"github.com/andrewwillette/willette/internal/session"
	"github.com/andrewwillette/willette/internal/shared"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// API is the subset of [services.APIService] the admin page calls.
type API interface {
	ListURLs(ctx context.Context) (*services.APIResponse, []models.SoundcloudURL, error)
	AddURL(ctx context.Context, url string) (*services.APIResponse, error)
	DeleteURL(ctx context.Context, url string) (*services.APIResponse, error)
	UpdateURLs(ctx context.Context, urls []models.SoundcloudURL) (*services.APIResponse, error)
	Login(ctx context.Context, username, password string) (*services.APIResponse, string, error)
	KeyOfDay(ctx context.Context) (*services.APIResponse, string, error)
}

var _ API = (*services.APIService)(nil)

// Controller computes admin page transitions.
//
// It holds no page state itself; callers own the [State] and thread it through [Controller.Update].
type Controller struct {
	api    API
	store  session.Store
	logger *log.Logger
}

// NewController creates a [Controller] calling api and persisting login tokens to store.
func NewController(api API, store session.Store, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Controller{api: api, store: store, logger: logger}
}

// Init returns the command run when the page mounts.
func (c *Controller) Init(ctx context.Context) tea.Cmd {
	return tea.Batch(c.fetchURLs(ctx), c.fetchKeyOfDay(ctx))
}

// Update applies msg to s. Unknown messages leave s unchanged.
func (c *Controller) Update(ctx context.Context, s State, msg tea.Msg) (State, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshMsg:
		return s, c.fetchURLs(ctx)

	case URLsFetchedMsg:
		s.Err = msg.Err
		if msg.Err != nil {
			c.logger.Error("failed to fetch soundcloud urls", "error", msg.Err)
			return s, nil
		}
		s.Records = models.SortByOrder(msg.URLs)
		return s, nil

	case EditOrderMsg:
		s.Records = models.WithOrder(s.Records, msg.URL, models.ParseOrder(msg.Value))
		return s, nil

	case SaveMsg:
		if s.Records == nil {
			c.logger.Warn("no records loaded, skipping save")
			return s, nil
		}
		return s, c.saveURLs(ctx, slices.Clone(s.Records))

	case SavedMsg:
		s.Err = msg.Err
		s.SaveStatus = msg.Status
		if msg.Err != nil {
			c.logger.Error("failed to save soundcloud urls", "error", msg.Err)
		}
		return s, nil

	case DeleteMsg:
		return s, c.deleteURL(ctx, msg.URL)

	case DeletedMsg:
		s = applyMutation(s, msg.Status, msg.Err, DeleteUnauthorized)
		return s, c.fetchURLs(ctx)

	case AddMsg:
		return s, c.addURL(ctx, msg.URL)

	case AddedMsg:
		s = applyMutation(s, msg.Status, msg.Err, AddUnauthorized)
		return s, c.fetchURLs(ctx)

	case LoginMsg:
		return s, c.login(ctx, msg.Username, msg.Password)

	case LoggedInMsg:
		s.Err = msg.Err
		if msg.Err != nil {
			c.logger.Error("login request failed", "error", msg.Err)
			return s, nil
		}
		if msg.Status == http.StatusOK && msg.Token != "" {
			s.UnauthorizedReason = ""
			return s, c.storeToken(msg.Token)
		}
		c.logger.Info("login rejected", "status", msg.Status)
		s.UnauthorizedReason = LoginFailed
		s.LoginSucceeded = false
		return s, nil

	case TokenStoredMsg:
		s.Err = msg.Err
		s.LoginSucceeded = msg.Err == nil
		if msg.Err != nil {
			c.logger.Error("failed to persist token", "error", msg.Err)
		}
		return s, nil

	case KeyOfDayMsg:
		return s, c.fetchKeyOfDay(ctx)

	case KeyOfDayFetchedMsg:
		if msg.Err != nil {
			c.logger.Warn("failed to fetch key of day", "error", msg.Err)
			return s, nil
		}
		s.KeyOfDay = msg.Key
		return s, nil
	}

	return s, nil
}

// applyMutation records a delete or add outcome. Transport failures leave the banner alone.
func applyMutation(s State, status int, err error, reason string) State {
	s.Err = err
	if err != nil {
		return s
	}
	if status == http.StatusOK || status == http.StatusCreated {
		s.UnauthorizedReason = ""
	} else {
		s.UnauthorizedReason = reason
	}
	return s
}

// Drive applies msg and every message produced by the commands it spawns, in order, until none remain.
//
// Commands run on the calling goroutine. [tea.BatchMsg] values are expanded in place.
func (c *Controller) Drive(ctx context.Context, s State, msg tea.Msg) State {
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if batch, ok := next.(tea.BatchMsg); ok {
			for _, cmd := range batch {
				if cmd == nil {
					continue
				}
				if m := cmd(); m != nil {
					queue = append(queue, m)
				}
			}
			continue
		}

		var cmd tea.Cmd
		s, cmd = c.Update(ctx, s, next)
		if cmd == nil {
			continue
		}
		if m := cmd(); m != nil {
			queue = append(queue, m)
		}
	}
	return s
}

func (c *Controller) fetchURLs(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		_, urls, err := c.api.ListURLs(ctx)
		return URLsFetchedMsg{URLs: urls, Err: err}
	}
}

func (c *Controller) saveURLs(ctx context.Context, urls []models.SoundcloudURL) tea.Cmd {
	return func() tea.Msg {
		resp, err := c.api.UpdateURLs(ctx, urls)
		return SavedMsg{Status: status(resp), Err: err}
	}
}

func (c *Controller) deleteURL(ctx context.Context, url string) tea.Cmd {
	return func() tea.Msg {
		resp, err := c.api.DeleteURL(ctx, url)
		return DeletedMsg{Status: status(resp), Err: err}
	}
}

func (c *Controller) addURL(ctx context.Context, url string) tea.Cmd {
	return func() tea.Msg {
		resp, err := c.api.AddURL(ctx, url)
		return AddedMsg{Status: status(resp), Err: err}
	}
}

func (c *Controller) login(ctx context.Context, username, password string) tea.Cmd {
	return func() tea.Msg {
		resp, token, err := c.api.Login(ctx, username, password)
		return LoggedInMsg{Status: status(resp), Token: token, Err: err}
	}
}

func (c *Controller) storeToken(token string) tea.Cmd {
	return func() tea.Msg {
		return TokenStoredMsg{Err: c.store.SetToken(token)}
	}
}

func (c *Controller) fetchKeyOfDay(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		_, key, err := c.api.KeyOfDay(ctx)
		return KeyOfDayFetchedMsg{Key: key, Err: err}
	}
}

func status(resp *services.APIResponse) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
