package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrewwillette/willette/internal/admin"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode is what key presses currently act on.
type Mode int

const (
	BrowseMode Mode = iota
	EditMode
	FormMode
)

// form field indexes
const (
	usernameField = iota
	passwordField
	urlField
	fieldCount
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	controller *admin.Controller
	state      admin.State
	mode       Mode
	cursor     int
	order      textinput.Model
	fields     []textinput.Model
	focus      int
	width      int
	height     int
	help       help.Model
	keys       keyMap
}

var _ tea.Model = (*Model)(nil)

// NewModel creates a new TUI model driving controller.
func NewModel(ctx context.Context, controller *admin.Controller) *Model {
	order := textinput.New()
	order.Placeholder = "uiOrder"
	order.CharLimit = 32
	order.Prompt = "order> "

	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = "username: "

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	newURL := textinput.New()
	newURL.Placeholder = "https://soundcloud.com/..."
	newURL.Prompt = "new url:  "

	return &Model{
		ctx:        ctx,
		controller: controller,
		order:      order,
		fields:     []textinput.Model{username, password, newURL},
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// State returns the admin state currently rendered.
func (m *Model) State() admin.State {
	return m.state
}

// Mode returns the current input mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// Init fetches the records and the key of the day.
func (m *Model) Init() tea.Cmd {
	return m.controller.Init(m.ctx)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case EditMode:
			return m.handleEditKeys(msg)
		case FormMode:
			return m.handleFormKeys(msg)
		default:
			return m.handleBrowseKeys(msg)
		}
	}

	return m, tea.Batch(m.dispatch(msg), m.updateInput(msg))
}

// updateInput forwards msg to the focused text input so its cursor keeps blinking.
func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case EditMode:
		m.order, cmd = m.order.Update(msg)
	case FormMode:
		m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	}
	return cmd
}

// dispatch hands msg to the controller and keeps the cursor on a record.
func (m *Model) dispatch(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.state, cmd = m.controller.Update(m.ctx, m.state, msg)
	if m.cursor >= len(m.state.Records) {
		m.cursor = max(len(m.state.Records)-1, 0)
	}
	return cmd
}

func (m *Model) selected() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Records) {
		return "", false
	}
	return m.state.Records[m.cursor].URL, true
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.state.Records)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.edit):
		if _, ok := m.selected(); ok {
			m.mode = EditMode
			m.order.SetValue(m.state.Records[m.cursor].UIOrder.String())
			m.order.CursorEnd()
			return m, m.order.Focus()
		}
	case key.Matches(msg, m.keys.save):
		return m, m.dispatch(admin.SaveMsg{})
	case key.Matches(msg, m.keys.del):
		if url, ok := m.selected(); ok {
			return m, m.dispatch(admin.DeleteMsg{URL: url})
		}
	case key.Matches(msg, m.keys.refresh):
		return m, m.dispatch(admin.RefreshMsg{})
	case key.Matches(msg, m.keys.add):
		return m, m.focusField(urlField)
	case key.Matches(msg, m.keys.login):
		return m, m.focusField(usernameField)
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.order.Blur()
		m.mode = BrowseMode
		return m, nil
	case key.Matches(msg, m.keys.submit):
		m.order.Blur()
		m.mode = BrowseMode
		if url, ok := m.selected(); ok {
			return m, m.dispatch(admin.EditOrderMsg{URL: url, Value: m.order.Value()})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.order, cmd = m.order.Update(msg)
	return m, cmd
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.fields[m.focus].Blur()
		m.mode = BrowseMode
		return m, nil
	case key.Matches(msg, m.keys.next):
		return m, m.focusField((m.focus + 1) % fieldCount)
	case key.Matches(msg, m.keys.submit):
		return m, m.submitForm()
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusField(i int) tea.Cmd {
	m.fields[m.focus].Blur()
	m.focus = i
	m.mode = FormMode
	return m.fields[i].Focus()
}

// submitForm reads the inputs at submission time. Enter on a credential field logs in; on the url field it adds.
func (m *Model) submitForm() tea.Cmd {
	if m.focus == urlField {
		url := strings.TrimSpace(m.fields[urlField].Value())
		if url == "" {
			return nil
		}
		m.fields[urlField].Reset()
		return m.dispatch(admin.AddMsg{URL: url})
	}

	return m.dispatch(admin.LoginMsg{
		Username: m.fields[usernameField].Value(),
		Password: m.fields[passwordField].Value(),
	})
}

// View renders the admin page.
func (m *Model) View() string {
	var b strings.Builder

	title := "willette admin"
	if m.state.KeyOfDay != "" {
		title = fmt.Sprintf("%s · key of the day: %s", title, m.state.KeyOfDay)
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	if banner := m.renderBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	if m.state.Err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.state.Err)))
		b.WriteString("\n")
	}
	if m.state.SaveStatus != 0 {
		b.WriteString(styles.help.Render(fmt.Sprintf("last save: %d", m.state.SaveStatus)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderRecords())
	b.WriteString("\n")

	if m.mode == EditMode {
		b.WriteString(m.order.View())
		b.WriteString("\n\n")
	}

	for _, f := range m.fields {
		b.WriteString(f.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *Model) renderBanner() string {
	banner := m.state.Banner()
	switch banner.Kind {
	case admin.BannerUnauthorized:
		return styles.banner.Inherit(styles.err).Render(banner.Message)
	case admin.BannerSuccess:
		return styles.banner.Inherit(styles.ok).Render(banner.Message)
	default:
		return ""
	}
}

func (m *Model) renderRecords() string {
	if m.state.Records == nil {
		return styles.warn.Render("no records loaded")
	}
	if len(m.state.Records) == 0 {
		return styles.help.Render("no soundcloud urls")
	}

	var b strings.Builder
	for i, r := range m.state.Records {
		line := fmt.Sprintf("%6s  %s", r.UIOrder, r.URL)
		if i == m.cursor {
			b.WriteString(styles.selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderHelp() string {
	switch m.mode {
	case EditMode:
		return m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.back})
	case FormMode:
		return m.help.ShortHelpView([]key.Binding{m.keys.next, m.keys.submit, m.keys.back})
	default:
		return m.help.View(m.keys)
	}
}
