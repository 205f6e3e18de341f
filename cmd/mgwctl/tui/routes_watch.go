// Package tui renders the interactive route watcher.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/edgefn/model-gateway/pkg/gateway"
)

type watchKeyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

var watchKeys = watchKeyMap{
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type routeItem struct {
	r gateway.Route
}

func (i routeItem) Title() string {
	return i.r.Name
}

func (i routeItem) Description() string {
	rt := i.r.RouteType
	if rt == "" {
		rt = "-"
	}
	return fmt.Sprintf("type=%s provider=%s model=%s", rt, orDash(i.r.Model.Provider), orDash(i.r.Model.Name))
}

func (i routeItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{i.r.Name, i.r.RouteType, i.r.Model.Provider, i.r.Model.Name}, " "))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

type routesMsg struct {
	routes []gateway.Route
	err    error
}

type tickMsg struct{}

type watchModel struct {
	client   *gateway.Client
	filter   string
	interval time.Duration

	list     list.Model
	lastSync time.Time
	lastErr  error
}

var statusStyle = lipgloss.NewStyle().Faint(true)
var errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

func newWatchModel(client *gateway.Client, filter string, interval time.Duration) watchModel {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "gateway routes"
	l.SetShowStatusBar(false)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{watchKeys.Refresh}
	}
	return watchModel{
		client:   client,
		filter:   filter,
		interval: interval,
		list:     l,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick())
}

func (m watchModel) fetch() tea.Cmd {
	client, filter := m.client, m.filter
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		routes, err := client.ListRoutesAction(ctx, filter).Await(ctx)
		return routesMsg{routes: routes, err: err}
	}
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, watchKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, watchKeys.Refresh):
			return m, m.fetch()
		}
	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())
	case routesMsg:
		m.lastErr = msg.err
		if msg.err == nil {
			m.lastSync = time.Now()
			items := make([]list.Item, 0, len(msg.routes))
			for _, r := range msg.routes {
				items = append(items, routeItem{r: r})
			}
			m.list.SetItems(items)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m watchModel) View() string {
	status := "never synced"
	if !m.lastSync.IsZero() {
		status = "synced " + m.lastSync.Format("15:04:05")
	}
	line := statusStyle.Render(status)
	if m.lastErr != nil {
		line += "  " + errStyle.Render("error: "+m.lastErr.Error())
	}
	return m.list.View() + "\n" + line
}

// RunRoutesWatch polls the route listing until the user quits.
func RunRoutesWatch(client *gateway.Client, filter string, intervalSeconds int) error {
	if intervalSeconds <= 0 {
		intervalSeconds = 3
	}
	m := newWatchModel(client, filter, time.Duration(intervalSeconds)*time.Second)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
