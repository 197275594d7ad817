// Package tui is a terminal dashboard over ecs.StorageStats snapshots,
// built as a bubbletea program a host can run alongside a headless
// simulation. The dashboard never touches the Storage itself: the host
// collects a snapshot between ticks, where no batch is running, and pushes
// it in with Program.Send, so the simulation stays the only goroutine that
// reads the store.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessera-engine/tessera/ecs"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	frameStyle  = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder())
)

// StatsMsg delivers a fresh snapshot to the dashboard. Send one with
// tea.Program.Send whenever the simulation has a consistent view to show.
type StatsMsg ecs.StorageStats

// Model renders the most recent StatsMsg it has received.
type Model struct {
	stats ecs.StorageStats
	since time.Time
}

// New builds an empty dashboard model; it shows zeros until the first
// StatsMsg arrives.
func New() Model {
	return Model{since: time.Now()}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case StatsMsg:
		m.stats = ecs.StorageStats(msg)
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	fmt.Fprintln(&b, headerStyle.Render("ecs storage"))
	fmt.Fprintln(&b, labelStyle.Render("uptime: ")+valueStyle.Render(time.Since(m.since).Round(time.Second).String()))
	fmt.Fprintln(&b, labelStyle.Render("live entities: ")+valueStyle.Render(fmt.Sprintf("%d", m.stats.LiveEntities)))
	fmt.Fprintln(&b, labelStyle.Render("singletons: ")+valueStyle.Render(fmt.Sprintf("%d", m.stats.SingletonCount)))

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, headerStyle.Render("components"))
	for _, name := range sortedKeys(m.stats.ComponentCounts) {
		count := m.stats.ComponentCounts[ecs.ComponentTypeName(name)]
		fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(name+":"), valueStyle.Render(fmt.Sprintf("%d", count)))
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, headerStyle.Render("query caches"))
	for _, key := range sortedStringKeys(m.stats.CacheSizes) {
		fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(key+":"), valueStyle.Render(fmt.Sprintf("%d", m.stats.CacheSizes[key])))
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, labelStyle.Render("q to quit"))
	return frameStyle.Render(b.String())
}

func sortedKeys(m map[ecs.ComponentTypeName]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}

func sortedStringKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
