package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/deal"
)

type StatsModel struct {
	CommonModel
	dealService *deal.Service
	companyID   uuid.UUID

	loading bool
	spinner spinner.Model
	stats   *deal.Stats
	err     error
}

func NewStatsModel(svc *deal.Service, companyID uuid.UUID) StatsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return StatsModel{
		dealService: svc,
		companyID:   companyID,
		loading:     true,
		spinner:     s,
	}
}

func (m StatsModel) Title() string     { return "Pipeline Stats" }
func (m StatsModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m StatsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadStatsCmd())
}

func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadStatsMsg:
		m.loading = false
		m.stats = msg.stats
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadStatsCmd())
		}
	}

	if m.loading {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m StatsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Crunching pipeline numbers...", m.spinner.View()),
		)
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	labelStyle := lipgloss.NewStyle().Faint(true).Width(18)
	valueStyle := lipgloss.NewStyle().Bold(true)

	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		row("Total deals", fmt.Sprintf("%d", m.stats.Total)),
		row("Open", fmt.Sprintf("%d", m.stats.Open)),
		row("Won", fmt.Sprintf("%d", m.stats.Won)),
		row("Lost", fmt.Sprintf("%d", m.stats.Lost)),
		"",
		row("Open value", FormatMoney(m.stats.OpenValue)),
		row("Won value", FormatMoney(m.stats.WonValue)),
		row("Avg value", fmt.Sprintf("%.2f", m.stats.AvgValue/100.0)),
		"",
		row("Conversion", fmt.Sprintf("%.2f%%", m.stats.ConversionRate)),
		row("Avg days to close", fmt.Sprintf("%.1f", m.stats.AvgDaysToClose)),
	)

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(body)

	return lipgloss.NewStyle().Padding(1).Render(panel)
}

type loadStatsMsg struct {
	stats *deal.Stats
	err   error
}

func (m StatsModel) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		stats, err := m.dealService.Stats(ctx, m.companyID, deal.StatsFilter{})
		return loadStatsMsg{stats: stats, err: err}
	}
}
