package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/deal"
)

type dealsState int

const (
	dealsStateBrowse dealsState = iota
	dealsStateLose
)

type DealsModel struct {
	CommonModel
	dealService *deal.Service
	companyID   uuid.UUID

	state dealsState
	table table.Model
	deals []*deal.Deal
	form  *huh.Form

	outcomeFilterIdx int

	filter  deal.ListFilter
	loading bool
	err     error
	status  string

	// Form bindings
	formReason string
}

func NewDealsModel(svc *deal.Service, companyID uuid.UUID) DealsModel {
	columns := []table.Column{
		{Title: "Created", Width: 12},
		{Title: "Title", Width: 30},
		{Title: "Stage", Width: 14},
		{Title: "Value", Width: 12},
		{Title: "Outcome", Width: 8},
		{Title: "Origin", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return DealsModel{
		dealService: svc,
		companyID:   companyID,
		table:       t,
		filter:      deal.ListFilter{},
		loading:     true,
	}
}

func (m DealsModel) Title() string { return "Deals" }

func (m DealsModel) ShortHelp() string {
	if m.state == dealsStateLose {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | o: outcome filter | w: win | l: lose | p: reopen | r: refresh"
}

func (m DealsModel) Init() tea.Cmd {
	return m.loadDealsCmd()
}

func (m DealsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDealsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.deals = msg.deals
		m.refreshTable()
		return m, nil

	case dealActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.status = msg.note
		return m, m.loadDealsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case dealsStateBrowse:
		return m.updateBrowse(msg)
	case dealsStateLose:
		return m.updateLose(msg)
	}

	return m, nil
}

func (m DealsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadDealsCmd()
		case "o":
			m.outcomeFilterIdx = (m.outcomeFilterIdx + 1) % 4
			m.applyFilter()
			return m, m.loadDealsCmd()
		case "w":
			return m, m.winCmd()
		case "l":
			return m.enterLoseMode()
		case "p":
			return m, m.reopenCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m DealsModel) enterLoseMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.deals) {
		return m, nil
	}

	m.formReason = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("reason").
				Title("Loss Reason").
				Placeholder("price, timing, competitor...").
				Value(&m.formReason),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = dealsStateLose
	m.table.Blur()
	return m, m.form.Init()
}

func (m DealsModel) updateLose(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = dealsStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	reason := m.formReason
	m.state = dealsStateBrowse
	m.form = nil
	m.table.Focus()
	return m, m.loseCmd(reason)
}

func (m DealsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading deals...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	outcomeLabels := []string{"All", "Open", "Won", "Lost"}

	header := fmt.Sprintf("Filter: [o] Outcome: %s", activeStyle(outcomeLabels[m.outcomeFilterIdx]))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == dealsStateLose && m.form != nil {
		idx := m.table.Cursor()
		title := ""
		if idx >= 0 && idx < len(m.deals) {
			title = m.deals[idx].Title
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(
				fmt.Sprintf("Mark as Lost\n\nDeal: %s\n\n%s", title, m.form.View()),
			)

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *DealsModel) applyFilter() {
	switch m.outcomeFilterIdx {
	case 1:
		m.filter.Outcome = new(deal.OutcomeOpen)
	case 2:
		m.filter.Outcome = new(deal.OutcomeWon)
	case 3:
		m.filter.Outcome = new(deal.OutcomeLost)
	default:
		m.filter.Outcome = nil
	}
}

func (m *DealsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.deals))
	for _, d := range m.deals {
		rows = append(rows, table.Row{
			FormatDate(d.CreatedAt),
			Truncate(d.Title, 29),
			d.FunnelStage,
			FormatMoney(d.TotalValue),
			string(d.Outcome()),
			d.Origin,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadDealsMsg struct {
	deals []*deal.Deal
	err   error
}

func (m DealsModel) loadDealsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		deals, err := m.dealService.List(ctx, m.companyID, m.filter)
		return loadDealsMsg{deals: deals, err: err}
	}
}

type dealActionMsg struct {
	note string
	err  error
}

func (m DealsModel) winCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.deals) {
		return nil
	}

	d := m.deals[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		won, err := m.dealService.MarkAsWon(ctx, m.companyID, d.ID)
		if err != nil {
			return dealActionMsg{err: err}
		}

		return dealActionMsg{note: fmt.Sprintf("Won: %s (%s)", won.Title, FormatMoney(won.TotalValue))}
	}
}

func (m DealsModel) loseCmd(reason string) tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.deals) {
		return nil
	}

	d := m.deals[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		lost, err := m.dealService.MarkAsLost(ctx, m.companyID, d.ID, reason)
		if err != nil {
			return dealActionMsg{err: err}
		}

		return dealActionMsg{note: fmt.Sprintf("Lost: %s (%s)", lost.Title, lost.LossReason)}
	}
}

func (m DealsModel) reopenCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.deals) {
		return nil
	}

	d := m.deals[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		reopened, err := m.dealService.Reopen(ctx, m.companyID, d.ID)
		if err != nil {
			return dealActionMsg{err: err}
		}

		return dealActionMsg{note: fmt.Sprintf("Reopened: %s", reopened.Title)}
	}
}
