package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/contact"
)

type ContactsModel struct {
	CommonModel
	contactService *contact.Service
	companyID      uuid.UUID

	table    table.Model
	contacts []*contact.Contact

	// Filter cycling
	typeFilterIdx   int
	statusFilterIdx int

	filter  contact.ListFilter
	loading bool
	err     error
	status  string
}

func NewContactsModel(svc *contact.Service, companyID uuid.UUID) ContactsModel {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Type", Width: 8},
		{Title: "Status", Width: 12},
		{Title: "Phone", Width: 16},
		{Title: "Email", Width: 28},
		{Title: "Lifetime", Width: 12},
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

	return ContactsModel{
		contactService: svc,
		companyID:      companyID,
		table:          t,
		filter:         contact.ListFilter{},
		loading:        true,
	}
}

func (m ContactsModel) Title() string { return "Contacts" }

func (m ContactsModel) ShortHelp() string {
	return "Esc: back | t: type filter | s: status filter | c: convert to client | r: refresh"
}

func (m ContactsModel) Init() tea.Cmd {
	return m.loadContactsCmd()
}

func (m ContactsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadContactsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.contacts = msg.contacts
		m.refreshTable()
		return m, nil

	case convertContactMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error converting: %v", msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("%s is now a client", msg.name)
		return m, m.loadContactsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadContactsCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % 3
			m.applyFilter()
			return m, m.loadContactsCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % 6
			m.applyFilter()
			return m, m.loadContactsCmd()
		case "c":
			return m, m.convertCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ContactsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading contacts...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	typeLabels := []string{"All", "Leads", "Clients"}
	statusLabels := []string{"All", "New", "Contacted", "Qualified", "Lost", "Discarded"}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [s] Status: %s",
		activeStyle(typeLabels[m.typeFilterIdx]),
		activeStyle(statusLabels[m.statusFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *ContactsModel) applyFilter() {
	switch m.typeFilterIdx {
	case 1:
		m.filter.Type = new(contact.TypeLead)
	case 2:
		m.filter.Type = new(contact.TypeClient)
	default:
		m.filter.Type = nil
	}

	switch m.statusFilterIdx {
	case 1:
		m.filter.Status = new(contact.StatusNew)
	case 2:
		m.filter.Status = new(contact.StatusContacted)
	case 3:
		m.filter.Status = new(contact.StatusQualified)
	case 4:
		m.filter.Status = new(contact.StatusLost)
	case 5:
		m.filter.Status = new(contact.StatusDiscarded)
	default:
		m.filter.Status = nil
	}
}

func (m *ContactsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.contacts))
	for _, c := range m.contacts {
		rows = append(rows, table.Row{
			Truncate(c.Name, 27),
			string(c.Type),
			string(c.Status),
			c.Phone,
			Truncate(c.Email, 27),
			FormatMoney(c.LifetimeValue),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadContactsMsg struct {
	contacts []*contact.Contact
	err      error
}

func (m ContactsModel) loadContactsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		contacts, err := m.contactService.List(ctx, m.companyID, m.filter)
		return loadContactsMsg{contacts: contacts, err: err}
	}
}

type convertContactMsg struct {
	name string
	err  error
}

func (m ContactsModel) convertCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.contacts) {
		return nil
	}

	c := m.contacts[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		converted, err := m.contactService.ConvertToClient(ctx, m.companyID, c.ID)
		if err != nil {
			return convertContactMsg{err: err}
		}

		return convertContactMsg{name: converted.Name}
	}
}
