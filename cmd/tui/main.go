package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/nexocrm/nexo/cmd/tui/internal/view"
	"github.com/nexocrm/nexo/internal/capture"
	captureStore "github.com/nexocrm/nexo/internal/capture/store"
	"github.com/nexocrm/nexo/internal/config"
	"github.com/nexocrm/nexo/internal/contact"
	contactStore "github.com/nexocrm/nexo/internal/contact/store"
	"github.com/nexocrm/nexo/internal/database"
	"github.com/nexocrm/nexo/internal/deal"
	dealStore "github.com/nexocrm/nexo/internal/deal/store"
)

type model struct {
	contactService *contact.Service
	dealService    *deal.Service
	captureService *capture.Service

	companyID uuid.UUID
	actorID   uuid.UUID

	currentView View

	contactsView view.ContactsModel
	dealsView    view.DealsModel
	statsView    view.StatsModel
	captureView  view.CaptureModel
}

type View int

const (
	ViewMenu     View = 0
	ViewContacts View = 1
	ViewDeals    View = 2
	ViewStats    View = 3
	ViewCapture  View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	companyID, err := uuid.Parse(cfg.TUI.CompanyID)
	if err != nil {
		slog.Error("TUI_COMPANY_ID must be a valid UUID", "error", err)
		os.Exit(1)
	}

	actorID, err := uuid.Parse(cfg.TUI.ActorID)
	if err != nil {
		slog.Error("TUI_ACTOR_ID must be a valid UUID", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	contactSvc := contact.NewService(contactStore.New(db))
	dealSvc := deal.NewService(dealStore.New(db))
	captureSvc := capture.NewService(captureStore.New(db))

	return model{
		contactService: contactSvc,
		dealService:    dealSvc,
		captureService: captureSvc,
		companyID:      companyID,
		actorID:        actorID,
		currentView:    ViewMenu,
		contactsView:   view.NewContactsModel(contactSvc, companyID),
		dealsView:      view.NewDealsModel(dealSvc, companyID),
		statsView:      view.NewStatsModel(dealSvc, companyID),
		captureView:    view.NewCaptureModel(captureSvc, companyID, actorID),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewContacts
				m.contactsView = view.NewContactsModel(m.contactService, m.companyID)

				return m, m.contactsView.Init()
			case "2":
				m.currentView = ViewDeals
				m.dealsView = view.NewDealsModel(m.dealService, m.companyID)

				return m, m.dealsView.Init()
			case "3":
				m.currentView = ViewStats
				m.statsView = view.NewStatsModel(m.dealService, m.companyID)

				return m, m.statsView.Init()
			case "4":
				m.currentView = ViewCapture
				m.captureView = view.NewCaptureModel(m.captureService, m.companyID, m.actorID)

				return m, m.captureView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewContacts:
		var newModel tea.Model
		newModel, cmd = m.contactsView.Update(msg)
		m.contactsView = newModel.(view.ContactsModel)
	case ViewDeals:
		var newModel tea.Model
		newModel, cmd = m.dealsView.Update(msg)
		m.dealsView = newModel.(view.DealsModel)
	case ViewStats:
		var newModel tea.Model
		newModel, cmd = m.statsView.Update(msg)
		m.statsView = newModel.(view.StatsModel)
	case ViewCapture:
		var newModel tea.Model
		newModel, cmd = m.captureView.Update(msg)
		m.captureView = newModel.(view.CaptureModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Nexo Admin\n\n" +
				"1. Contacts\n" +
				"2. Deals\n" +
				"3. Pipeline Stats\n" +
				"4. Capture Lead\n\n" +
				"q. Quit",
		)
	case ViewContacts:
		return m.contactsView.View()
	case ViewDeals:
		return m.dealsView.View()
	case ViewStats:
		return m.statsView.View()
	case ViewCapture:
		return m.captureView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
