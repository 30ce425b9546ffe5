package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/capture"
)

type captureState int

const (
	captureStateForm captureState = iota
	captureStateSubmitting
	captureStateResult
)

// CaptureModel is the manual counterpart of the capture endpoint: an
// operator keys in a lead and gets back whether the contact was created,
// found or restored, plus the deal that was opened.
type CaptureModel struct {
	CommonModel
	captureService *capture.Service
	companyID      uuid.UUID
	actorID        uuid.UUID

	state   captureState
	form    *huh.Form
	spinner spinner.Model
	result  *capture.Result
	err     error

	// Form bindings
	formName  string
	formPhone string
	formEmail string
	formTitle string
	formValue string
	formStage string
}

func NewCaptureModel(svc *capture.Service, companyID, actorID uuid.UUID) CaptureModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := CaptureModel{
		captureService: svc,
		companyID:      companyID,
		actorID:        actorID,
		state:          captureStateForm,
		spinner:        s,
	}
	m.form = m.buildForm()

	return m
}

func (m CaptureModel) Title() string { return "Capture Lead" }

func (m CaptureModel) ShortHelp() string {
	switch m.state {
	case captureStateSubmitting:
		return "Capturing..."
	case captureStateResult:
		return "Esc: back to menu"
	}
	return "Navigate form | Esc: back"
}

func (m CaptureModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m CaptureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case captureStateForm:
		return m.updateForm(msg)
	case captureStateSubmitting:
		return m.updateSubmitting(msg)
	case captureStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m CaptureModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = captureStateSubmitting
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.submitCmd())
}

func (m CaptureModel) updateSubmitting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(captureResultMsg); ok {
		m.state = captureStateResult
		m.result = result.result
		m.err = result.err
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m CaptureModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}
	return m, nil
}

func (m *CaptureModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName),

			huh.NewInput().
				Key("phone").
				Title("Phone").
				Placeholder("+55 11 91234-5678").
				Value(&m.formPhone),

			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&m.formEmail),

			huh.NewInput().
				Key("deal_title").
				Title("Deal Title").
				Placeholder("New opportunity").
				Value(&m.formTitle),

			huh.NewInput().
				Key("deal_value").
				Title("Deal Value (cents)").
				Placeholder("0").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
						return fmt.Errorf("value must be a whole number of cents")
					}
					return nil
				}).
				Value(&m.formValue),

			huh.NewInput().
				Key("deal_stage").
				Title("Funnel Stage").
				Placeholder("new").
				Value(&m.formStage),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m CaptureModel) View() string {
	switch m.state {
	case captureStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case captureStateSubmitting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Resolving contact and opening deal...", m.spinner.View()),
		)

	case captureStateResult:
		return m.viewResult()
	}

	return ""
}

func (m CaptureModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Lead Captured!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			fmt.Sprintf("Contact: %s (%s)", m.result.Contact.Name, m.result.Action),
			fmt.Sprintf("Deal: %s | stage %s | %s", m.result.Deal.Title, m.result.Deal.FunnelStage, FormatMoney(m.result.Deal.TotalValue)),
		),
	)
}

type captureResultMsg struct {
	result *capture.Result
	err    error
}

func (m CaptureModel) submitCmd() tea.Cmd {
	value := int64(0)
	if v := strings.TrimSpace(m.formValue); v != "" {
		value, _ = strconv.ParseInt(v, 10, 64)
	}

	input := capture.Input{
		Phone:     m.formPhone,
		Email:     m.formEmail,
		Name:      m.formName,
		Origin:    "tui",
		DealTitle: m.formTitle,
		DealStage: m.formStage,
		DealValue: value,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		result, err := m.captureService.Capture(ctx, m.companyID, m.actorID, input)
		return captureResultMsg{result: result, err: err}
	}
}
