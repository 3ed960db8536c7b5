package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/CloudClassify/internal/emoji"
	"github.com/yildizm/CloudClassify/internal/logger"
	"github.com/yildizm/CloudClassify/internal/predict"
	"github.com/yildizm/CloudClassify/internal/state"
	"github.com/yildizm/CloudClassify/internal/ui/components"
)

const meterWidth = 30

// Options configures the form
type Options struct {
	// Serialize ignores submits while a prediction is pending
	Serialize bool

	// Accept is the advisory file type hint shown under the input
	Accept string

	// File is selected before the first frame
	File *predict.File

	// SubmitOnStart submits File as soon as the program starts
	SubmitOnStart bool

	Logger *logger.Logger
}

// Model is the upload form. All result and error state lives in state.State
// and changes only through state.Reduce.
type Model struct {
	ctx       context.Context
	predictor predict.Predictor
	log       *logger.Logger

	state   state.State
	input   textinput.Model
	accept  string
	loadErr error

	submitOnStart bool

	width    int
	height   int
	ready    bool
	quitting bool

	spinner *components.Spinner
	meter   *components.Meter
	styles  *Styles
}

// NewModel creates the form backed by predictor
func NewModel(ctx context.Context, predictor predict.Predictor, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	styles := GetStyles()

	input := textinput.New()
	input.Placeholder = "path/to/image.jpg"
	input.Prompt = emoji.GetEmoji("file") + " "
	input.CharLimit = 4096
	input.Focus()

	spinner := components.NewSpinner("Classifying...")
	spinner.Style = styles.Title

	meter := components.NewMeter(meterWidth)
	meter.Filled = styles.Meter
	meter.Empty = styles.Muted

	m := &Model{
		ctx:           ctx,
		predictor:     predictor,
		log:           opts.Logger.WithComponent("ui"),
		state:         state.New(opts.Serialize),
		input:         input,
		accept:        opts.Accept,
		submitOnStart: opts.SubmitOnStart,
		spinner:       spinner,
		meter:         meter,
		styles:        styles,
	}

	if opts.File != nil {
		m.state, _ = state.Reduce(m.state, state.SelectFile{File: opts.File})
	}

	return m
}

// State returns the current form state
func (m *Model) State() state.State {
	return m.state
}

// Init starts the cursor blink and spinner, and the initial submit if requested
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tick()}
	if m.submitOnStart {
		cmds = append(cmds, m.dispatch(state.Submit{}))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-12)
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case fileLoadedMsg:
		m.loadErr = nil
		m.dispatch(state.SelectFile{File: msg.file})
		return m, m.dispatch(state.Submit{})

	case fileErrorMsg:
		m.log.Debug("cannot load %s: %v", msg.path, msg.err)
		m.loadErr = msg.err
		return m, nil

	case settledMsg:
		return m, m.dispatch(msg.settled)

	case tickMsg:
		m.spinner.Tick()
		return m, tick()
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		return m.handleEnter()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleEnter selects the typed path, if any, and submits
func (m *Model) handleEnter() (tea.Model, tea.Cmd) {
	m.loadErr = nil

	path := strings.TrimSpace(m.input.Value())
	if path == "" {
		return m, m.dispatch(state.Submit{})
	}

	m.input.Reset()
	return m, loadFileCommand(path)
}

// dispatch applies action and starts the prediction the reducer asks for
func (m *Model) dispatch(action state.Action) tea.Cmd {
	next, req := state.Reduce(m.state, action)
	m.state = next

	if req == nil {
		return nil
	}

	m.log.DebugWithFields("submitting", []logger.Field{
		logger.Attempt(req.Attempt),
		logger.F("file", req.File.Name),
		logger.F("in_flight", m.state.InFlight),
	})
	return predictCommand(m.ctx, m.predictor, req)
}

// View renders the form
func (m *Model) View() string {
	if m.quitting {
		return m.styles.Muted.Render(emoji.GetEmoji("door")+" Bye!") + "\n"
	}

	sections := []string{
		m.styles.Title.Render(emoji.GetEmoji("cloud") + " Cloud Classifier"),
		"",
		m.input.View(),
		m.renderSelection(),
	}

	if m.loadErr != nil {
		sections = append(sections, m.styles.Warning.Render(emoji.GetEmoji("warning")+" "+m.loadErr.Error()))
	}

	if m.state.Pending() {
		sections = append(sections, "", m.spinner.Render())
	}

	if outcome := m.renderOutcome(); outcome != "" {
		sections = append(sections, "", outcome)
	}

	sections = append(sections, "", m.styles.Muted.Render("enter: submit • esc: quit"))

	content := m.styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	if !m.ready {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// renderSelection shows the selected file and the accept hint
func (m *Model) renderSelection() string {
	hint := ""
	if m.accept != "" {
		hint = fmt.Sprintf(" (accepts %s)", m.accept)
	}

	if m.state.File == nil {
		return m.styles.Muted.Render("No file selected" + hint)
	}

	f := m.state.File
	return m.styles.Body.Render(fmt.Sprintf("Selected: %s [%s, %d bytes]", f.Name, f.ContentType, f.Size())) +
		m.styles.Muted.Render(hint)
}

// renderOutcome renders the error and result regions
func (m *Model) renderOutcome() string {
	var lines []string

	if m.state.Err != nil {
		style := m.styles.Error
		if m.state.Err.Kind == predict.KindValidation {
			style = m.styles.Warning
		}
		lines = append(lines, style.Render(emoji.ForKind(string(m.state.Err.Kind))+" "+state.ErrorLine(m.state.Err)))
	}

	if r := m.state.Result; r != nil {
		lines = append(lines,
			m.styles.Header.Render(emoji.GetEmoji("result")+" "+state.ResultHeading),
			m.styles.Success.Render(state.ClassLine(r)),
			m.styles.Body.Render(state.ConfidenceLine(r)),
			m.meter.Render(r.Confidence),
		)
	}

	return strings.Join(lines, "\n")
}

// Run runs the form until the user quits and returns the final state
func Run(ctx context.Context, predictor predict.Predictor, opts Options) (state.State, error) {
	model := NewModel(ctx, predictor, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return model.State(), err
	}
	if fm, ok := final.(*Model); ok {
		return fm.State(), nil
	}
	return model.State(), nil
}
