package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/diffcheck/internal/config"
	"github.com/nconklindev/diffcheck/internal/logging"
	"github.com/nconklindev/diffcheck/internal/progress"
	"github.com/nconklindev/diffcheck/internal/runner"
	"github.com/nconklindev/diffcheck/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type state int

const (
	stateFirstFile state = iota
	stateSecondFile
	stateOptions
	stateProcessing
	stateComplete
	stateError
)

// option rows on the options screen
const (
	rowKeyHeader = iota
	rowMode
	rowCoercion
	rowCount
)

var (
	tabularTypes  = []string{".csv", ".xlsx", ".xlsm"}
	documentTypes = []string{".pdf"}
)

type Model struct {
	state        state
	filepicker   filepicker.Model
	files        []string
	kind         types.Kind
	opts         config.Options
	keyInput     textinput.Model
	cursor       int
	result       *types.ComparisonResult
	err          error
	width        int
	height       int
	progress     bprogress.Model
	progressChan chan float64
	resultChan   chan comparisonResultMsg
	cancel       context.CancelFunc
	logger       *log.Logger
}

type comparisonResultMsg struct {
	result *types.ComparisonResult
	err    error
}

type comparisonCompleteMsg struct {
	result *types.ComparisonResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

// InitialModel starts on the file picker with the given options. logger
// must not write to the terminal the program draws on.
func InitialModel(opts config.Options, logger *log.Logger) Model {
	fp := filepicker.New()
	fp.AllowedTypes = append(append([]string{}, tabularTypes...), documentTypes...)
	fp.CurrentDirectory, _ = os.Getwd()

	fp.Styles = pickerStyles()

	key := textinput.New()
	key.Prompt = ""
	key.CharLimit = 64
	key.SetValue(opts.KeyHeader)

	prog := bprogress.New(bprogress.WithGradient("#FF8C42", "#FF9F5A"))

	if logger == nil {
		logger = logging.Discard()
	}

	return Model{
		state:      stateFirstFile,
		filepicker: fp,
		opts:       opts,
		keyInput:   key,
		progress:   prog,
		logger:     logger,
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for title, subtitle, selection and help text
		height := msg.Height - 16
		if height < 5 {
			height = 5 // Minimum height
		}

		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFirstFile, stateSecondFile:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "ctrl+r":
				if m.state == stateSecondFile {
					return m.reset(), nil
				}
			}

		case stateOptions:
			return m.updateOptions(msg)

		case stateProcessing:
			if msg.String() == "ctrl+c" && m.cancel != nil {
				m.cancel()
			}
			return m, nil

		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case comparisonCompleteMsg:
		if m.cancel != nil {
			m.cancel()
		}
		if msg.err != nil {
			m.logger.Error("comparison failed", "err", msg.err)
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case bprogress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(bprogress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	// Handle filepicker updates
	if m.state == stateFirstFile || m.state == stateSecondFile {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			return m.selectFile(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) reset() Model {
	m.files = nil
	m.kind = ""
	m.state = stateFirstFile
	m.filepicker.AllowedTypes = append(append([]string{}, tabularTypes...), documentTypes...)
	return m
}

func (m Model) selectFile(path string) (Model, tea.Cmd) {
	m.files = append(m.files, path)

	if m.state == stateFirstFile {
		kind, err := runner.Detect(m.files, m.opts.FileType)
		if err != nil {
			m.err = err
			m.state = stateError
			return m, nil
		}
		m.kind = kind
		if kind == types.KindDocument {
			m.filepicker.AllowedTypes = documentTypes
		} else {
			m.filepicker.AllowedTypes = tabularTypes
		}
		m.state = stateSecondFile
		return m, m.filepicker.Init()
	}

	m.state = stateOptions
	m.cursor = rowKeyHeader
	var cmd tea.Cmd
	if m.kind == types.KindTabular {
		cmd = m.keyInput.Focus()
	}
	return m, cmd
}

func (m Model) updateOptions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		if m.kind == types.KindTabular {
			key := strings.TrimSpace(m.keyInput.Value())
			if key == "" {
				return m, nil
			}
			m.opts.KeyHeader = key
		}
		m.keyInput.Blur()
		m.state = stateProcessing
		return m.compare()
	}

	if m.kind != types.KindTabular {
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}
		return m.focusCursor()
	case "down", "tab":
		if m.cursor < rowCount-1 {
			m.cursor++
		}
		return m.focusCursor()
	}

	if m.cursor == rowKeyHeader {
		var cmd tea.Cmd
		m.keyInput, cmd = m.keyInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "m":
		m.opts.AlignmentMode = toggleMode(m.opts.AlignmentMode)
	case " ":
		if m.cursor == rowMode {
			m.opts.AlignmentMode = toggleMode(m.opts.AlignmentMode)
		} else {
			m.opts.NumericCoercion = !m.opts.NumericCoercion
		}
	case "c":
		m.opts.NumericCoercion = !m.opts.NumericCoercion
	}
	return m, nil
}

func (m Model) focusCursor() (tea.Model, tea.Cmd) {
	if m.cursor == rowKeyHeader {
		cmd := m.keyInput.Focus()
		return m, cmd
	}
	m.keyInput.Blur()
	return m, nil
}

func toggleMode(mode types.AlignmentMode) types.AlignmentMode {
	if mode == types.AlignByRow {
		return types.AlignByKey
	}
	return types.AlignByRow
}

func (m Model) compare() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan comparisonResultMsg, 1)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	opts := m.opts
	opts.ReturnMetadata = true
	opts.Progress = progress.Channel(m.progressChan)

	// Capture values for the goroutine
	progressChan := m.progressChan
	resultChan := m.resultChan
	files := append([]string(nil), m.files...)
	logger := m.logger

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				result, err := runner.Run(ctx, files, opts, logger)

				// Send result
				resultChan <- comparisonResultMsg{result: result, err: err}

				// Close channels
				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		m.progress.Init(), // Start progress bar animation
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan comparisonResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultChan
			if ok {
				return comparisonCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFirstFile, stateSecondFile:
		return m.viewFilePicker()
	case stateOptions:
		return m.viewOptions()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	title := TitleStyle.Render("⇄ diffcheck - Spreadsheet & PDF Comparison")

	authorSpan := SubtitleStyle.Render("by Nick Conklin • ")
	githubSpan := LinkStyle.Render("https://github.com/nconklindev/diffcheck")
	byLine := lipgloss.JoinHorizontal(lipgloss.Top, authorSpan, githubSpan)

	s.WriteString(lipgloss.JoinVertical(lipgloss.Left, title, byLine))
	s.WriteString("\n")
	if m.state == stateFirstFile {
		s.WriteString(SubtitleStyle.Render("Select the original file (CSV, XLSX or PDF)"))
	} else {
		s.WriteString(CheckedStyle.Render(fmt.Sprintf("File 1: %s", filepath.Base(m.files[0]))))
		s.WriteString("\n")
		s.WriteString(SubtitleStyle.Render("Select the file to compare against"))
	}
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	if m.state == stateSecondFile {
		s.WriteString(HelpStyle.Render("ctrl+r: start over • q: quit"))
	} else {
		s.WriteString(HelpStyle.Render("Press q to quit"))
	}

	return s.String()
}

func (m Model) viewOptions() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("⇄ Comparison Options"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s vs %s", filepath.Base(m.files[0]), filepath.Base(m.files[1]))))
	s.WriteString("\n\n")

	if m.kind != types.KindTabular {
		s.WriteString(fmt.Sprintf("Visual threshold: %.2f • Block size: %d\n", m.opts.VisualThreshold, m.opts.BlockSize))
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("enter: compare • q: quit"))
		return BoxStyle.Render(s.String())
	}

	coercion := "[ ]"
	if m.opts.NumericCoercion {
		coercion = "[x]"
	}
	rows := []struct{ label, value string }{
		{"Key header", m.keyInput.View()},
		{"Alignment mode", string(m.opts.AlignmentMode)},
		{"Numeric coercion", coercion},
	}
	for i, row := range rows {
		cursor := "  "
		value := UnselectedStyle.Render(row.value)
		if m.cursor == i {
			cursor = SelectedStyle.Render("> ")
			value = SelectedStyle.Render(row.value)
		}
		s.WriteString(cursor + LabelStyle.Render(row.label) + value)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: navigate • type: edit key • space/m: toggle mode • c: coercion • enter: compare • esc: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("⇄ Comparing..."))
	s.WriteString("\n\n")
	if m.kind == types.KindDocument {
		s.WriteString("Rendering pages and highlighting differences...")
	} else {
		s.WriteString("Aligning columns and rows...")
	}
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("ctrl+c: cancel"))

	return BoxStyle.Render(s.String())
}

func (m Model) truncate(path string) string {
	// Truncate paths if they're too long
	maxPathLen := m.width - 20 // Leave room for padding and borders
	if maxPathLen < 30 {
		maxPathLen = 30
	}
	if len(path) > maxPathLen {
		return "..." + path[len(path)-maxPathLen+3:]
	}
	return path
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Comparison Complete!"))
	s.WriteString("\n\n")

	s.WriteString(fmt.Sprintf("File 1: %s\n", m.truncate(m.result.InputFiles[0])))
	s.WriteString(fmt.Sprintf("File 2: %s\n", m.truncate(m.result.InputFiles[1])))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s\n", m.truncate(m.result.OutputFile))))
	s.WriteString("\n")
	if meta := m.result.Tabular; meta != nil {
		s.WriteString(fmt.Sprintf("Rows compared: %d\n", meta.RowsCompared))
		s.WriteString(fmt.Sprintf("Key header: %s • Mode: %s\n", meta.KeyHeaderUsed, meta.AlignmentMode))
	}
	if meta := m.result.Document; meta != nil {
		s.WriteString(fmt.Sprintf("Pages compared: %d\n", meta.PagesCompared))
	}
	s.WriteString("\n")
	for _, step := range m.result.CosmeticFailures {
		s.WriteString(HelpStyle.Render("warning: "+step) + "\n")
	}
	s.WriteString(RemovedStyle.Render("■ changed in file 1") + "  " + AddedStyle.Render("■ changed in file 2"))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}
