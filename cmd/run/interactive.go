package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-bridge/engine"
	"github.com/wippyai/wasm-bridge/runtime"
	"github.com/wippyai/wasm-bridge/wasm"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err         error
	rt          *runtime.Runtime
	instance    *runtime.Instance
	opts        *engine.Options
	module      []byte
	filename    string
	result      string
	resultTitle string
	funcs       []wasm.FuncSignature
	inputs      []textinput.Model
	selected    int
	focusIdx    int
	state       modelState
}

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInputArgs
	stateMemPeek
	stateShowResult
)

func newInteractiveModel(filename string, opts *engine.Options) *interactiveModel {
	return &interactiveModel{
		filename: filename,
		opts:     opts,
		state:    stateSelectFunc,
	}
}

type loadedMsg struct {
	err   error
	rt    *runtime.Runtime
	mod   []byte
	funcs []wasm.FuncSignature
}

type callResultMsg struct {
	err    error
	title  string
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadModule
}

func (m *interactiveModel) loadModule() tea.Msg {
	ctx := context.Background()

	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	funcs, err := wasm.ExportedFunctions(data)
	if err != nil {
		return loadedMsg{err: err}
	}

	rt, err := runtime.New(ctx)
	if err != nil {
		return loadedMsg{err: err}
	}

	return loadedMsg{funcs: funcs, rt: rt, mod: data}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			ctx := context.Background()
			if m.instance != nil {
				m.instance.Close(ctx)
			}
			if m.rt != nil {
				m.rt.Close(ctx)
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectFunc && m.selected < len(m.funcs)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectFunc:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callFunction
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callFunction

			case stateMemPeek:
				return m, m.peekMemory

			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}

		case "m":
			if m.state == stateSelectFunc {
				m.prepareMemInputs()
				m.state = stateMemPeek
			}

		case "tab":
			if (m.state == stateInputArgs || m.state == stateMemPeek) && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs, stateMemPeek:
				m.state = stateSelectFunc
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.funcs = msg.funcs
		m.rt = msg.rt
		m.module = msg.mod

	case callResultMsg:
		m.result = msg.result
		m.resultTitle = msg.title
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs || m.state == stateMemPeek {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	f := m.funcs[m.selected]
	m.inputs = make([]textinput.Model, len(f.Params))
	for i, p := range f.Params {
		ti := textinput.New()
		ti.Placeholder = valTypeStr(p)
		ti.Prompt = fmt.Sprintf("arg%d: ", i)
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) prepareMemInputs() {
	m.inputs = make([]textinput.Model, 2)
	for i, label := range []string{"offset", "length"} {
		ti := textinput.New()
		ti.Placeholder = "0"
		ti.Prompt = label + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) ensureInstance(ctx context.Context) error {
	if m.instance != nil {
		return nil
	}
	if m.module == nil {
		return fmt.Errorf("module not loaded")
	}
	ins, err := m.rt.Instantiate(ctx, m.module, m.opts, demoHosts())
	if err != nil {
		return err
	}
	m.instance = ins
	return nil
}

func (m *interactiveModel) peekMemory() tea.Msg {
	ctx := context.Background()
	if err := m.ensureInstance(ctx); err != nil {
		return callResultMsg{err: err}
	}

	offset, err := strconv.ParseInt(strings.TrimSpace(m.inputs[0].Value()), 0, 32)
	if err != nil {
		return callResultMsg{err: fmt.Errorf("offset: %w", err)}
	}
	length, err := strconv.ParseInt(strings.TrimSpace(m.inputs[1].Value()), 0, 32)
	if err != nil {
		return callResultMsg{err: fmt.Errorf("length: %w", err)}
	}

	data, err := m.instance.Memory().Read(int32(offset), int32(length))
	if err != nil {
		return callResultMsg{err: err, title: "memory"}
	}
	return callResultMsg{result: hex.Dump(data), title: "memory"}
}

func (m *interactiveModel) callFunction() tea.Msg {
	ctx := context.Background()
	if err := m.ensureInstance(ctx); err != nil {
		return callResultMsg{err: err}
	}

	f := m.funcs[m.selected]
	args := make([]uint64, len(m.inputs))
	for i, input := range m.inputs {
		v, err := parseArg(strings.TrimSpace(input.Value()), f.Params[i])
		if err != nil {
			return callResultMsg{err: fmt.Errorf("arg%d: %w", i, err)}
		}
		args[i] = v
	}

	results, err := m.instance.Execute(ctx, f.Name, args)
	if err != nil {
		return callResultMsg{err: err, title: f.Name}
	}

	return callResultMsg{result: formatResults(results, f.Results), title: f.Name}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if len(m.funcs) == 0 {
		return "Loading module..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("WASM Bridge"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectFunc:
		b.WriteString("Select a function to call:\n\n")
		for i, f := range m.funcs {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + m.formatFunc(f)))
			} else {
				b.WriteString(cursor + m.formatFunc(f))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • m memory • q quit"))

	case stateInputArgs:
		f := m.funcs[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(f.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(valTypeStr(f.Params[i])))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateMemPeek:
		b.WriteString("Read guest memory\n\n")
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter read • esc back"))

	case stateShowResult:
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(m.resultTitle)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatFunc(f wasm.FuncSignature) string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = typeStyle.Render(valTypeStr(p))
	}
	out := funcStyle.Render(f.Name) + "(" + strings.Join(params, ", ") + ")"
	if len(f.Results) > 0 {
		rs := make([]string, len(f.Results))
		for i, r := range f.Results {
			rs[i] = typeStyle.Render(valTypeStr(r))
		}
		out += " -> " + strings.Join(rs, ", ")
	}
	return out
}

func runInteractive(filename string, opts *engine.Options) error {
	p := tea.NewProgram(newInteractiveModel(filename, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
