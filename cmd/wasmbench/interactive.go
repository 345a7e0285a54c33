package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-bench/generator"
	"github.com/wippyai/wasm-bench/scenario"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	infoStyle = lipgloss.NewStyle().
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

type modelState int

const (
	stateSelectScenario modelState = iota
	stateInputDir
	stateGenerating
	stateShowResult
)

type interactiveModel struct {
	err       error
	gen       *generator.Generator
	result    *generatedMsg
	scenarios []scenario.Scenario
	input     textinput.Model
	selected  int
	state     modelState
	binary    bool
}

type generatedMsg struct {
	err    error
	paths  []string
	text   int
	binary int
}

func newInteractiveModel(g *generator.Generator, outDir string, binary bool) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "output directory (blank: don't write)"
	ti.Prompt = "dir: "
	ti.Width = 50
	ti.SetValue(outDir)

	return &interactiveModel{
		gen:       g,
		scenarios: scenario.All(),
		input:     ti,
		binary:    binary,
		state:     stateSelectScenario,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputDir {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectScenario && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectScenario && m.selected < len(m.scenarios)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectScenario:
				m.state = stateInputDir
				return m, m.input.Focus()

			case stateInputDir:
				m.input.Blur()
				m.state = stateGenerating
				return m, m.generate(m.scenarios[m.selected], strings.TrimSpace(m.input.Value()))

			case stateShowResult:
				m.state = stateSelectScenario
				m.result = nil
			}

		case "esc":
			switch m.state {
			case stateInputDir:
				m.input.Blur()
				m.state = stateSelectScenario
			case stateShowResult:
				m.state = stateSelectScenario
				m.result = nil
			}
		}

	case generatedMsg:
		m.result = &msg
		m.state = stateShowResult
	}

	if m.state == stateInputDir {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) generate(s scenario.Scenario, dir string) tea.Cmd {
	g, binary := m.gen, m.binary
	return func() tea.Msg {
		var res generatedMsg

		text, err := g.Generate(s, dir)
		if err != nil {
			return generatedMsg{err: err}
		}
		res.text = len(text)
		if dir != "" {
			res.paths = append(res.paths, generator.OutputPath(dir, s, generator.TextExtension))
		}

		if binary {
			bin, err := g.GenerateBinary(s, dir)
			if err != nil {
				return generatedMsg{err: err}
			}
			res.binary = len(bin)
			if dir != "" {
				res.paths = append(res.paths, generator.OutputPath(dir, s, generator.BinaryExtension))
			}
		}
		return res
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	cfg := m.gen.Config()
	b.WriteString(titleStyle.Render("WASM Bench"))
	b.WriteString(" ")
	b.WriteString(infoStyle.Render(fmt.Sprintf("%d x %d ops", cfg.LoopIterations, cfg.OpsPerIteration)))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectScenario:
		b.WriteString("Select a scenario:\n\n")
		for i, s := range m.scenarios {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + s.String()))
			} else {
				b.WriteString("  " + nameStyle.Render(s.String()))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • q quit"))

	case stateInputDir:
		fmt.Fprintf(&b, "Generating %s\n\n", nameStyle.Render(m.scenarios[m.selected].String()))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter generate • esc back"))

	case stateGenerating:
		fmt.Fprintf(&b, "Generating %s...", nameStyle.Render(m.scenarios[m.selected].String()))

	case stateShowResult:
		fmt.Fprintf(&b, "Result of %s:\n\n", nameStyle.Render(m.scenarios[m.selected].String()))
		if m.result.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.result.err)))
		} else {
			b.WriteString(resultStyle.Render(fmt.Sprintf("%d bytes of text, %d ops total", m.result.text, cfg.TotalOps())))
			if m.result.binary > 0 {
				b.WriteString("\n")
				b.WriteString(resultStyle.Render(fmt.Sprintf("%d bytes of wasm", m.result.binary)))
			}
			for _, p := range m.result.paths {
				b.WriteString("\n")
				b.WriteString(infoStyle.Render("wrote " + p))
			}
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(g *generator.Generator, outDir string, binary bool) error {
	p := tea.NewProgram(newInteractiveModel(g, outDir, binary), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
