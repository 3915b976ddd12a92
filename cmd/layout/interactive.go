package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type modelState int

const (
	stateSelect modelState = iota
	stateLayout
	stateInputCode
	stateShowResult
)

// disasmItem is the menu entry after the layouts.
const disasmItem = "disassemble arm64"

type interactiveModel struct {
	err      error
	backend  string
	result   string
	items    []string
	input    textinput.Model
	selected int
	state    modelState
	debug    bool
}

type disasmMsg struct {
	err    error
	result string
}

func newInteractiveModel(backend string, debug bool) *interactiveModel {
	items := append([]string(nil), layoutOrder...)
	return &interactiveModel{
		backend: backend,
		debug:   debug,
		items:   append(items, disasmItem),
		state:   stateSelect,
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
			if m.state != stateInputCode {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelect && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelect && m.selected < len(m.items)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelect:
				if m.items[m.selected] == disasmItem {
					m.prepareInput()
					m.state = stateInputCode
					return m, textinput.Blink
				}
				m.state = stateLayout

			case stateInputCode:
				return m, m.disassemble(m.input.Value())

			case stateLayout, stateShowResult:
				m.reset()
			}
			return m, nil

		case "esc":
			if m.state != stateSelect {
				m.reset()
			}
			return m, nil
		}

	case disasmMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateInputCode {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateSelect
	m.result = ""
	m.err = nil
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = "1f2003d5 c0035fd6"
	ti.Prompt = "hex: "
	ti.Width = 48
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) disassemble(code string) tea.Cmd {
	backend, debug := m.backend, m.debug
	return func() tea.Msg {
		var buf bytes.Buffer
		if err := disasm(&buf, code, "0x1000", backend, debug, true); err != nil {
			return disasmMsg{err: err}
		}
		return disasmMsg{result: buf.String()}
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Native Layouts"))
	b.WriteString(" ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("backend=%s debug=%v", m.backend, m.debug)))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelect:
		for i, item := range m.items {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + item))
			} else {
				b.WriteString("  " + item)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("↑/↓ select • enter open • q quit"))

	case stateLayout:
		var out bytes.Buffer
		printLayout(&out, layouts[m.items[m.selected]](), true)
		b.WriteString(out.String())
		b.WriteString(dimStyle.Render("enter back • q quit"))

	case stateInputCode:
		b.WriteString("AArch64 machine code, loaded at 0x1000:\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("enter run • esc back"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		} else if m.result == "" {
			b.WriteString(dimStyle.Render("no valid instructions"))
			b.WriteString("\n")
		} else {
			b.WriteString(m.result)
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(backend string, debug bool) error {
	p := tea.NewProgram(newInteractiveModel(backend, debug), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
