package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/bitfield/view"
)

type modelState int

const (
	stateSelectField modelState = iota
	stateEditValue
)

type interactiveModel struct {
	err      error
	view     view.View
	rows     []row
	input    textinput.Model
	selected int
	state    modelState
	styled   bool
}

func newInteractiveModel(v view.View, styled bool) *interactiveModel {
	m := &interactiveModel{
		view:   v,
		styled: styled,
		state:  stateSelectField,
	}
	m.refresh()
	return m
}

func (m *interactiveModel) refresh() {
	m.rows = collect(m.view, "", 0)
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == stateEditValue {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.state == stateEditValue {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.state = stateSelectField
			return m, nil
		case "enter":
			m.err = setField(m.view, m.rows[m.selected].path, m.input.Value())
			m.refresh()
			m.state = stateSelectField
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.rows)-1 {
			m.selected++
		}

	case "n":
		m.view.Normalize()
		m.refresh()

	case "enter":
		r := m.rows[m.selected]
		if !r.leaf {
			return m, nil
		}
		ti := textinput.New()
		ti.Placeholder = r.typ
		ti.Prompt = r.path + ": "
		ti.Width = 40
		ti.SetValue(r.value)
		ti.Focus()
		m.input = ti
		m.err = nil
		m.state = stateEditValue
		return m, textinput.Blink
	}
	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(renderTable(m.view, m.selected, m.styled))
	b.WriteString("\n\n")
	b.WriteString(renderHex(m.view))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	switch m.state {
	case stateSelectField:
		b.WriteString(helpStyle.Render("↑/↓ select • enter edit • n normalize • q quit"))
	case stateEditValue:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
	}

	return b.String()
}

// runInteractive edits the view until the user quits and returns the
// resulting bytes.
func runInteractive(v view.View, styled bool) ([]byte, error) {
	p := tea.NewProgram(newInteractiveModel(v, styled), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return nil, err
	}
	return v.Bytes(), nil
}
