package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/jvmtools/classread/class"
	"github.com/jvmtools/classread/classprint"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	memberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserState int

const (
	stateSelectMethod browserState = iota
	stateShowDetail
)

type methodInfo struct {
	name   string
	desc   string
	method class.Method
}

type browserModel struct {
	err       error
	cf        *class.ClassFile
	filename  string
	header    string
	methods   []methodInfo
	detail    methodInfo
	viewport  viewport.Model
	filter    textinput.Model
	selected  int
	width     int
	height    int
	state     browserState
	ready     bool
	filtering bool
}

type classLoadedMsg struct {
	err     error
	cf      *class.ClassFile
	header  string
	methods []methodInfo
}

func newBrowserModel(filename string) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "method name"
	ti.Prompt = "/ "
	ti.Width = 40
	return &browserModel{filename: filename, state: stateSelectMethod, filter: ti}
}

func (m *browserModel) Init() tea.Cmd {
	return m.loadClass
}

func (m *browserModel) loadClass() tea.Msg {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return classLoadedMsg{err: err}
	}
	cf, _, err := class.ParseClassFile(data)
	if err != nil {
		return classLoadedMsg{err: err}
	}
	header, err := classprint.Render(cf)
	if err != nil {
		return classLoadedMsg{err: err}
	}

	var methods []methodInfo
	for _, method := range cf.Methods {
		name, err := cf.ConstantPool.Utf8At(method.NameIndex)
		if err != nil {
			return classLoadedMsg{err: err}
		}
		desc, err := cf.ConstantPool.Utf8At(method.DescriptorIndex)
		if err != nil {
			return classLoadedMsg{err: err}
		}
		methods = append(methods, methodInfo{
			name:   string(name),
			desc:   string(desc),
			method: method,
		})
	}
	return classLoadedMsg{cf: cf, header: header, methods: methods}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case classLoadedMsg:
		m.err = msg.err
		m.cf = msg.cf
		m.header = msg.header
		m.methods = msg.methods
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "enter":
				m.filtering = false
				m.filter.Blur()
			case "esc":
				m.filtering = false
				m.filter.Blur()
				m.filter.SetValue("")
			default:
				var cmd tea.Cmd
				m.filter, cmd = m.filter.Update(msg)
				m.clampSelected()
				return m, cmd
			}
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "/":
			if m.state == stateSelectMethod {
				m.filtering = true
				return m, m.filter.Focus()
			}
		case "up", "k":
			if m.state == stateSelectMethod && m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.state == stateSelectMethod && m.selected < len(m.visibleMethods())-1 {
				m.selected++
			}
		case "enter":
			if visible := m.visibleMethods(); m.state == stateSelectMethod && len(visible) > 0 {
				m.detail = visible[m.selected]
				m.viewport.SetContent(m.methodDetail(m.detail))
				m.viewport.GotoTop()
				m.state = stateShowDetail
			}
		case "esc":
			if m.state == stateShowDetail {
				m.state = stateSelectMethod
			} else if m.filter.Value() != "" {
				m.filter.SetValue("")
				m.clampSelected()
			}
		}
	}

	if m.state == stateShowDetail {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// visibleMethods returns the methods whose names contain the filter text.
func (m *browserModel) visibleMethods() []methodInfo {
	query := m.filter.Value()
	if query == "" {
		return m.methods
	}
	var visible []methodInfo
	for _, info := range m.methods {
		if strings.Contains(info.name, query) {
			visible = append(visible, info)
		}
	}
	return visible
}

func (m *browserModel) clampSelected() {
	if n := len(m.visibleMethods()); m.selected >= n {
		m.selected = 0
	}
}

func (m *browserModel) methodDetail(info methodInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", info.method.AccessFlags.Modifiers(), info.name)
	fmt.Fprintf(&b, "descriptor: %s\n", info.desc)
	fmt.Fprintf(&b, "flags: %s\n\n", strings.Join(info.method.AccessFlags.Names(), ", "))

	listing, err := disassemble(m.cf, info.method)
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("disassemble: %v", err))
	}
	b.WriteString(listing)
	return b.String()
}

func (m *browserModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n" +
			helpStyle.Render("q: quit")
	}
	if m.cf == nil {
		return "Loading " + m.filename + "..."
	}

	switch m.state {
	case stateShowDetail:
		title := titleStyle.Render(m.detail.name)
		help := helpStyle.Render("esc: back • up/down: scroll • q: quit")
		return title + "\n" + m.viewport.View() + "\n" + help

	default:
		var b strings.Builder
		b.WriteString(titleStyle.Render("Class: "+m.filename) + "\n\n")
		b.WriteString(m.header)
		b.WriteString("\nMethods:\n")
		for i, info := range m.visibleMethods() {
			line := fmt.Sprintf("  %s %s", memberStyle.Render(info.name), descStyle.Render(info.desc))
			if i == m.selected {
				line = selectedStyle.Render(fmt.Sprintf("> %s %s", info.name, info.desc))
			}
			b.WriteString(line + "\n")
		}
		if m.filtering || m.filter.Value() != "" {
			b.WriteString("\n" + m.filter.View())
		}
		b.WriteString("\n" + helpStyle.Render("enter: disassemble • up/down: select • /: filter • q: quit"))
		return b.String()
	}
}

func runInteractive(filename string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal")
	}
	p := tea.NewProgram(newBrowserModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
