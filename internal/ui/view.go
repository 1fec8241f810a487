package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	effectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("218"))
	ambientStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("224")).Faint(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	now := m.now()

	if m.effects != nil {
		b.WriteString(ambientStyle.Render(m.effects.RenderAmbient(now, m.width)) + "\n")
	}
	b.WriteString(titleStyle.Render("Blossom") + "\n")
	b.WriteString(counterStyle.Render(PendingText(m.ctrl.PendingCount())) + "\n\n")

	indent := ""
	if now.Before(m.shakeUntil) && (now.UnixMilli()/80)%2 == 0 {
		indent = "  "
	}
	b.WriteString(indent + m.input.View() + "\n\n")

	writeTasks(&b, m)

	if m.effects != nil {
		b.WriteString("\n" + effectStyle.Render(m.effects.Render(now, m.width)) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.confirming:
		b.WriteString(promptStyle.Render(m.status) + "\n")
	case m.status != "" && m.statusErr:
		b.WriteString(errorStyle.Render(m.status) + "\n")
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status) + "\n")
	default:
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.helpLine()) + "\n")
	return b.String()
}

// PendingText renders the pending counter.
func PendingText(n int) string {
	if n == 1 {
		return "You have 1 task pending"
	}
	return fmt.Sprintf("You have %d tasks pending", n)
}

func writeTasks(b *strings.Builder, m *Model) {
	if len(m.tasks) == 0 {
		b.WriteString(helpStyle.Render("  No tasks yet.") + "\n")
		return
	}
	for i, task := range m.tasks {
		marker := "  "
		if m.focus == focusList && i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		check := "[ ]"
		text := task.Text
		if task.Completed {
			check = "[x]"
			text = doneStyle.Render(text)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", marker, check, text))
	}
}

func (m *Model) helpLine() string {
	if m.confirming {
		return "y confirm | n cancel"
	}
	if m.focus == focusInput {
		return "enter add | tab list | ctrl+l clear all | ctrl+c quit"
	}
	return "space toggle | d delete | C clear all | a add | q quit"
}
