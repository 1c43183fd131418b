package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"allai/models"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	modelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

var markdownRenderer *glamour.TermRenderer

func init() {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err == nil {
		markdownRenderer = r
	}
}

func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	out, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

// modelHeader labels a reply with the model name and selected version.
func modelHeader(m models.Model, version string) string {
	label := m.Name
	if version != "" {
		label = fmt.Sprintf("%s · %s", m.Name, version)
	}
	return modelStyle.Render("── " + label + " ")
}

// errorMessage extracts "error" from a JSON error body.
func errorMessage(body string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}
