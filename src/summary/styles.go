package summary

import (
	"github.com/charmbracelet/lipgloss"

	"build-predictor/src/contracts"
)

// StyleConfig holds the colors of the console summary.
type StyleConfig struct {
	TitleColor   lipgloss.Color
	LabelColor   lipgloss.Color
	TextPrimary  lipgloss.Color
	BorderColor  lipgloss.Color
	SuccessColor lipgloss.Color
	FailureColor lipgloss.Color
	UnknownColor lipgloss.Color
	AbortedColor lipgloss.Color
}

// DefaultStyles returns the default color palette
func DefaultStyles() *StyleConfig {
	return &StyleConfig{
		TitleColor:   lipgloss.Color("#8AB4F8"),
		LabelColor:   lipgloss.Color("#9AA0A6"),
		TextPrimary:  lipgloss.Color("#E8EAED"),
		BorderColor:  lipgloss.Color("#5F6368"),
		SuccessColor: lipgloss.Color("#34A853"),
		FailureColor: lipgloss.Color("#EA4335"),
		UnknownColor: lipgloss.Color("#FBBC04"),
		AbortedColor: lipgloss.Color("#A142F4"),
	}
}

func (s *StyleConfig) boxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.BorderColor).
		Padding(0, 1)
}

func (s *StyleConfig) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.TitleColor).
		Bold(true)
}

func (s *StyleConfig) labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.LabelColor).
		Width(13)
}

func (s *StyleConfig) valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.TextPrimary)
}

// outcomeStyle colors the prediction line by outcome.
func (s *StyleConfig) outcomeStyle(o contracts.Outcome) lipgloss.Style {
	color := s.UnknownColor
	switch o {
	case contracts.OutcomeSuccess:
		color = s.SuccessColor
	case contracts.OutcomeFailure:
		color = s.FailureColor
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true)
}
