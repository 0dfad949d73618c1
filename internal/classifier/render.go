// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package classifier

import "github.com/charmbracelet/lipgloss"

var (
	styleLow      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleMedium   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleHigh     = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	styleCritical = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Render returns the tier name styled for terminal output.
//
// Colors follow the usual severity convention: green, yellow, orange,
// red. Output degrades to plain text on non-color terminals; lipgloss
// handles profile detection.
func (t Tier) Render() string {
	switch t {
	case TierCritical:
		return styleCritical.Render(string(t))
	case TierHigh:
		return styleHigh.Render(string(t))
	case TierMedium:
		return styleMedium.Render(string(t))
	default:
		return styleLow.Render(string(t))
	}
}
