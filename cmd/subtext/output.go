// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SubtextAI/subtext/internal/audit"
	"github.com/SubtextAI/subtext/internal/classifier"
)

var labelStyle = lipgloss.NewStyle().Bold(true)

// printResult writes one assessment, honoring --json.
func printResult(result audit.Result) error {
	if jsonOutput {
		return printJSON(struct {
			Result audit.Result    `json:"result"`
			Tier   classifier.Tier `json:"tier"`
		}{result, classifier.TierOf(result.RiskLevel)})
	}

	tier := classifier.TierOf(result.RiskLevel)
	fmt.Printf("%s %s (score %d/10)\n", labelStyle.Render("Risk:"), tier.Render(), result.Score)
	if len(result.IdentifiedCodes) > 0 {
		fmt.Printf("%s %s\n", labelStyle.Render("Identified codes:"),
			strings.Join(result.IdentifiedCodes, ", "))
	}
	fmt.Printf("%s %s\n", labelStyle.Render("Explanation:"), result.Explanation)
	fmt.Printf("%s %s\n", labelStyle.Render("Plain reading:"), result.TranslatedText)
	return nil
}

// printEntry writes one history entry, honoring --json.
func printEntry(entry audit.Entry) error {
	if jsonOutput {
		return printJSON(struct {
			audit.Entry
			Tier classifier.Tier `json:"tier"`
		}{entry, classifier.TierOf(entry.RiskLevel)})
	}

	fmt.Printf("%s #%d  %s\n", labelStyle.Render("Audit"), entry.ID,
		entry.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("%s %s\n", labelStyle.Render("Input:"), entry.Input)
	return printResult(entry.Result)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
