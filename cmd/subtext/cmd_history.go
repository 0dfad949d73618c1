// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SubtextAI/subtext/internal/classifier"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the last ten audits, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Re-display one past audit by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the audit history and its persisted snapshot",
	RunE:  runHistoryClear,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	session, err := newSession()
	if err != nil {
		return err
	}
	defer session.Close()

	entries := session.history.Entries()
	if jsonOutput {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No audits recorded yet.")
		return nil
	}

	for _, e := range entries {
		input := e.Input
		if len(input) > 60 {
			input = input[:57] + "..."
		}
		fmt.Printf("#%-3d %s  %-8s %2d/10  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			classifier.TierOf(e.RiskLevel).Render(),
			e.Score,
			input)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid history id %q", args[0])
	}

	session, err := newSession()
	if err != nil {
		return err
	}
	defer session.Close()

	entry, ok := session.history.Select(id)
	if !ok {
		return fmt.Errorf("no history entry with id %d", id)
	}
	return printEntry(entry)
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	session, err := newSession()
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.history.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "History cleared.")
	return nil
}
