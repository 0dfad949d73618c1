// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SubtextAI/subtext/internal/audit"
	"github.com/SubtextAI/subtext/internal/config"
)

var auditCmd = &cobra.Command{
	Use:   "audit [text]",
	Short: "Audit a piece of text for coded language",
	Long: `Submit text to the analyzer and print the risk assessment.

The text can be given as arguments or piped on stdin:

  subtext audit "clear the guests from the ground"
  cat statement.txt | subtext audit

A successful audit is added to the local history (the last ten are
kept). Failed audits are reported and not stored; resubmit manually
after fixing the cause.`,
	Args: cobra.ArbitraryArgs,
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(raw)
	}

	session, err := newSession()
	if err != nil {
		return err
	}
	defer session.Close()

	result, err := session.controller.Submit(cmd.Context(), text)
	if err != nil {
		return auditErrorNotice(err, session.cfg)
	}
	if result == nil {
		fmt.Fprintln(os.Stderr, "Nothing to audit.")
		return nil
	}

	return printResult(*result)
}

// auditErrorNotice turns a typed audit failure into the user-facing
// notice. Nothing is retried automatically.
func auditErrorNotice(err error, cfg config.Config) error {
	var cfgErr *audit.ConfigurationError
	if errors.As(err, &cfgErr) {
		if cfg.Backend.Type == "openai" {
			return fmt.Errorf("%w\nSet %s or provide the key at %s",
				err, config.EnvOpenAIAPIKey, config.SecretPathOpenAIAPIKey)
		}
		return fmt.Errorf("%w\nSet backend.base_url in your config file", err)
	}

	var linkErr *audit.LinkError
	if errors.As(err, &linkErr) {
		return fmt.Errorf("%w\nThe analyzer could not be reached; you may resubmit", err)
	}

	var malErr *audit.MalformedResponseError
	if errors.As(err, &malErr) {
		return fmt.Errorf("%w\nThe response was discarded; nothing was stored", err)
	}
	return err
}
