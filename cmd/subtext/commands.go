// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SubtextAI/subtext/internal/analyzer"
	"github.com/SubtextAI/subtext/internal/audit"
	"github.com/SubtextAI/subtext/internal/config"
	"github.com/SubtextAI/subtext/internal/history"
	"github.com/SubtextAI/subtext/internal/storage"
	"github.com/SubtextAI/subtext/pkg/logging"
)

// --- Global Command Variables ---
var (
	jsonOutput bool
	configFile string

	rootCmd = &cobra.Command{
		Use:   "subtext",
		Short: "Audit free text for coded language and hidden risk",
		Long: `Subtext submits text to an AI analysis service and reports a
structured risk assessment: a score, a risk tier, the coded terms it
identified, and a plain-language reading of the text. The last ten
audits are kept in a local history.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"emit machine-readable JSON output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default ~/.subtext/subtext.yaml)")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
}

// session wires one CLI invocation's collaborators together: config,
// logger, storage, history, analyzer, controller. All state that the
// original design kept ambient lives here and is torn down by Close.
type session struct {
	cfg        config.Config
	logger     *logging.Logger
	kv         *storage.Store
	history    *history.Store
	controller *audit.Controller
}

func newSession() (*session, error) {
	var cfg config.Config
	var err error
	if configFile != "" {
		cfg, err = config.LoadFrom(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Logging.Level),
		LogDir:  cfg.Logging.Dir,
		Service: "cli",
	})
	if err != nil {
		return nil, err
	}

	kv, err := storage.Open(storage.DefaultConfig(cfg.History.Path))
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("open history storage: %w", err)
	}

	store := history.NewStore(kv, logger.Logger)
	if err := store.Load(); err != nil {
		kv.Close()
		logger.Close()
		return nil, err
	}

	backend, cred, err := buildAnalyzer(cfg)
	if err != nil {
		kv.Close()
		logger.Close()
		return nil, err
	}

	return &session{
		cfg:        cfg,
		logger:     logger,
		kv:         kv,
		history:    store,
		controller: audit.NewController(backend, store, cred, logger.Logger),
	}, nil
}

func (s *session) Close() {
	s.kv.Close()
	s.logger.Close()
}

// buildAnalyzer constructs the configured backend. When the credential
// is absent the analyzer may be nil: the controller checks presence
// before every call and reports ConfigurationError without touching it.
func buildAnalyzer(cfg config.Config) (analyzer.Analyzer, *config.Credential, error) {
	switch cfg.Backend.Type {
	case "openai":
		cred := config.ResolveCredential(config.EnvOpenAIAPIKey, config.SecretPathOpenAIAPIKey)
		if !cred.Present() {
			return nil, cred, nil
		}
		apiKey, err := cred.Reveal()
		if err != nil {
			return nil, nil, err
		}
		backend, err := analyzer.NewOpenAIAnalyzer(apiKey, cfg.Backend.Model, cfg.Backend.BaseURL)
		if err != nil {
			return nil, nil, err
		}
		return backend, cred, nil

	case "ollama":
		cred := config.NewStaticCredential(cfg.Backend.BaseURL)
		if !cred.Present() {
			return nil, cred, nil
		}
		backend, err := analyzer.NewOllamaAnalyzer(cfg.Backend.BaseURL, cfg.Backend.Model)
		if err != nil {
			return nil, nil, err
		}
		return backend, cred, nil

	default:
		return nil, nil, fmt.Errorf("unknown analyzer backend %q (expected openai or ollama)", cfg.Backend.Type)
	}
}
