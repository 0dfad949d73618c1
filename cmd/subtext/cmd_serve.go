// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/SubtextAI/subtext/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the audit API over HTTP",
	Long: `Expose the auditor on a local HTTP endpoint:

  POST   /v1/audit        run one audit
  GET    /v1/history      list past audits
  GET    /v1/history/:id  re-display one past audit
  DELETE /v1/history      clear the history
  GET    /v1/health       liveness
  GET    /metrics         prometheus metrics

One audit runs at a time; concurrent submissions receive 409.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (default from config, 127.0.0.1:8750)")
}

func runServe(cmd *cobra.Command, args []string) error {
	session, err := newSession()
	if err != nil {
		return err
	}
	defer session.Close()

	addr := serveAddr
	if addr == "" {
		addr = session.cfg.Server.Addr
	}

	router := newServerRouter(session)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		session.logger.Info("serving audit API", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		session.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func newServerRouter(s *session) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	return server.NewRouter(server.NewHandlers(s.controller, s.history, s.logger.Logger))
}
