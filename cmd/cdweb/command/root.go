// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the cdweb
// project. Commands are organized using the cobra library.
// The root command starts the web server itself while the "db"
// sub-command can be used for the database initialization actions.
// The init-dev and init-prod actions initialize the database with the
// development or production suitable data records.
//
//	./cdweb [-c /path/of/main/config.yaml]           # start web server
//	./cdweb db init-dev [-c /path/of/main/config.yaml]
//	./cdweb db init-prod [-c /path/of/main/config.yaml]
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/momeni/car-deals/pkg/adapter/config"
	"github.com/momeni/car-deals/pkg/adapter/config/cfg1"
	"github.com/momeni/car-deals/pkg/adapter/restful/gin"
	"github.com/momeni/car-deals/pkg/adapter/restful/gin/routes"
	"github.com/momeni/car-deals/pkg/core/log"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "cdweb",
	Short: "A cars registry and trade deals web service",
	Long: `A cars registry and trade deals web service which keeps car
models, cars, and their owners and records every change of a car owner
as a trade deal. Statistics of the registered cars and trade deals are
reported by a series of REST APIs too.
The registry may be kept in memory (optionally filled by sample data)
or in a PostgreSQL database, as chosen by the storage setting of the
configuration file. A PostgreSQL database should be initialized with
the "db init-dev" or "db init-prod" sub-commands beforehand.`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	p, cars, err := c.CarsStorage(ctx)
	if err != nil {
		return fmt.Errorf("creating %s storage: %w", c.Storage, err)
	}
	defer p.Close()
	var e *gin.Engine = c.Gin.NewEngine()
	if err = routes.Register(ctx, e, p, cars, c); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	return serve(ctx, e, *c.Gin.Address, time.Duration(*c.Gin.ShutdownTimeout))
}

// loadConfig loads the configuration file and installs its logger
// as the default slog logger.
func loadConfig() (*cfg1.Config, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	l, err := c.Logging.NewLogger(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	slog.SetDefault(l)
	return c, nil
}

// serve runs e on addr until ctx is done. Then, it waits at most for
// the timeout duration, so ongoing requests may be finished.
func serve(
	ctx context.Context, e *gin.Engine, addr string, timeout time.Duration,
) error {
	srv := &http.Server{Addr: addr, Handler: e}
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", slog.String("address", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return fmt.Errorf("running Gin engine: %w", err)
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down", slog.Duration("timeout", timeout))
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
