package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/playbot-dev/playbot/browser"
	"github.com/playbot-dev/playbot/common"
	"github.com/playbot-dev/playbot/engine"
	"github.com/playbot-dev/playbot/remote"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser keywords as a Robot Framework remote library",
		Long: `Serve the browser keywords as a Robot Framework remote library.

Import the library in a suite with

    Library    Remote    http://127.0.0.1:8270`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringP(keyBrowser, "b", common.Chromium.String(), "browser backend: chromium, firefox or webkit")
	f.String(keyAddr, remote.DefaultAddr, "address to listen on")
	f.Int(keyMaxConns, remote.DefaultMaxConns, "maximum number of simultaneous connections")
	f.Bool(keyAllowStop, false, "allow clients to stop the server with stop_remote_server")
	f.String(keyDriverDir, "", "playwright driver directory (default is playwright's cache directory)")

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	if err := a.checkDisabled(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// an unknown backend fails here, before listening, as well as in
	// start_browser.
	backend := a.v.GetString(keyBrowser)
	if _, err := common.ParseBrowserName(backend); err != nil {
		return err //nolint:wrapcheck
	}

	launcher := engine.NewLauncher(engine.Config{
		DriverDirectory: a.v.GetString(keyDriverDir),
		Verbose:         a.logger.DebugMode(),
	}, a.logger)
	lib := browser.NewLibrary(ctx, backend, launcher, a.logger)
	a.logger.Infof("Serve", "keywords start %s browsers", lib.Backend())

	cfg := remote.NewConfig()
	cfg.Addr = a.v.GetString(keyAddr)
	cfg.MaxConns = a.v.GetInt(keyMaxConns)
	cfg.AllowStop = a.v.GetBool(keyAllowStop)
	srv := remote.NewServer(browser.NewKeywords(lib), cfg, a.logger)

	err := srv.ListenAndServe(ctx)

	if _, berr := lib.Browser(); berr == nil {
		a.logger.Infof("Serve", "closing the browser left running")
		if cerr := lib.CloseBrowser(); cerr != nil {
			a.logger.Warnf("Serve", "closing browser: %v", cerr)
		}
	}

	if err != nil {
		return fmt.Errorf("serving keywords: %w", err)
	}
	return nil
}
