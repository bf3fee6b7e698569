package main

import (
	"github.com/spf13/cobra"

	"github.com/playbot-dev/playbot/common"
	"github.com/playbot-dev/playbot/engine"
)

func newInstallCmd(a *app) *cobra.Command {
	var skipBrowsers bool

	cmd := &cobra.Command{
		Use:   "install [chromium|firefox|webkit...]",
		Short: "Install the playwright driver and browsers",
		Long: `Install the playwright driver and browsers.

Without arguments every supported browser is installed.`,
		RunE: func(_ *cobra.Command, args []string) error {
			browsers := make([]common.BrowserName, 0, len(args))
			for _, arg := range args {
				bn, err := common.ParseBrowserName(arg)
				if err != nil {
					return err //nolint:wrapcheck
				}
				browsers = append(browsers, bn)
			}
			if len(browsers) == 0 {
				browsers = common.BrowserNames()
			}

			a.logger.Infof("Install", "installing %v", browsers)
			return engine.Install(engine.Config{ //nolint:wrapcheck
				DriverDirectory:     a.v.GetString(keyDriverDir),
				SkipInstallBrowsers: skipBrowsers,
				Verbose:             a.logger.DebugMode(),
			}, browsers...)
		},
	}
	cmd.Flags().String(keyDriverDir, "", "playwright driver directory (default is playwright's cache directory)")
	cmd.Flags().BoolVar(&skipBrowsers, "skip-browsers", false, "only install the driver")

	return cmd
}
