package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/playbot-dev/playbot/common"
)

// Configuration keys. Each is also read from the environment with the
// PLAYBOT_ prefix and dashes turned into underscores.
const (
	keyConfig            = "config"
	keyLogLevel          = "log-level"
	keyLogFormat         = "log-format"
	keyLogCategoryFilter = "log-category-filter"
	keyBrowser           = "browser"
	keyAddr              = "addr"
	keyMaxConns          = "max-conns"
	keyAllowStop         = "allow-stop"
	keyDriverDir         = "driver-dir"
	keyDisableRun        = "disable-run"
	keyDisableRunMsg     = "disable-run-msg"
)

const envPrefix = "PLAYBOT"

const defaultDisableRunMsg = "Disable run flag enabled, keyword server aborted. Please contact support."

// errDisabled is returned by serve when runs are disabled.
var errDisabled = errors.New("runs are disabled")

// app is the state shared by the commands of one invocation.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
	logger *common.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "playbot",
		Short:         "Browser keywords for Robot Framework, backed by Playwright.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringP(keyConfig, "c", "", "config file (default is ./playbot.yaml)")
	pf.String(keyLogLevel, "info", "log level: trace, debug, info, warn or error")
	pf.String(keyLogFormat, "text", "log format: text or json")
	pf.String(keyLogCategoryFilter, "", "only log categories matching this regular expression")

	root.AddCommand(
		newServeCmd(a),
		newKeywordsCmd(a),
		newInstallCmd(a),
		newVersionCmd(a),
	)
	return root
}

// init reads the configuration file and the environment and sets up the
// logger. Flags win over the environment, which wins over the file.
func (a *app) init(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if f := a.v.GetString(keyConfig); f != "" {
		a.v.SetConfigFile(f)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("playbot")
		a.v.SetConfigType("yaml")
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	logger, err := a.newLogger()
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func (a *app) newLogger() (*common.Logger, error) {
	log := logrus.New()
	log.SetOutput(a.errOut)
	switch f := a.v.GetString(keyLogFormat); f {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q: expected text or json", f)
	}

	logger := common.NewLogger(log, nil)
	if err := logger.SetLevel(a.v.GetString(keyLogLevel)); err != nil {
		return nil, err //nolint:wrapcheck
	}
	if err := logger.SetCategoryFilter(a.v.GetString(keyLogCategoryFilter)); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return logger, nil
}

// checkDisabled fails when the disable run switch is set.
func (a *app) checkDisabled() error {
	if !a.v.IsSet(keyDisableRun) {
		return nil
	}
	msg := defaultDisableRunMsg
	if m := a.v.GetString(keyDisableRunMsg); m != "" {
		msg = m
	}
	return fmt.Errorf("%w: %s", errDisabled, msg)
}
