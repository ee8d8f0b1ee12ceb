// Package cmd provides the entrypoint for the event-echo-app cli.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/isometry/event-echo-app/internal/config"
	"github.com/isometry/event-echo-app/internal/handler"
	"github.com/isometry/event-echo-app/internal/runtime"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// configFileEnv names the variable pointing at the optional YAML configuration file.
	configFileEnv     = "EVENT_ECHO_CONFIG"
	defaultConfigFile = "config.yaml"
)

var (
	logger      *slog.Logger
	echoRuntime *runtime.Runtime
)

type boundEnvVar[T argType] struct {
	Name, Description string
	Env, Short        *string
	Hidden            bool
}

// New returns the root command for the event-echo-app.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "event-echo-app",
		Short:        "Echo the detail of incoming events back to the dispatcher",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			config.Global.Mode = strings.TrimSpace(config.Global.Mode)
			logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				AddSource: config.Global.Logging.CallerTrace,
				Level:     slog.LevelWarn - slog.Level(config.Global.Logging.Verbosity*4),
			})).With("mode", config.Global.Mode)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch config.Global.Mode {
			case config.ModeService:
				return cmdService().RunE(cmd, args)
			case config.ModeLambdaHTTP:
				return chainCommands(cmd, args, setup, cmdLambdaHTTP().RunE)
			case config.ModeLambdaEvent:
				return chainCommands(cmd, args, setup, cmdLambdaEvent().RunE)
			default:
				return fmt.Errorf("invalid mode: %s", config.Global.Mode)
			}
		},
	}

	// Configuration loading & defaults
	configFilePath, found := os.LookupEnv(configFileEnv)
	if !found {
		configFilePath = defaultConfigFile
	}
	if err := errors.Join(
		config.LoadFromFile(configFilePath),
		config.SetDefaults(),
	); err != nil {
		panic(err)
	}

	// Dynamic flags
	setupDynamicFlags(cmd)

	// Subcommands
	cmd.AddCommand(
		cmdLambda(),
		cmdService(),
	)

	return cmd
}

func setupDynamicFlags(cmd *cobra.Command) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(replacer)

	bindEnvMap(cmd, envMapString)
	bindEnvMap(cmd, envMapBool)
	bindEnvMap(cmd, envMapCount)
}

// setup creates the echo handler and the runtime wrapping it.
func setup(_ *cobra.Command, _ []string) error {
	logger.Debug("creating echo handler...")
	hdl := handler.NewEchoHandler(
		handler.WithPoweredBy(config.Handler.PoweredBy),
		handler.WithLogger(logger.With("component", "echo-handler")))

	logger.Debug("creating runtime...")
	echoRuntime = runtime.NewRuntime(hdl,
		runtime.WithLambdaPayloadType(config.Lambda.PayloadType),
		runtime.WithLogger(logger.With("component", "runtime")))
	return nil
}

func chainCommands(cmd *cobra.Command, args []string, fns ...func(*cobra.Command, []string) error) error {
	for _, fn := range fns {
		if err := fn(cmd, args); err != nil {
			return err
		}
	}
	return nil
}
