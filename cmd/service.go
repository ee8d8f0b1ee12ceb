package cmd

import (
	"net"
	"net/http"

	"github.com/isometry/event-echo-app/internal/config"
	"github.com/spf13/cobra"
)

func cmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		Short:   "Serve the handler over plain HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger = logger.With("mode", config.ModeService)
			if err := setup(cmd, args); err != nil {
				return err
			}

			logger.Debug("creating HTTP server...")
			h := http.NewServeMux()
			h.HandleFunc(config.Service.Path, echoRuntime.ServeHTTP)

			s := &http.Server{
				Handler:      h,
				Addr:         net.JoinHostPort(config.Service.Addr, config.Service.Port),
				WriteTimeout: config.Service.Timeout,
				ReadTimeout:  config.Service.Timeout,
				IdleTimeout:  config.Service.Timeout,
			}

			logger.Info("serving...", "address", s.Addr, "path", config.Service.Path, "timeout", config.Service.Timeout.String())
			return s.ListenAndServe()
		},
	}

	bindEnvMap(cmd, svcEnvMapString)
	bindEnvMap(cmd, svcEnvMapDuration)

	return cmd
}
