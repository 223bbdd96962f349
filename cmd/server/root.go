package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/config"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/logging"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/transport"
)

func newRootCommand() *cobra.Command {
	v := config.NewViper()

	var cfgFile string

	cmd := &cobra.Command{
		Use:           "weather-mcp",
		Short:         "MCP server exposing geocoding and hourly weather forecast tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()

			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}

			logger := logging.New(cfg.Log.Level, os.Stderr)
			logging.Install(logger)

			if err := cfg.Validate(); err != nil {
				return err
			}

			app, err := newServer(cfg, logger)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(app.registry.Tools()))
			for _, t := range app.registry.Tools() {
				names = append(names, t.Name)
			}

			logger.Info("starting weather MCP server",
				"version", cfg.Server.Version,
				"transport", cfg.Server.Transport,
				"tools", names,
			)

			switch cfg.Server.Transport {
			case "http":
				handler := transport.NewHTTPHandler(app.registry.Server(), logger, cfg.Server.MaxDuration)
				return transport.ServeHTTP(cmd.Context(), cfg.Server.Addr, handler, logger, cfg.Server.MaxDuration)
			case "stdio":
				return transport.ServeStdio(app.registry.Server(), logger)
			default:
				return fmt.Errorf("unknown transport %q", cfg.Server.Transport)
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (YAML, JSON or TOML)")
	flags.String("transport", "stdio", "transport to serve on: stdio or http")
	flags.String("addr", ":3000", "listen address for the http transport")
	flags.String("log-level", "info", "log level: debug, info, warn, error")

	bindFlags(v, cmd)

	return cmd
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	_ = v.BindPFlag("server.transport", cmd.Flags().Lookup("transport"))
	_ = v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = v.BindPFlag("log.level", cmd.Flags().Lookup("log-level"))
}
