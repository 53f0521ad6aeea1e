package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/cli"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/config"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/gateway"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy/middleware"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/security/secrets"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/server"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/telemetry"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/telemetry/logging"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/upstream"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway server",
	Long: `Start the gateway server with the specified configuration.

The server listens on the configured address and relays price, quote, gasless
submit and trade-analytics requests to the upstream swap API.

Examples:
  # Start with default config
  swapgate run

  # Start with custom config
  swapgate run --config /etc/swapgate/config.yaml

  # Override listen address
  swapgate run --listen 0.0.0.0:8080

  # Load credentials from a dotenv file
  swapgate run --env-file .env

  # Validate config and secrets without starting server
  swapgate run --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyRunOverrides(cfg); err != nil {
		return err
	}

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	a, err := newApp(ctx, cfg, appOptions{})
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer a.Close()

	if runFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Swapgate v%s listening on %s%s\n",
		Version, cfg.Proxy.ListenAddress, cfg.Proxy.BasePath)

	if err := a.server.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

// applyRunOverrides applies command-line flags on top of the loaded
// configuration and validates the result again.
func applyRunOverrides(cfg *config.Config) error {
	if runFlags.listenAddress != "" {
		cfg.Proxy.ListenAddress = runFlags.listenAddress
	}
	switch {
	case runFlags.logLevel != "":
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	case verbose:
		cfg.Telemetry.Logging.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}
	return nil
}

type appOptions struct {
	telemetry telemetry.Options
}

// app is the wired gateway process.
type app struct {
	secrets   *secrets.Manager
	telemetry *telemetry.Telemetry
	upstream  *upstream.Client
	gateway   *gateway.Gateway
	server    *server.Server
}

// newApp resolves secrets and builds every component. Nothing listens yet.
func newApp(ctx context.Context, cfg *config.Config, opts appOptions) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.secrets, err = secrets.NewFromConfig(cfg.Security.Secrets)
	if err != nil {
		return nil, fmt.Errorf("failed to create secrets manager: %w", err)
	}
	if err := a.secrets.ResolveConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to resolve secrets: %w", err)
	}

	telOpts := opts.telemetry
	telOpts.Secrets = append(telOpts.Secrets, cfg.Upstream.APIKey)
	telOpts.Fields = append(telOpts.Fields, logging.StringField("request_id", middleware.GetRequestID))
	a.telemetry, err = telemetry.Setup(&cfg.Telemetry, telemetry.BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	}, telOpts)
	if err != nil {
		return nil, err
	}

	a.upstream, err = upstream.NewClient(upstream.Config{
		BaseURL:         cfg.Upstream.BaseURL,
		Timeout:         cfg.Upstream.Timeout,
		MaxAttempts:     cfg.Upstream.MaxAttempts,
		MaxIdleConns:    cfg.Upstream.MaxIdleConns,
		IdleConnTimeout: cfg.Upstream.IdleConnTimeout,
	}, upstream.WithObserver(a.telemetry.Metrics))
	if err != nil {
		return nil, err
	}

	a.gateway, err = gateway.New(gateway.Config{
		Headers: gateway.HeaderConfig{
			APIKey:           cfg.Upstream.APIKey,
			APIKeyHeader:     cfg.Upstream.APIKeyHeader,
			APIVersion:       cfg.Upstream.APIVersion,
			APIVersionHeader: cfg.Upstream.APIVersionHeader,
		},
		SurplusRecipient: cfg.Upstream.SurplusRecipient,
		AllowLegacyPrice: cfg.Upstream.LegacyPriceAllowed(),
	}, a.upstream,
		gateway.WithRecorder(a.telemetry.Metrics),
		gateway.WithRequestIDFunc(middleware.GetRequestID),
	)
	if err != nil {
		return nil, err
	}

	a.server, err = server.New(cfg, server.Dependencies{
		Gateway:   a.gateway,
		Telemetry: a.telemetry,
		Secrets:   a.secrets,
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("gateway initialized",
		"upstream", cfg.Upstream.BaseURL,
		"api_version", cfg.Upstream.APIVersion,
		"legacy_price", cfg.Upstream.LegacyPriceAllowed(),
		"auth_enabled", cfg.Security.Authentication.Enabled,
	)
	return a, nil
}

// Close releases everything newApp created, in reverse order.
func (a *app) Close() {
	var errs []error
	if a.upstream != nil {
		errs = append(errs, a.upstream.Close())
	}
	if a.telemetry != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.DefaultTracingTimeout)
		errs = append(errs, a.telemetry.Shutdown(shutdownCtx))
		cancel()
	}
	if a.secrets != nil {
		errs = append(errs, a.secrets.Close())
	}
	if err := errors.Join(errs...); err != nil {
		slog.Warn("error during shutdown", "error", err)
	}
}
