package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/cli"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/config"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/security/secrets"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/server"
)

var validateFlags struct {
	output string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the gateway configuration",
	Long: `Load the configuration file with SWAPGATE_* environment overrides, apply
defaults, validate it and print a summary of the effective settings.

Secrets are not resolved and never printed; use "run --dry-run" to check
that secret references resolve.

Examples:
  # Validate the default config.yaml
  swapgate validate

  # Validate a specific file and print JSON
  swapgate validate --config /etc/swapgate/config.yaml --output json`,
	Args: cobra.NoArgs,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.output, "output", "o", "text", "output format: text, json")
}

// configSummary is the non-secret view of an effective configuration.
type configSummary struct {
	ListenAddress    string   `json:"listen_address"`
	Routes           []string `json:"routes"`
	UpstreamBaseURL  string   `json:"upstream_base_url"`
	APIVersion       string   `json:"api_version"`
	APIKeySource     string   `json:"api_key_source"`
	SurplusRecipient string   `json:"surplus_recipient"`
	LegacyPrice      bool     `json:"legacy_price"`
	TLS              bool     `json:"tls"`
	Authentication   bool     `json:"authentication"`
	APIKeys          int      `json:"api_keys"`
	Metrics          string   `json:"metrics,omitempty"`
	Tracing          bool     `json:"tracing"`
}

func (s configSummary) Fields() []cli.Field {
	metrics := s.Metrics
	if metrics == "" {
		metrics = "disabled"
	}
	return []cli.Field{
		{Label: "Listen address", Value: s.ListenAddress},
		{Label: "Routes", Value: s.Routes},
		{Label: "Upstream", Value: s.UpstreamBaseURL},
		{Label: "API version", Value: s.APIVersion},
		{Label: "API key", Value: s.APIKeySource},
		{Label: "Surplus recipient", Value: s.SurplusRecipient},
		{Label: "Legacy price", Value: s.LegacyPrice},
		{Label: "TLS", Value: s.TLS},
		{Label: "Authentication", Value: s.Authentication},
		{Label: "Inbound API keys", Value: s.APIKeys},
		{Label: "Metrics", Value: metrics},
		{Label: "Tracing", Value: s.Tracing},
	}
}

func summarize(cfg *config.Config) configSummary {
	prefix := strings.TrimSuffix(cfg.Proxy.BasePath, "/")
	s := configSummary{
		ListenAddress:    cfg.Proxy.ListenAddress,
		Routes:           []string{"POST " + cfg.Proxy.BasePath, "POST " + prefix + server.SubmitPath, "GET " + prefix + server.AnalyticsPath},
		UpstreamBaseURL:  cfg.Upstream.BaseURL,
		APIVersion:       cfg.Upstream.APIVersion,
		APIKeySource:     "inline",
		SurplusRecipient: cfg.Upstream.SurplusRecipient,
		LegacyPrice:      cfg.Upstream.LegacyPriceAllowed(),
		TLS:              cfg.Security.TLS.Enabled,
		Authentication:   cfg.Security.Authentication.Enabled,
		APIKeys:          len(cfg.Security.Authentication.Keys),
		Tracing:          cfg.Telemetry.Tracing.Enabled,
	}
	if secrets.IsReference(cfg.Upstream.APIKey) {
		s.APIKeySource = "secret reference"
	}
	if cfg.Telemetry.MetricsEnabled() {
		s.Metrics = cfg.Telemetry.Metrics.Path
	}
	return s
}

func validateConfig(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(validateFlags.output)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), summarize(cfg))
}
