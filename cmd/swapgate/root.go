package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/cli"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/config"
)

const defaultConfigFile = "config.yaml"

var (
	// Global flags
	cfgFile string
	envFile string
	verbose bool
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swapgate",
		Short: "Swapgate - quote gateway for a 0x-style swap API",
		Long: `Swapgate is a thin gateway in front of a swap-aggregation API.

It accepts price, quote and gasless trade requests from untrusted callers,
validates them, attaches the operator's upstream credentials, and relays the
upstream response unchanged. Failures are normalized into {"error", "reason"}.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, `config file path ("" to use defaults and environment only)`)
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file loaded into the environment before configuration")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return cli.ExitCode(err)
}

// loadConfig loads the dotenv file, then the configuration with SWAPGATE_*
// overrides. A missing default config file falls back to the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, cli.NewConfigError("env-file", fmt.Sprintf("failed to load %s: %v", envFile, err))
		}
	}

	path := cfgFile
	if path == defaultConfigFile && !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	return cfg, nil
}
