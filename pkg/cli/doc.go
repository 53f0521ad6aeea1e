/*
Package cli provides command-line helpers shared by the swapgate commands.

Output formatting supports aligned text and JSON:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, result)

Results that implement Fielder render as "label: value" lines in text mode.

Errors returned from commands map to exit codes with ExitCode; a
ConfigError anywhere in the chain exits with ExitConfig.

SignalContext returns a context cancelled on SIGINT or SIGTERM for graceful
shutdown.
*/
package cli
