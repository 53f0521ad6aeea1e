// Swapgate is a quote gateway in front of a 0x-style swap API.
//
// It validates price, quote and gasless-submit requests, maps them onto the
// upstream API with a fixed set of credentials, and relays the upstream's
// answer. Callers never see the upstream API key.
//
// Usage:
//
//	# Start the gateway
//	swapgate run --config config.yaml
//
//	# Start from the environment alone
//	SWAPGATE_UPSTREAM_API_KEY=... SWAPGATE_UPSTREAM_SURPLUS_RECIPIENT=0x... swapgate run -c ""
//
//	# Check a configuration file
//	swapgate validate --config config.yaml
//
//	# Show version information
//	swapgate version
package main

import "os"

func main() {
	os.Exit(Execute())
}
