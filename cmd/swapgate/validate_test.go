package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/cli"
)

func TestValidateCommand(t *testing.T) {
	path := writeConfig(t, "")

	out, err := execute(t, "validate", "--config", path)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}

	for _, want := range []string{
		"127.0.0.1:8080",
		"POST /gateway",
		"GET /gateway/trade-analytics/gasless",
		"https://api.0x.org",
		testRecipient,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "test-upstream-key") {
		t.Error("validate output leaks the upstream API key")
	}
}

func TestValidateCommand_JSON(t *testing.T) {
	path := writeConfig(t, `
proxy:
  base_path: /swap
`)

	out, err := execute(t, "validate", "-c", path, "-o", "json")
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}

	var got configSummary
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	want := []string{"POST /swap", "POST /swap/gasless/submit", "GET /swap/trade-analytics/gasless"}
	if strings.Join(got.Routes, ",") != strings.Join(want, ",") {
		t.Errorf("routes = %v, want %v", got.Routes, want)
	}
	if got.APIKeySource != "inline" {
		t.Errorf("api_key_source = %q, want inline", got.APIKeySource)
	}
	if !got.LegacyPrice {
		t.Error("legacy price should default to allowed")
	}
	if got.Metrics != "/metrics" {
		t.Errorf("metrics = %q, want /metrics", got.Metrics)
	}
}

func TestValidateCommand_SecretReference(t *testing.T) {
	path := writeFile(t, "config.yaml", `
upstream:
  api_key: "${secret:zeroex_key}"
  surplus_recipient: "`+testRecipient+`"
`)

	out, err := execute(t, "validate", "-c", path, "-o", "json")
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	var got configSummary
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.APIKeySource != "secret reference" {
		t.Errorf("api_key_source = %q, want secret reference", got.APIKeySource)
	}
}

func TestValidateCommand_Invalid(t *testing.T) {
	path := writeFile(t, "config.yaml", `
upstream:
  api_key: key
  surplus_recipient: not-an-address
`)

	_, err := execute(t, "validate", "-c", path)
	if err == nil {
		t.Fatal("validate should fail for an invalid surplus recipient")
	}
	if code := cli.ExitCode(err); code != cli.ExitConfig {
		t.Errorf("exit code = %d, want %d", code, cli.ExitConfig)
	}
	if !strings.Contains(err.Error(), "upstream.surplus_recipient") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestValidateCommand_BadOutput(t *testing.T) {
	path := writeConfig(t, "")
	if _, err := execute(t, "validate", "-c", path, "-o", "yaml"); err == nil {
		t.Error("validate should reject an unknown output format")
	}
}
