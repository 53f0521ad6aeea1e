/*
Package security groups the gateway's security concerns:

  - secrets: resolves ${secret:name} references from files or the environment
  - auth: optional API key authentication for the gateway routes
  - tls: inbound TLS with certificate hot reload

Each subpackage reads its own section of config.SecurityConfig.
*/
package security
