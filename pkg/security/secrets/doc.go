/*
Package secrets resolves ${secret:name} references in configuration.

Two providers are supported, tried in this order:

  - file: one file per secret in security.secrets.file_dir (mode 0600 or
    0400), the layout of Kubernetes secret volumes
  - env: SWAPGATE_SECRET_<NAME> environment variables, with the name
    upper-cased and hyphens turned into underscores

Resolved values are cached for security.secrets.cache_ttl. When the file
directory is watched, any change in it flushes the cache.

	m, err := secrets.NewFromConfig(cfg.Security.Secrets)
	if err != nil {
		return err
	}
	defer m.Close()

	// upstream.api_key: ${secret:swap-api-key}
	if err := m.ResolveConfig(ctx, cfg); err != nil {
		return err
	}

Secret values are never logged; only secret names are.
*/
package secrets
