package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Auth.AccessTTL <= 0 {
		return fmt.Errorf("auth.access_ttl must be > 0 (got %v)", c.Auth.AccessTTL)
	}

	if err := c.CRM.validate(); err != nil {
		return fmt.Errorf("crm: %w", err)
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be >= 0 (got %d)", c.RateLimit.RequestsPerMinute)
	}

	return nil
}

func (c *CRMConfig) validate() error {
	switch c.Backend {
	case CRMBackendPostgres:
	case CRMBackendGraphQL:
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint is required for the %q backend", CRMBackendGraphQL)
		}
		u, err := url.Parse(c.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("endpoint %q is not an absolute URL", c.Endpoint)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	if c.SearchLimit <= 0 || c.SearchLimit > 200 {
		return fmt.Errorf("search_limit must be in 1..200 (got %d)", c.SearchLimit)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", c.Timeout)
	}

	return nil
}
