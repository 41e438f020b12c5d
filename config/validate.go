package config

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks cross-field constraints cleanenv cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if !slices.Contains([]string{"debug", "release", "test"}, c.Server.Mode) {
		errs = append(errs, fmt.Errorf("server.mode %q must be debug, release or test", c.Server.Mode))
	}
	if c.Dictionary.Host == "" {
		errs = append(errs, errors.New("dictionary.host is required"))
	}
	if c.Dictionary.Timeout <= 0 {
		errs = append(errs, errors.New("dictionary.timeout must be positive"))
	}
	if c.Dictionary.RequestsPerSecond <= 0 || c.Dictionary.Burst <= 0 {
		errs = append(errs, errors.New("dictionary rate limit must be positive"))
	}
	if c.Dictionary.MarkerTail != "" && c.Dictionary.MarkerLead == "" {
		errs = append(errs, errors.New("dictionary.marker_tail requires marker_lead"))
	}
	if c.Auth.Enabled && len(c.Auth.APIKeys) == 0 {
		errs = append(errs, errors.New("auth.enabled requires at least one api key"))
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("rate_limit must be positive"))
	}
	if c.Cache.MaxEntries < 0 {
		errs = append(errs, errors.New("cache.max_entries must not be negative"))
	}
	if c.Cache.MaxEntries > 0 && c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache.ttl must be positive when the cache is enabled"))
	}
	if !slices.Contains([]string{"json", "text"}, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", c.Log.Format))
	}

	return errors.Join(errs...)
}
