package gonuthoard

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors the deployment-varying settings onto environment
// variables. The generation name in particular changes per deployment, which
// is what makes activation purge the previous one.
type envConfig struct {
	Generation     string   `env:"NUTHOARD_GENERATION"`
	Precache       []string `env:"NUTHOARD_PRECACHE" envSeparator:","`
	OfflineURL     string   `env:"NUTHOARD_OFFLINE_URL"`
	TrustedOrigins []string `env:"NUTHOARD_TRUSTED_ORIGINS" envSeparator:","`
	L1MaxEntries   int64    `env:"NUTHOARD_L1_MAX_ENTRIES" envDefault:"10000"`
	RedisAddr      string   `env:"NUTHOARD_REDIS_ADDR"`
	RedisPassword  string   `env:"NUTHOARD_REDIS_PASSWORD"`
	RedisDB        int      `env:"NUTHOARD_REDIS_DB"`
}

// OptionsFromEnv loads deployment configuration from NUTHOARD_* environment
// variables and returns the matching options. Unset variables contribute no
// option, so the result composes with programmatic options:
//
//	envOpts, err := nuthoard.OptionsFromEnv()
//	w, err := nuthoard.NewWorker(append(nuthoard.DefaultOptions(), envOpts...)...)
func OptionsFromEnv() ([]Option, error) {
	var c envConfig
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("nuthoard: parse env: %w", err)
	}

	var opts []Option
	if c.Generation != "" {
		opts = append(opts, WithGeneration(c.Generation))
	}
	if len(c.Precache) > 0 {
		opts = append(opts, WithPrecacheManifest(c.Precache...))
	}
	if c.OfflineURL != "" {
		opts = append(opts, WithOfflinePage(c.OfflineURL))
	}
	if len(c.TrustedOrigins) > 0 {
		opts = append(opts, WithTrustedOrigins(c.TrustedOrigins...))
	}
	if c.L1MaxEntries > 0 {
		opts = append(opts, WithCacheL1(c.L1MaxEntries))
	}
	if c.RedisAddr != "" {
		opts = append(opts, WithCacheL2(c.RedisAddr, c.RedisPassword, c.RedisDB))
	}
	return opts, nil
}
