package config

import "time"

// RedisConfig contains Redis configuration for the session store.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// SessionConfig controls the server-side session bundle.
type SessionConfig struct {
	// TTL is how long a session record survives in Redis. It should match
	// the refresh-token lifetime at the identity service, not the access
	// token: an expired access token inside a live record is what the
	// silent-refresh path feeds on.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// KeyPrefix namespaces session keys in a shared Redis.
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"session:"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	if c.TTL <= 0 {
		c.TTL = 168 * time.Hour
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "session:"
	}
}
