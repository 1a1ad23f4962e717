package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PoolConfig holds the tunables for an internal/mux Pool: the node
// addresses it connects to, its buffer size, the GET-coalescing toggle,
// and the reconnect/health thresholds that were previously hardcoded
// constants. Unlike ServerConfig/ClientConfig above, it can optionally be
// loaded from a YAML file in addition to environment variables, via
// LoadPoolConfigFromViper.
type PoolConfig struct {
	Nodes        []string // "host:port" addresses, in routing order
	BufferSize   int      // per-node read/write buffer size in bytes
	OptimizeGets bool     // whether to coalesce consecutive GETs per node

	// ExcessiveEmpty is the empty-select tolerance before the defensive
	// sweep runs (spec §4.E.3). Zero means mux.DefaultExcessiveEmpty.
	ExcessiveEmpty int
	// ExcessiveErrors is the consecutive-protocol-error tolerance before
	// a node is queued for reconnect (spec §4.E.i). Zero means
	// mux.DefaultExcessiveErrors.
	ExcessiveErrors int
	// MaxReconnectDelay caps the quadratic reconnect backoff (spec
	// §4.D). Zero means mux.DefaultMaxReconnectDelay.
	MaxReconnectDelay time.Duration
}

// DefaultPoolConfig returns the tunables a Pool uses when no file or
// env override is given.
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		BufferSize:        16 * 1024,
		OptimizeGets:      true,
		ExcessiveEmpty:    100,
		ExcessiveErrors:   1,
		MaxReconnectDelay: 30 * time.Second,
	}
}

// LoadPoolConfigFromViper builds a PoolConfig merging, in precedence
// order: CACHEMIR_-prefixed environment variables (e.g.
// CACHEMIR_POOL_BUFFER_SIZE), an optional YAML file at path (skipped if
// path is empty), then defaults. This is the
// viper-based counterpart to LoadServerConfig/LoadClientConfig above,
// for deployments that want file-based pool tuning.
func LoadPoolConfigFromViper(path string) (*PoolConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("CACHEMIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	defaults := DefaultPoolConfig()
	v.SetDefault("pool.buffer_size", defaults.BufferSize)
	v.SetDefault("pool.optimize_gets", defaults.OptimizeGets)
	v.SetDefault("pool.nodes", []string{})
	v.SetDefault("pool.excessive_empty", defaults.ExcessiveEmpty)
	v.SetDefault("pool.excessive_errors", defaults.ExcessiveErrors)
	v.SetDefault("pool.max_reconnect_delay", defaults.MaxReconnectDelay)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read pool config %s: %w", path, err)
		}
	}

	cfg := &PoolConfig{
		Nodes:             v.GetStringSlice("pool.nodes"),
		BufferSize:        v.GetInt("pool.buffer_size"),
		OptimizeGets:      v.GetBool("pool.optimize_gets"),
		ExcessiveEmpty:    v.GetInt("pool.excessive_empty"),
		ExcessiveErrors:   v.GetInt("pool.excessive_errors"),
		MaxReconnectDelay: v.GetDuration("pool.max_reconnect_delay"),
	}
	return cfg, nil
}

// Validate checks that the pool config describes at least one node with
// a usable buffer size.
func (c *PoolConfig) Validate() error {
	if len(c.Nodes) == 0 {
		return fmt.Errorf("pool config requires at least one node address")
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("pool config buffer size must be positive, got %d", c.BufferSize)
	}
	return nil
}
