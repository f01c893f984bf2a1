// Package config defines the router API configuration: a TOML file merged
// over Defaults, then ROUTER_* environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Config is the root configuration structure
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Ethereum EthereumConfig `toml:"ethereum"`
	Redis    RedisConfig    `toml:"redis"`
	Router   RouterConfig   `toml:"router"`
	Tokens   TokensConfig   `toml:"tokens"`
	LogLevel string         `toml:"log_level"`
}

// ServerConfig holds HTTP server parameters
type ServerConfig struct {
	Port           int      `toml:"port"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
	IdleTimeout    Duration `toml:"idle_timeout"`
	RequestTimeout Duration `toml:"request_timeout"`
	CORSOrigins    []string `toml:"cors_origins"`
}

// EthereumConfig holds the RPC endpoint the snapshot fetchers read from
type EthereumConfig struct {
	RPCURL      string   `toml:"rpc_url"`
	ChainID     int64    `toml:"chain_id"`
	DialTimeout Duration `toml:"dial_timeout"`
}

// RedisConfig holds Redis connection parameters. An empty Addr selects the
// in-memory cache.
type RedisConfig struct {
	Addr        string   `toml:"addr"`
	Password    string   `toml:"password"`
	DB          int      `toml:"db"`
	SnapshotTTL Duration `toml:"snapshot_ttl"`
	PriceTTL    Duration `toml:"price_ttl"`
}

// RouterConfig bounds the route search and sets calldata defaults
type RouterConfig struct {
	MaxHops            int      `toml:"max_hops"`
	MaxResults         int      `toml:"max_results"`
	DefaultSlippageBps int64    `toml:"default_slippage_bps"`
	DeadlineWindow     Duration `toml:"deadline_window"`
	DEXes              []string `toml:"dexes"`
	BaseTokens         []string `toml:"base_tokens"`
}

// TokensConfig points at an optional token list. Without one the built-in
// mainnet tokens are used.
type TokensConfig struct {
	File string `toml:"file"`
}

// Duration decodes TOML strings like "5m" or "30s"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config that runs against a public mainnet RPC with the
// in-memory cache
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:           8080,
			ReadTimeout:    Duration{15 * time.Second},
			WriteTimeout:   Duration{15 * time.Second},
			IdleTimeout:    Duration{60 * time.Second},
			RequestTimeout: Duration{30 * time.Second},
			CORSOrigins:    []string{"*"},
		},
		Ethereum: EthereumConfig{
			RPCURL:      "https://eth.llamarpc.com",
			ChainID:     1,
			DialTimeout: Duration{10 * time.Second},
		},
		Redis: RedisConfig{
			SnapshotTTL: Duration{12 * time.Second},
			PriceTTL:    Duration{10 * time.Second},
		},
		Router: RouterConfig{
			MaxHops:            3,
			MaxResults:         3,
			DefaultSlippageBps: 50,
			DeadlineWindow:     Duration{20 * time.Minute},
			DEXes:              []string{"uniswap_v2", "uniswap_v3", "sushiswap"},
			BaseTokens:         []string{"WETH", "USDC", "USDT", "DAI"},
		},
		LogLevel: "info",
	}
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validDEXes = map[string]bool{
	"uniswap_v2": true,
	"uniswap_v3": true,
	"sushiswap":  true,
}

// Validate checks Config for invalid values and returns a combined error
// describing every problem found
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.RequestTimeout.Duration <= 0 {
		errs = append(errs, "server: request_timeout must be positive")
	}

	if strings.TrimSpace(c.Ethereum.RPCURL) == "" {
		errs = append(errs, "ethereum: rpc_url must not be empty")
	}
	if c.Ethereum.ChainID <= 0 {
		errs = append(errs, "ethereum: chain_id must be positive")
	}

	if c.Redis.SnapshotTTL.Duration <= 0 {
		errs = append(errs, "redis: snapshot_ttl must be positive")
	}
	if c.Redis.PriceTTL.Duration <= 0 {
		errs = append(errs, "redis: price_ttl must be positive")
	}

	if c.Router.MaxHops < 1 {
		errs = append(errs, "router: max_hops must be >= 1")
	}
	if c.Router.MaxResults < 1 {
		errs = append(errs, "router: max_results must be >= 1")
	}
	if c.Router.DefaultSlippageBps < 0 || c.Router.DefaultSlippageBps > 10000 {
		errs = append(errs, fmt.Sprintf("router: default_slippage_bps must be 0-10000, got %d", c.Router.DefaultSlippageBps))
	}
	if c.Router.DeadlineWindow.Duration <= 0 {
		errs = append(errs, "router: deadline_window must be positive")
	}
	if len(c.Router.DEXes) == 0 {
		errs = append(errs, "router: at least one dex must be enabled")
	}
	for _, d := range c.Router.DEXes {
		if !validDEXes[d] {
			errs = append(errs, fmt.Sprintf("router: unknown dex %q (valid: uniswap_v2, uniswap_v3, sushiswap)", d))
		}
	}
	for _, t := range c.Router.BaseTokens {
		if strings.HasPrefix(t, "0x") && !common.IsHexAddress(t) {
			errs = append(errs, fmt.Sprintf("router: base token %q is not a valid address", t))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
