package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load merges the TOML file at path over Defaults and applies ROUTER_*
// environment overrides. An empty path skips the file. The returned Config
// has not been validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// .env is optional
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setInt(&cfg.Server.Port, "ROUTER_SERVER_PORT")
	setDuration(&cfg.Server.RequestTimeout, "ROUTER_SERVER_REQUEST_TIMEOUT")
	setStringSlice(&cfg.Server.CORSOrigins, "ROUTER_SERVER_CORS_ORIGINS")

	// legacy name, ROUTER_ETHEREUM_RPC_URL wins when both are set
	setStr(&cfg.Ethereum.RPCURL, "ETH_RPC_URL")
	setStr(&cfg.Ethereum.RPCURL, "ROUTER_ETHEREUM_RPC_URL")
	setInt64(&cfg.Ethereum.ChainID, "ROUTER_ETHEREUM_CHAIN_ID")

	setStr(&cfg.Redis.Addr, "ROUTER_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "ROUTER_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "ROUTER_REDIS_DB")
	setDuration(&cfg.Redis.SnapshotTTL, "ROUTER_REDIS_SNAPSHOT_TTL")

	setInt(&cfg.Router.MaxHops, "ROUTER_MAX_HOPS")
	setInt(&cfg.Router.MaxResults, "ROUTER_MAX_RESULTS")
	setInt64(&cfg.Router.DefaultSlippageBps, "ROUTER_DEFAULT_SLIPPAGE_BPS")
	setDuration(&cfg.Router.DeadlineWindow, "ROUTER_DEADLINE_WINDOW")
	setStringSlice(&cfg.Router.DEXes, "ROUTER_DEXES")
	setStringSlice(&cfg.Router.BaseTokens, "ROUTER_BASE_TOKENS")

	setStr(&cfg.Tokens.File, "ROUTER_TOKENS_FILE")
	setStr(&cfg.LogLevel, "ROUTER_LOG_LEVEL")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cleaned = append(cleaned, p)
			}
		}
		*dst = cleaned
	}
}
