package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	DatabaseURL string
	RedisURL    string
	NATSURL     string
	JWTSecret   string

	// Governance tunables.
	MinVotesRequired int
	RewardRate       int

	EventChannelBase string
	StatsCacheTTL    time.Duration

	// External collaborators.
	ChainRPCURL       string
	TokenContractHash string
	ChainSignerWallet string
	ChainTimeout      time.Duration
	ProducerRegistry  string
	AvatarDirectory   string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HAUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Haus API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("governance.min_votes_required", 2)
	v.SetDefault("governance.reward_rate", 100)
	v.SetDefault("events.channel_base", "haus")
	v.SetDefault("stats.cache_ttl", "5m")
	v.SetDefault("chain.timeout_ms", 30000)

	ttlString := v.GetString("stats.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid stats cache ttl: %w", err)
	}

	chainTimeoutMs := v.GetInt("chain.timeout_ms")
	if chainTimeoutMs <= 0 {
		chainTimeoutMs = 30000
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		MinVotesRequired:  v.GetInt("governance.min_votes_required"),
		RewardRate:        v.GetInt("governance.reward_rate"),
		EventChannelBase:  v.GetString("events.channel_base"),
		StatsCacheTTL:     ttl,
		ChainRPCURL:       v.GetString("chain.rpc_url"),
		TokenContractHash: v.GetString("chain.token_contract"),
		ChainSignerWallet: v.GetString("chain.signer_wallet"),
		ChainTimeout:      time.Duration(chainTimeoutMs) * time.Millisecond,
		ProducerRegistry:  v.GetString("producers.base_url"),
		AvatarDirectory:   v.GetString("avatars.base_url"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MinVotesRequired < 1 {
		return Config{}, fmt.Errorf("min votes required must be at least 1")
	}

	if cfg.RewardRate < 1 {
		return Config{}, fmt.Errorf("reward rate must be at least 1 experience point per token")
	}

	return cfg, nil
}
