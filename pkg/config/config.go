package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "TICKETFOLIO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	Redis   RedisConfig
	Stellar StellarConfig
	Mint    MintConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Stellar.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TICKETFOLIO_APP_ENV" required:"true"`
	Port         string `envconfig:"TICKETFOLIO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TICKETFOLIO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TICKETFOLIO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"TICKETFOLIO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TICKETFOLIO_REDIS_ADDR"`
	Password     string        `envconfig:"TICKETFOLIO_REDIS_PASSWORD"`
	DB           int           `envconfig:"TICKETFOLIO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TICKETFOLIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TICKETFOLIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TICKETFOLIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TICKETFOLIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TICKETFOLIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type StellarConfig struct {
	HorizonURL        string        `envconfig:"TICKETFOLIO_HORIZON_URL" default:"https://horizon-testnet.stellar.org"`
	NetworkPassphrase string        `envconfig:"TICKETFOLIO_NETWORK_PASSPHRASE"`
	ExplorerBaseURL   string        `envconfig:"TICKETFOLIO_EXPLORER_BASE_URL" default:"https://stellar.expert/explorer/testnet"`
	RequestTimeout    time.Duration `envconfig:"TICKETFOLIO_HORIZON_TIMEOUT" default:"10s"`
	BaseFee           int64         `envconfig:"TICKETFOLIO_STELLAR_BASE_FEE" default:"100"`
}

func (s *StellarConfig) validate() error {
	if strings.TrimSpace(s.HorizonURL) == "" {
		return fmt.Errorf("%s_HORIZON_URL is required", EnvPrefix)
	}
	return nil
}

type MintConfig struct {
	// LocalMode keeps minted tickets in the local cache only; when false the
	// mint path also submits the asset transfer through Horizon.
	LocalMode     bool   `envconfig:"TICKETFOLIO_MINT_LOCAL_MODE" default:"true"`
	IssuerSeed    string `envconfig:"TICKETFOLIO_MINT_ISSUER_SEED"`
	DefaultAmount string `envconfig:"TICKETFOLIO_MINT_AMOUNT" default:"1"`
}
