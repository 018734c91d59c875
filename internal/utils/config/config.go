package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/dwarvesf/casper-bridge-relayer/internal/types/environments"
)

type AppConfig struct {
	Environment    environments.Environment
	ApiServer      ApiServerConfig
	Ops            OpsConfig
	Postgres       DBConnection
	Ethereum       EthereumConfig
	Casper         CasperConfig
	PriceFeed      PriceFeedConfig
	Orchestrator   OrchestratorConfig
	Nats           NatsConfig
	Vault          VaultConfig
	UptimeWebhooks UptimeWebhookConfig
}

type ApiServerConfig struct {
	Port string `validate:"required"`
}

// OpsConfig is the metrics and diagnostics listener. Empty port disables it.
type OpsConfig struct {
	Port string
}

type DBConnection struct {
	URL string

	Host string `validate:"required_without=URL"`
	Port string
	User string
	Name string `validate:"required_without=URL"`
	Pass string

	SSLMode string
}

type EthereumConfig struct {
	RPCEndpoint    string        `validate:"required"`
	ContractAddr   string        `validate:"required"`
	PrivateKey     string        `validate:"required"`
	ChainID        int64         `validate:"gt=0"`
	ReleaseMode    string        `validate:"oneof=contract transfer"`
	BackfillBlocks uint64
	ChunkSize      uint64        `validate:"gt=0"`
	PollInterval   time.Duration `validate:"gt=0"`
	ConfirmTimeout time.Duration `validate:"gt=0"`
}

type CasperConfig struct {
	RPCEndpoint        string        `validate:"required"`
	ContractHash       string        `validate:"required"`
	NetworkName        string        `validate:"required"`
	PrivateKey         string        `validate:"required_without=PrivateKeyPath"`
	PrivateKeyPath     string        `validate:"required_without=PrivateKey"`
	KeyAlgorithm       string        `validate:"oneof=ed25519 secp256k1"`
	ReleaseMode        string        `validate:"oneof=transfer contract"`
	PaymentAmount      uint64        `validate:"gt=0"`
	DeployTTL          time.Duration `validate:"gt=0"`
	EventsPollInterval time.Duration `validate:"gt=0"`
	EventsPerTick      int           `validate:"gt=0"`
	RequestTimeout     time.Duration `validate:"gt=0"`
}

type PriceFeedConfig struct {
	URL             string        `validate:"required,url"`
	RefreshInterval time.Duration `validate:"gt=0"`
	BackoffBase     time.Duration `validate:"gt=0"`
	BackoffCap      time.Duration `validate:"gtefield=BackoffBase"`
	DefaultEthUSD   float64       `validate:"gt=0"`
	DefaultCsprUSD  float64       `validate:"gt=0"`
}

type OrchestratorConfig struct {
	Interval time.Duration `validate:"gt=0"`
}

type NatsConfig struct {
	URL     string
	Subject string
}

type VaultConfig struct {
	Addr   string
	Role   string
	KVPath string
}

type UptimeWebhookConfig struct {
	IndexEthereumDepositsURL string
	IndexCasperEventsURL     string
	ProcessPendingSwapsURL   string
	RefreshPricesURL         string
}

const defaultPriceFeedURL = "https://api.coingecko.com/api/v3/simple/price?ids=ethereum,casper-network&vs_currencies=usd"

func New() *AppConfig {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// does not override variables that are already set
	godotenv.Load(".env." + env)

	contractHash := os.Getenv("LOCK_VAULT_CONTRACT_HASH")
	if contractHash == "" {
		contractHash = os.Getenv("CASPER_CONTRACT_HASH")
	}

	return &AppConfig{
		Environment: environments.Environment(env),
		ApiServer: ApiServerConfig{
			Port: envOrDefault("PORT", "3000"),
		},
		Ops: OpsConfig{
			Port: os.Getenv("OPS_PORT"),
		},
		Postgres: DBConnection{
			URL:     os.Getenv("DATABASE_URL"),
			Host:    os.Getenv("DB_HOST"),
			Port:    envOrDefault("DB_PORT", "5432"),
			User:    os.Getenv("DB_USER"),
			Name:    os.Getenv("DB_NAME"),
			Pass:    os.Getenv("DB_PASS"),
			SSLMode: envOrDefault("DB_SSL_MODE", "disable"),
		},
		Ethereum: EthereumConfig{
			RPCEndpoint:    os.Getenv("SEPOLIA_RPC_URL"),
			ContractAddr:   os.Getenv("ETHEREUM_CONTRACT_ADDRESS"),
			PrivateKey:     os.Getenv("ETHEREUM_PRIVATE_KEY"),
			ChainID:        int64(envVarAtoi("ETHEREUM_CHAIN_ID", 11155111)),
			ReleaseMode:    envOrDefault("ETHEREUM_RELEASE_MODE", "contract"),
			BackfillBlocks: uint64(envVarAtoi("ETHEREUM_BACKFILL_BLOCKS", 100)),
			ChunkSize:      uint64(envVarAtoi("ETHEREUM_CHUNK_SIZE", 10)),
			PollInterval:   envVarAsDuration("ETHEREUM_POLL_INTERVAL", 30*time.Second),
			ConfirmTimeout: envVarAsDuration("ETHEREUM_CONFIRM_TIMEOUT", 5*time.Minute),
		},
		Casper: CasperConfig{
			RPCEndpoint:        envOrDefault("CASPER_RPC_URL", "https://node.testnet.casper.network/rpc"),
			ContractHash:       contractHash,
			NetworkName:        envOrDefault("CASPER_NETWORK_NAME", "casper-test"),
			PrivateKey:         os.Getenv("CASPER_PRIVATE_KEY"),
			PrivateKeyPath:     os.Getenv("CASPER_PRIVATE_KEY_PATH"),
			KeyAlgorithm:       strings.ToLower(envOrDefault("CASPER_KEY_ALGORITHM", "ed25519")),
			ReleaseMode:        envOrDefault("CASPER_RELEASE_MODE", "transfer"),
			PaymentAmount:      uint64(envVarAtoi("CASPER_PAYMENT_AMOUNT", 100000000)),
			DeployTTL:          envVarAsDuration("CASPER_DEPLOY_TTL", 30*time.Minute),
			EventsPollInterval: time.Duration(envVarAtoi("CASPER_EVENTS_POLL_MS", 30000)) * time.Millisecond,
			EventsPerTick:      envVarAtoi("CASPER_EVENTS_PER_TICK", 50),
			RequestTimeout:     envVarAsDuration("CASPER_RPC_TIMEOUT", 30*time.Second),
		},
		PriceFeed: PriceFeedConfig{
			URL:             envOrDefault("PRICE_FEED_URL", defaultPriceFeedURL),
			RefreshInterval: envVarAsDuration("PRICE_REFRESH_INTERVAL", 60*time.Second),
			BackoffBase:     envVarAsDuration("PRICE_BACKOFF_BASE", 30*time.Second),
			BackoffCap:      envVarAsDuration("PRICE_BACKOFF_CAP", 10*time.Minute),
			DefaultEthUSD:   envVarAsFloat("PRICE_DEFAULT_ETH_USD", 3000),
			DefaultCsprUSD:  envVarAsFloat("PRICE_DEFAULT_CSPR_USD", 0.0046),
		},
		Orchestrator: OrchestratorConfig{
			Interval: envVarAsDuration("ORCHESTRATOR_INTERVAL", 10*time.Second),
		},
		Nats: NatsConfig{
			URL:     os.Getenv("NATS_URL"),
			Subject: envOrDefault("NATS_SUBJECT", "bridge.swaps"),
		},
		Vault: VaultConfig{
			Addr:   os.Getenv("VAULT_ADDR"),
			Role:   os.Getenv("VAULT_ROLE"),
			KVPath: os.Getenv("VAULT_KV_PATH"),
		},
		UptimeWebhooks: UptimeWebhookConfig{
			IndexEthereumDepositsURL: os.Getenv("UPTIME_WEBHOOK_INDEX_ETHEREUM_DEPOSITS"),
			IndexCasperEventsURL:     os.Getenv("UPTIME_WEBHOOK_INDEX_CASPER_EVENTS"),
			ProcessPendingSwapsURL:   os.Getenv("UPTIME_WEBHOOK_PROCESS_PENDING_SWAPS"),
			RefreshPricesURL:         os.Getenv("UPTIME_WEBHOOK_REFRESH_PRICES"),
		},
	}
}

// SecretSource resolves a named secret, e.g. from Vault KV.
type SecretSource interface {
	GetKV(secretKey string) (string, error)
}

// LoadSecrets fills private keys that are not set in the environment.
func (c *AppConfig) LoadSecrets(source SecretSource) error {
	if c.Ethereum.PrivateKey == "" {
		v, err := source.GetKV("ETHEREUM_PRIVATE_KEY")
		if err != nil {
			return errors.Wrap(err, "load ETHEREUM_PRIVATE_KEY")
		}
		c.Ethereum.PrivateKey = v
	}

	if c.Casper.PrivateKey == "" && c.Casper.PrivateKeyPath == "" {
		v, err := source.GetKV("CASPER_PRIVATE_KEY")
		if err != nil {
			return errors.Wrap(err, "load CASPER_PRIVATE_KEY")
		}
		c.Casper.PrivateKey = v
	}

	return nil
}

// Validate reports missing connection settings and secrets.
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
			}
			return errors.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// ReleaseTimeout bounds one release from submission to confirmation.
func (c *AppConfig) ReleaseTimeout() time.Duration {
	if c.Ethereum.ConfirmTimeout <= 0 {
		return 6 * time.Minute
	}
	return c.Ethereum.ConfirmTimeout + time.Minute
}

// DSN builds the postgres connection string, preferring DATABASE_URL.
func (d DBConnection) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Pass, d.Name, d.Port, d.SSLMode,
	)
}

func envOrDefault(envName, def string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return def
}

func envVarAtoi(envName string, def int) int {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return def
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", envName, err))
	}

	return value
}

func envVarAsFloat(envName string, def float64) float64 {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return def
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", envName, err))
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		panic(fmt.Sprintf("%s: %q is not a finite number", envName, valueStr))
	}
	return value
}

func envVarAsDuration(envName string, def time.Duration) time.Duration {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return def
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", envName, err))
	}
	return value
}
