package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOpenDataBaseURL = "https://data.ntpc.gov.tw/api/datasets/ACCE802D-58CC-4DFF-9E7A-9ECC517F78BE/json"
	DefaultPinataBaseURL   = "https://api.pinata.cloud"
	DefaultPinataGateway   = "https://gateway.pinata.cloud"
	DefaultSapphireRPCURL  = "https://testnet.sapphire.oasis.io"
	DefaultExplorerURL     = "https://explorer.oasis.io/testnet/sapphire"
	DefaultNFTContract     = "0x077EA4EEB46Fdf1F406E108e52fd463764d73383"
	SapphireTestnetChainID = 23295
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	OpenData  OpenDataConfig  `yaml:"opendata"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Session   SessionConfig   `yaml:"session"`
	KYC       KYCConfig       `yaml:"kyc"`
	Pinata    PinataConfig    `yaml:"pinata"`
	Chain     ChainConfig     `yaml:"chain"`
	Loan      LoanConfig      `yaml:"loan"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Admin     AdminConfig     `yaml:"admin"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" validate:"required,gt=0,lte=65535"`
	Env             string        `yaml:"env"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

type OpenDataConfig struct {
	BaseURL   string        `yaml:"base_url" validate:"required,url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
}

type DatabaseConfig struct {
	URI    string `yaml:"uri"`
	DBName string `yaml:"dbname"`
}

type RedisConfig struct {
	Host        string `yaml:"host" validate:"required,hostname|ip"`
	Port        int    `yaml:"port" validate:"required,gt=0,lte=65535"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db" validate:"gte=0"`
	TLSEnabled  bool   `yaml:"tls_enabled"`
	TLSCertFile string `yaml:"tls_cert_file"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type SessionConfig struct {
	TTL time.Duration `yaml:"ttl" validate:"gte=0"`
}

type KYCConfig struct {
	AppName        string `yaml:"app_name"`
	Endpoint       string `yaml:"endpoint"`
	VerifierURL    string `yaml:"verifier_url" validate:"omitempty,url"`
	MinimumAge     int    `yaml:"minimum_age" validate:"gte=0,lte=150"`
	OFAC           bool   `yaml:"ofac"`
	AllowSkip      bool   `yaml:"allow_skip"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" validate:"gte=0"`
}

type PinataConfig struct {
	APIKey     string `yaml:"api_key"`
	SecretKey  string `yaml:"secret_key"`
	BaseURL    string `yaml:"base_url" validate:"required,url"`
	GatewayURL string `yaml:"gateway_url" validate:"required,url"`
}

type ChainConfig struct {
	RPCURL          string        `yaml:"rpc_url" validate:"required,url"`
	ChainID         int64         `yaml:"chain_id" validate:"gt=0"`
	ContractAddress string        `yaml:"contract_address" validate:"required,eth_addr"`
	AdminAddress    string        `yaml:"admin_address" validate:"omitempty,eth_addr"`
	AdminKey        string        `yaml:"admin_private_key" validate:"omitempty,hexadecimal"`
	ExplorerURL     string        `yaml:"explorer_url" validate:"omitempty,url"`
	Confirmations   uint64        `yaml:"confirmations"`
	PollInterval    time.Duration `yaml:"poll_interval" validate:"gte=0"`
	ReceiptTimeout  time.Duration `yaml:"receipt_timeout" validate:"gte=0"`
}

type LoanConfig struct {
	MaxLTV     float64 `yaml:"max_ltv" validate:"gt=0,lte=1"`
	AnnualRate float64 `yaml:"annual_rate" validate:"gte=0,lt=1"`
	TermDays   []int   `yaml:"term_days" validate:"min=1,dive,gt=0"`
}

type RateLimitConfig struct {
	RequestsPerMinute float64 `yaml:"requests_per_minute" validate:"gte=0"`
	Burst             int     `yaml:"burst" validate:"gte=0"`
}

type AdminConfig struct {
	APIKey string `yaml:"api_key"`
}

// Default returns a Config populated only with defaults. Used by the CLI and tests.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Override with environment variables if set
func applyEnv(cfg *Config) error {
	if port := os.Getenv("PORT"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT value: %w", err)
		}
		cfg.Server.Port = portNum
	}
	if env := os.Getenv("ENV"); env != "" {
		cfg.Server.Env = env
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if baseURL := os.Getenv("NTPC_API_BASE_URL"); baseURL != "" {
		cfg.OpenData.BaseURL = baseURL
	}
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		cfg.Database.URI = uri
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		cfg.Database.DBName = dbname
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid REDIS_PORT value: %w", err)
		}
		cfg.Redis.Port = portNum
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		dbNum, err := strconv.Atoi(db)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value: %w", err)
		}
		cfg.Redis.DB = dbNum
	}
	if tlsEnabled := os.Getenv("REDIS_TLS_ENABLED"); tlsEnabled != "" {
		cfg.Redis.TLSEnabled = tlsEnabled == "true"
	}
	if tlsCertFile := os.Getenv("REDIS_TLS_CERT_FILE"); tlsCertFile != "" {
		cfg.Redis.TLSCertFile = tlsCertFile
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if appName := os.Getenv("SELF_APP_NAME"); appName != "" {
		cfg.KYC.AppName = appName
	}
	if endpoint := os.Getenv("SELF_ENDPOINT"); endpoint != "" {
		cfg.KYC.Endpoint = endpoint
	}
	if verifierURL := os.Getenv("SELF_VERIFIER_URL"); verifierURL != "" {
		cfg.KYC.VerifierURL = verifierURL
	}
	if minAge := os.Getenv("SELF_MINIMUM_AGE"); minAge != "" {
		age, err := strconv.Atoi(minAge)
		if err != nil {
			return fmt.Errorf("invalid SELF_MINIMUM_AGE value: %w", err)
		}
		cfg.KYC.MinimumAge = age
	}
	if allowSkip := os.Getenv("KYC_ALLOW_SKIP"); allowSkip != "" {
		cfg.KYC.AllowSkip = allowSkip == "true"
	}
	if apiKey := os.Getenv("PINATA_API_KEY"); apiKey != "" {
		cfg.Pinata.APIKey = apiKey
	}
	if secretKey := os.Getenv("PINATA_SECRET_KEY"); secretKey != "" {
		cfg.Pinata.SecretKey = secretKey
	}
	if rpcURL := os.Getenv("CHAIN_RPC_URL"); rpcURL != "" {
		cfg.Chain.RPCURL = rpcURL
	}
	if contract := os.Getenv("PROPERTY_NFT_ADDRESS"); contract != "" {
		cfg.Chain.ContractAddress = contract
	}
	if admin := os.Getenv("CHAIN_ADMIN_ADDRESS"); admin != "" {
		cfg.Chain.AdminAddress = admin
	}
	if key := os.Getenv("CHAIN_ADMIN_PRIVATE_KEY"); key != "" {
		cfg.Chain.AdminKey = key
	}
	if adminKey := os.Getenv("ADMIN_API_KEY"); adminKey != "" {
		cfg.Admin.APIKey = adminKey
	}
	return nil
}

// Set default values
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "INFO"
	}
	if cfg.OpenData.BaseURL == "" {
		cfg.OpenData.BaseURL = DefaultOpenDataBaseURL
	}
	if cfg.OpenData.UserAgent == "" {
		cfg.OpenData.UserAgent = "Mozilla/5.0"
	}
	if cfg.OpenData.Timeout == 0 {
		cfg.OpenData.Timeout = 30 * time.Second
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "onchain_re_lending"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.DB < 0 {
		cfg.Redis.DB = 0
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 24 * time.Hour
	}
	if cfg.KYC.AppName == "" {
		cfg.KYC.AppName = "on-chain-re-lending"
	}
	if cfg.KYC.MinimumAge == 0 {
		cfg.KYC.MinimumAge = 18
	}
	if cfg.KYC.MaxUploadBytes == 0 {
		cfg.KYC.MaxUploadBytes = 10 << 20
	}
	if cfg.Pinata.BaseURL == "" {
		cfg.Pinata.BaseURL = DefaultPinataBaseURL
	}
	if cfg.Pinata.GatewayURL == "" {
		cfg.Pinata.GatewayURL = DefaultPinataGateway
	}
	if cfg.Chain.RPCURL == "" {
		cfg.Chain.RPCURL = DefaultSapphireRPCURL
	}
	if cfg.Chain.ChainID == 0 {
		cfg.Chain.ChainID = SapphireTestnetChainID
	}
	if cfg.Chain.ContractAddress == "" {
		cfg.Chain.ContractAddress = DefaultNFTContract
	}
	if cfg.Chain.ExplorerURL == "" {
		cfg.Chain.ExplorerURL = DefaultExplorerURL
	}
	if cfg.Chain.Confirmations == 0 {
		cfg.Chain.Confirmations = 1
	}
	if cfg.Chain.PollInterval == 0 {
		cfg.Chain.PollInterval = 2 * time.Second
	}
	if cfg.Chain.ReceiptTimeout == 0 {
		cfg.Chain.ReceiptTimeout = 2 * time.Minute
	}
	if cfg.Loan.MaxLTV == 0 {
		cfg.Loan.MaxLTV = 0.6
	}
	if cfg.Loan.AnnualRate == 0 {
		cfg.Loan.AnnualRate = 0.05
	}
	if len(cfg.Loan.TermDays) == 0 {
		cfg.Loan.TermDays = []int{30, 90, 180, 365}
	}
	if cfg.RateLimit.RequestsPerMinute == 0 {
		cfg.RateLimit.RequestsPerMinute = 100
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}
}

// Validate runs the struct validation tags plus the checks tags cannot express.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Redis.TLSEnabled && cfg.Redis.TLSCertFile != "" {
		if _, err := os.Stat(cfg.Redis.TLSCertFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS certificate file does not exist: %s", cfg.Redis.TLSCertFile)
		}
	}
	if cfg.Server.Env == "production" && cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}
