package main

import (
	"context"
	"crypto/ecdsa"
	"net/http"
	"os"
	"strings"
	"time"

	"onchain-re-lending/internal/handlers"
	"onchain-re-lending/internal/middleware"
	"onchain-re-lending/internal/repositories"
	"onchain-re-lending/internal/services"
	"onchain-re-lending/internal/transformers"
	"onchain-re-lending/internal/validators"
	"onchain-re-lending/pkg/cache"
	"onchain-re-lending/pkg/chain"
	"onchain-re-lending/pkg/config"
	"onchain-re-lending/pkg/database"
	"onchain-re-lending/pkg/identity"
	"onchain-re-lending/pkg/logger"
	"onchain-re-lending/pkg/metrics"
	"onchain-re-lending/pkg/opendata"
	"onchain-re-lending/pkg/pinata"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

const externalCallTimeout = 30 * time.Second

// App represents the application structure
type App struct {
	Config           *config.Config
	Router           *gin.Engine
	Mongo            *mongo.Client
	DB               database.Database
	Redis            *redis.Client
	ValuationHandler *handlers.ValuationHandler
	SessionHandler   *handlers.SessionHandler
	KYCHandler       *handlers.KYCHandler
	AssetHandler     *handlers.AssetHandler
	RateLimiter      *middleware.RateLimiter
	Server           *http.Server
	stopBackground   context.CancelFunc
}

// Create and initialize a new App instance
func NewApp(cfg *config.Config) *App {
	app := &App{Config: cfg}

	// Initialize infrastructure
	app.initializeMetrics()
	app.initializeDatabase()
	app.initializeCache()
	app.initializeRateLimiter()

	// Initialize business logic
	app.initializeDependencies()

	// Initialize web layer
	app.initializeRouter()

	return app
}

// initialize the database connection and its indexes
func (a *App) initializeDatabase() {
	client, db, err := database.InitDB(a.Config.Database)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to initialize database: %v", err)
		os.Exit(1)
	}
	a.Mongo = client
	a.DB = database.NewMongoDatabase(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.DB.CreateIndexes(ctx); err != nil {
		logger.GlobalLogger.Errorf("Failed to create indexes: %v", err)
		os.Exit(1)
	}
}

// initialize the Redis session store
func (a *App) initializeCache() {
	client, err := cache.InitRedis(a.Config.Redis)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to initialize Redis: %v", err)
		os.Exit(1)
	}
	a.Redis = client
}

// initialize Prometheus metrics
func (a *App) initializeMetrics() {
	metrics.Init()
}

// initialize the rate limiter and its idle-entry cleanup
func (a *App) initializeRateLimiter() {
	a.RateLimiter = middleware.NewRateLimiter(middleware.PerMinute(a.Config.RateLimit.RequestsPerMinute), a.Config.RateLimit.Burst)

	ctx, cancel := context.WithCancel(context.Background())
	a.stopBackground = cancel
	go a.RateLimiter.Cleanup(ctx, time.Minute)
}

// initialize all dependencies
func (a *App) initializeDependencies() {
	cfg := a.Config

	// repositories
	sessionRepo := repositories.NewSessionCacheRepository(cache.NewStore(a.Redis), cfg.Session.TTL)
	kycRepo := repositories.NewKYCRepository(a.DB.GetCollection(database.KYCCollection))
	assetRepo := repositories.NewAssetRepository(a.DB.GetCollection(database.AssetCollection))

	// transformers
	addrTrans := transformers.NewAddressTransformer()
	propTrans := transformers.NewPropertyTransformer()
	metaTrans := transformers.NewMetadataTransformer()

	// validators
	sessionValidator := validators.NewSessionValidator()
	kycValidator := validators.NewKYCValidator(cfg.KYC.MaxUploadBytes)

	// external clients
	openData := opendata.NewClient(cfg.OpenData.BaseURL, cfg.OpenData.UserAgent, cfg.OpenData.Timeout)
	verifier := identity.NewHTTPVerifier(cfg.KYC.VerifierURL, identity.Scope{
		AppName:    cfg.KYC.AppName,
		Endpoint:   cfg.KYC.Endpoint,
		MinimumAge: cfg.KYC.MinimumAge,
		OFAC:       cfg.KYC.OFAC,
	}, externalCallTimeout)
	pinner := pinata.NewClient(cfg.Pinata.BaseURL, cfg.Pinata.GatewayURL, cfg.Pinata.APIKey, cfg.Pinata.SecretKey, externalCallTimeout)
	if pinner.Mock() {
		logger.GlobalLogger.Warnf("Pinata credentials not configured, IPFS pins will be mocked")
	}
	rpcClient, err := chain.Dial(cfg.Chain.RPCURL, externalCallTimeout)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to initialize chain client: %v", err)
		os.Exit(1)
	}
	var adminKey *ecdsa.PrivateKey
	if cfg.Chain.AdminKey != "" {
		adminKey, err = crypto.HexToECDSA(strings.TrimPrefix(cfg.Chain.AdminKey, "0x"))
		if err != nil {
			logger.GlobalLogger.Errorf("Invalid chain admin private key: %v", err)
			os.Exit(1)
		}
	}
	minter := chain.NewMinter(rpcClient, chain.MinterConfig{
		Contract:       cfg.Chain.ContractAddress,
		Admin:          cfg.Chain.AdminAddress,
		PrivateKey:     adminKey,
		ChainID:        cfg.Chain.ChainID,
		ExplorerURL:    cfg.Chain.ExplorerURL,
		Confirmations:  cfg.Chain.Confirmations,
		PollInterval:   cfg.Chain.PollInterval,
		ReceiptTimeout: cfg.Chain.ReceiptTimeout,
	})

	// services
	valuationService := services.NewValuationService(openData, addrTrans, propTrans)
	sessionService := services.NewSessionService(sessionRepo, sessionValidator, cfg.JWT.Secret, cfg.Session.TTL)
	kycService := services.NewKYCService(kycRepo, sessionService, verifier, kycValidator, cfg.KYC.AllowSkip)
	sessionValuationService := services.NewSessionValuationService(sessionService, valuationService)
	mintService := services.NewMintService(sessionService, assetRepo, pinner, minter, metaTrans, cfg.Chain.ChainID)
	loanService := services.NewLoanService(sessionService, assetRepo, services.LoanTerms{
		MaxLTV:     cfg.Loan.MaxLTV,
		AnnualRate: cfg.Loan.AnnualRate,
		TermDays:   cfg.Loan.TermDays,
	})

	// handlers
	a.ValuationHandler = handlers.NewValuationHandler(valuationService)
	a.SessionHandler = handlers.NewSessionHandler(sessionService, kycService, sessionValuationService, mintService, loanService, cfg.KYC.MaxUploadBytes)
	a.KYCHandler = handlers.NewKYCHandler(kycService, cfg.KYC.MaxUploadBytes)
	a.AssetHandler = handlers.NewAssetHandler(mintService)
}

// set up the Gin router with middleware and routes
func (a *App) initializeRouter() {
	if a.Config.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	a.Router = gin.New()
	a.setupMiddleware()
	a.setupRoutes()
}

// cleanup operations
func (a *App) cleanup() {
	if a.stopBackground != nil {
		a.stopBackground()
	}
	database.CloseDB(a.Mongo)
	cache.CloseRedis(a.Redis)
}
