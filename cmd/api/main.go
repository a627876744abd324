package main

import (
	"os"

	"onchain-re-lending/pkg/logger"
)

// @title On-chain RE Lending API
// @version 1.0
// @description Property valuation over New Taipei City open data, identity verification, NFT minting and loan setup.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := LoadConfiguration()

	app := NewApp(cfg)
	app.InitializeServer()
	err := app.StartServer()
	app.cleanup()
	if err != nil {
		logger.GlobalLogger.Errorf("Server stopped: %v", err)
		os.Exit(1)
	}
}
