package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"onchain-re-lending/pkg/logger"
)

// create the HTTP server. A mint request waits for its receipt, so the write
// timeout leaves room for the receipt wait plus the IPFS and RPC calls around it.
func (a *App) InitializeServer() {
	a.Server = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      a.Config.Chain.ReceiptTimeout + 2*externalCallTimeout,
		IdleTimeout:       2 * time.Minute,
	}
}

// StartServer serves until SIGINT or SIGTERM and then drains in-flight requests.
func (a *App) StartServer() error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	logger.GlobalLogger.Printf("Starting server on %s", ln.Addr())
	logger.GlobalLogger.Printf("Swagger UI available at: http://localhost:%d/swagger/index.html", a.Config.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.serve(ctx, ln)
}

// serve runs the server on ln until ctx is done. Requests already in flight,
// such as a mint waiting on its receipt, get ShutdownTimeout to complete.
func (a *App) serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.GlobalLogger.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.GlobalLogger.Println("Server exited")
	return nil
}
