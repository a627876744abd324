package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_DrainsInFlightRequestsOnShutdown(t *testing.T) {
	app := newMiddlewareApp(600, 10)
	app.Config.Server.ShutdownTimeout = 5 * time.Second
	started := make(chan struct{})
	app.Router.POST("/api/sessions/current/mint", func(c *gin.Context) {
		close(started)
		time.Sleep(100 * time.Millisecond)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	app.InitializeServer()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- app.serve(ctx, ln) }()

	type result struct {
		status int
		err    error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := http.Post("http://"+ln.Addr().String()+"/api/sessions/current/mint", "application/json", nil)
		if err != nil {
			done <- result{err: err}
			return
		}
		resp.Body.Close()
		done <- result{status: resp.StatusCode}
	}()

	<-started
	cancel()

	require.NoError(t, <-served)
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, http.StatusOK, res.status)
}

func TestServe_ReturnsListenerErrors(t *testing.T) {
	app := newMiddlewareApp(600, 10)
	app.InitializeServer()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	assert.Error(t, app.serve(context.Background(), ln))
}

func TestInitializeServer_WriteTimeoutCoversReceiptWait(t *testing.T) {
	app := newMiddlewareApp(600, 10)
	app.InitializeServer()
	assert.Greater(t, app.Server.WriteTimeout, app.Config.Chain.ReceiptTimeout)
}
