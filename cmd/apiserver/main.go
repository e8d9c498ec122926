// Command apiserver boots the coach-transcription HTTP API: session
// lifecycle, role re-attribution, and usage/billing reads. The worker
// tier that actually drives STT jobs lives in cmd/worker.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coachtranscribe/engine/seedwork/infrastructure/container"
	"github.com/coachtranscribe/engine/seedwork/infrastructure/database"
)

func main() {
	if err := database.Initialize(); err != nil {
		log.Fatalf("apiserver: database init failed: %v", err)
	}
	if err := database.RunMigrations("seedwork/infrastructure/database/migrations"); err != nil {
		log.Fatalf("apiserver: migrations failed: %v", err)
	}

	c, err := container.NewContainer()
	if err != nil {
		log.Fatalf("apiserver: container init failed: %v", err)
	}

	router := gin.Default()
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	c.UserRoutes.SetupPublicRoutes(api)
	c.UserRoutes.SetupProtectedRoutes(api)
	c.SessionRoutes.Setup(api)
	c.BillingRoutes.Setup(api)

	srv := &http.Server{
		Addr:    ":" + c.Config.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("apiserver: listening on :%s", c.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("apiserver: serve failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("apiserver: shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("apiserver: graceful shutdown error: %v", err)
	}
	if err := database.Close(); err != nil {
		log.Printf("apiserver: error closing database: %v", err)
	}
}
