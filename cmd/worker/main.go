// Command worker runs the transcription job runtime: it dequeues
// dispatched sessions, drives them through the resolved STT provider,
// and sweeps stuck PROCESSING sessions back to FAILED (spec.md §4.7
// "C7", §5 "the reaper tier").
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/coachtranscribe/engine/modules/session/application/commands"
	"github.com/coachtranscribe/engine/seedwork/domain"
	"github.com/coachtranscribe/engine/seedwork/infrastructure/container"
	"github.com/coachtranscribe/engine/seedwork/infrastructure/database"
)

func main() {
	if err := database.Initialize(); err != nil {
		log.Fatalf("worker: database init failed: %v", err)
	}

	c, err := container.NewContainer()
	if err != nil {
		log.Fatalf("worker: container init failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		log.Println("worker: runtime starting")
		c.WorkerRuntime.Run(ctx)
	}()

	go func() {
		log.Println("worker: reaper starting")
		c.Reaper.Run(ctx, func(ctx context.Context, sessionID, ownerID string) {
			err := c.FailHandler.Handle(ctx, commands.FailTranscriptionCommand{
				SessionID: sessionID,
				OwnerID:   ownerID,
				Message:   domain.CodeWorkerLost,
			})
			if err != nil {
				log.Printf("worker: reaper failed to fail stuck session %s: %v", sessionID, err)
			}
		})
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("worker: shutdown signal received")

	cancel()
	if err := database.Close(); err != nil {
		log.Printf("worker: error closing database: %v", err)
	}
}
