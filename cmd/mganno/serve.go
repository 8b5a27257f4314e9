package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/mganno/mganno/internal/ioblob"
	"github.com/mganno/mganno/internal/iodb"
	"github.com/mganno/mganno/internal/iohttp"
	"github.com/mganno/mganno/internal/iostore"
	"github.com/mganno/mganno/internal/iostream"
	"github.com/mganno/mganno/pkg/db"
	"github.com/mganno/mganno/pkg/logger"
	"github.com/spf13/cobra"
)

func getServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the annotation streaming daemon",
		Long: `Run the HTTP daemon that streams annotated sequence and similarity
downloads.

Routes:
  GET/POST /annotation/sequence/{accession}
  GET/POST /annotation/similarity/{accession}

The daemon runs until interrupted; on SIGINT/SIGTERM it stops accepting
connections and lets in-flight streams finish.`,
		RunE: runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfig()
	log := logger.New(&cfg.Log)

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()

	log.Info("Connected to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Database,
	)

	blobs, err := ioblob.New(&cfg.Blob)
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}

	pool := op.Pool()
	pipeline := &iostream.Pipeline{
		Candidates:  iostore.NewCandidateSource(pool),
		Annotations: iostore.NewAnnotationStore(pool),
		Blobs:       blobs,
		ChunkSize:   cfg.Pipeline.ChunkSize,
		QueueDepth:  cfg.Pipeline.QueueDepth,
		Log:         log,
	}

	handler := &iohttp.Handler{
		Jobs:     iostore.NewJobStore(pool),
		Pipeline: pipeline,
		Log:      log,
	}

	srv := iohttp.NewServer(&cfg.Server, handler, log)
	log.Info("Starting annotation daemon", "port", cfg.Server.Port)
	return srv.ListenAndServe(ctx)
}
