package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dukerupert/spesa/internal/backup"
	"github.com/dukerupert/spesa/internal/database"
	"github.com/dukerupert/spesa/internal/logging"
	"github.com/dukerupert/spesa/internal/server"
	"github.com/dukerupert/spesa/internal/storage"
)

func main() {
	_ = godotenv.Load()

	exportPath := flag.String("export", "", "write an encrypted backup to this path and exit")
	restorePath := flag.String("restore", "", "restore an encrypted backup from this path and exit")
	flag.Parse()

	logger := logging.Setup(os.Getenv("SPESA_LOG_LEVEL"))

	port := os.Getenv("SPESA_PORT")
	if port == "" {
		port = "8080"
	}
	dbPath := os.Getenv("SPESA_DB_PATH")
	if dbPath == "" {
		dbPath = "spesa.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if *exportPath != "" || *restorePath != "" {
		passphrase := os.Getenv("SPESA_BACKUP_PASSPHRASE")
		if passphrase == "" {
			log.Fatal("SPESA_BACKUP_PASSPHRASE is required for backup operations")
		}
		adapter := storage.NewSQLite(db)
		switch {
		case *exportPath != "":
			if err := backup.Export(adapter, *exportPath, passphrase); err != nil {
				log.Fatalf("export failed: %v", err)
			}
			fmt.Printf("Backup written to %s\n", *exportPath)
		case *restorePath != "":
			if err := backup.Restore(adapter, *restorePath, passphrase); err != nil {
				log.Fatalf("restore failed: %v", err)
			}
			fmt.Printf("Backup restored from %s\n", *restorePath)
		}
		return
	}

	srv := server.New(db, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Spesa running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
