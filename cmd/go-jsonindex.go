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

	"github.com/adfharrison1/go-jsonindex/pkg/indexing"
	"github.com/adfharrison1/go-jsonindex/pkg/server"
	"github.com/adfharrison1/go-jsonindex/pkg/storage"
)

func main() {
	// Command line flags
	var (
		port                = flag.String("port", "8080", "Server port")
		dataFile            = flag.String("data-file", "go-jsonindex_data.gjix", "Data file path for persistence")
		dataDir             = flag.String("data-dir", ".", "Data directory for storage")
		backgroundSave      = flag.Duration("background-save", 0, "Background save interval (e.g., 5m, 30s). Set to 0 to disable.")
		workers             = flag.Int("workers", 0, "Workers used to build and sort indexes (0 = number of CPUs)")
		caseInsensitiveLike = flag.Bool("case-insensitive-like", false, "Match LIKE patterns without regard to case")
		showHelp            = flag.Bool("help", false, "Show help message")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ngo-jsonindex is an in-memory secondary index server for JSON values with optional persistence.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                    # Start with defaults\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090 -workers 4             # Custom port and build workers\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -background-save 5m               # Auto-save every 5 minutes\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -data-dir /tmp/go-jsonindex       # Custom data directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nSafety Note:\n")
		fmt.Fprintf(os.Stderr, "  By default every write is saved to its index file as it completes.\n")
		fmt.Fprintf(os.Stderr, "  With -background-save, writes are only flushed on the interval and on shutdown.\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Build storage options based on flags
	var storageOptions []storage.StorageOption

	if *dataDir != "." {
		storageOptions = append(storageOptions, storage.WithDataDir(*dataDir))
		log.Printf("INFO: Using data directory: %s", *dataDir)
	}

	var indexOptions []indexing.IndexOption
	if *workers > 0 {
		indexOptions = append(indexOptions, indexing.WithWorkers(*workers))
		log.Printf("INFO: Index workers set to: %d", *workers)
	}
	if *caseInsensitiveLike {
		indexOptions = append(indexOptions, indexing.WithCaseInsensitiveLike(true))
		log.Printf("INFO: LIKE matching is case-insensitive")
	}
	if len(indexOptions) > 0 {
		storageOptions = append(storageOptions, storage.WithIndexOptions(indexOptions...))
	}

	if *backgroundSave > 0 {
		storageOptions = append(storageOptions, storage.WithBackgroundSave(*backgroundSave))
		log.Printf("INFO: Background save enabled: every %v", *backgroundSave)
	} else {
		log.Printf("INFO: Transaction saves enabled - each write is persisted to its index file")
	}

	// Create a new server with storage options
	srv := server.NewServer(storageOptions...)

	// Initialize indexes from file
	log.Printf("INFO: Loading data from: %s", *dataFile)
	srv.InitDB(*dataFile)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:    ":" + *port,
		Handler: srv.Router(),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting go-jsonindex server on :%s", *port)
		log.Printf("API endpoints available at http://localhost:%s", *port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	// Stop the periodic saver first so it cannot write per-index files
	// that are older than the main file saved below
	srv.StopBackgroundWorkers()

	// Save indexes once no request can still be writing
	log.Printf("INFO: Saving data to: %s", *dataFile)
	srv.SaveDB(*dataFile)

	log.Println("Server exited")
}
