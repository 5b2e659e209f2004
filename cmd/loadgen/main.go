package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// Student represents the structure of a record to insert
type Student struct {
	Name  string  `json:"name"`
	Age   int     `json:"age"`
	GPA   float64 `json:"gpa"`
	Email string  `json:"email"`
}

// generateRandomName generates a random 6-letter name
func generateRandomName(rng *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	name := make([]byte, 6)
	for i := range name {
		name[i] = letters[rng.Intn(len(letters))]
	}
	// Capitalize first letter
	name[0] = name[0] - 32
	return string(name)
}

func post(client *http.Client, url string, body interface{}, want int) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal body: %w", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

func main() {
	var (
		serverURL   = flag.String("url", "http://localhost:8080", "Server base URL")
		index       = flag.String("index", "students", "Index to load")
		numRecords  = flag.Int("n", 1000, "Number of records to insert")
		batchSize   = flag.Int("batch", 500, "Records per batch request")
		concurrency = flag.Int("c", 4, "Concurrent batch requests")
		seed        = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	)
	flag.Parse()

	if *numRecords <= 0 || *batchSize <= 0 || *concurrency <= 0 {
		fmt.Println("Error: -n, -batch and -c must be greater than 0")
		os.Exit(1)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	base := strings.TrimRight(*serverURL, "/") + "/indexes/" + *index

	config := domain.JSONConfig(
		domain.PathOrder{Path: "name", Direction: domain.Asc},
		domain.PathOrder{Path: "age", Direction: domain.Asc},
		domain.PathOrder{Path: "gpa", Direction: domain.Desc},
	)
	if err := post(client, base, config, http.StatusCreated); err != nil {
		fmt.Printf("Note: creating index %s: %v (continuing with existing index)\n", *index, err)
	}

	fmt.Printf("Starting load test: inserting %d records into %s\n", *numRecords, base)

	rng := rand.New(rand.NewSource(*seed))
	var batches []domain.BatchOps
	for start := 0; start < *numRecords; start += *batchSize {
		ops := domain.BatchOps{Inserts: make(map[string]interface{})}
		for i := start; i < start+*batchSize && i < *numRecords; i++ {
			name := generateRandomName(rng)
			ops.Inserts[fmt.Sprintf("rec-%08d", i)] = Student{
				Name:  name,
				Age:   rng.Intn(82) + 18,
				GPA:   float64(rng.Intn(300))/100 + 1.0,
				Email: strings.ToLower(name) + "@example.com",
			}
		}
		batches = append(batches, ops)
	}

	startTime := time.Now()
	var done, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(*concurrency)
	for i, ops := range batches {
		i, ops := i, ops
		g.Go(func() error {
			if err := post(client, base+"/batch", ops, http.StatusOK); err != nil {
				failed.Add(int64(len(ops.Inserts)))
				fmt.Printf("Error in batch %d: %v\n", i, err)
				return nil
			}
			n := done.Add(int64(len(ops.Inserts)))
			fmt.Printf("Progress: %d/%d records (%.1f%%)\n", n, *numRecords, float64(n)/float64(*numRecords)*100)
			return nil
		})
	}
	_ = g.Wait()

	totalTime := time.Since(startTime)
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("LOAD TEST COMPLETE")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Records inserted: %d\n", done.Load())
	fmt.Printf("Records failed:   %d\n", failed.Load())
	fmt.Printf("Total time:       %v\n", totalTime)
	fmt.Printf("Average rate:     %.2f records/sec\n", float64(done.Load())/totalTime.Seconds())

	if failed.Load() > 0 {
		os.Exit(1)
	}
}
