// Package main provides a performance benchmarking tool for the Marquee CLI.
// It measures how long ranking takes for several window sizes, first with an empty
// dataset cache (download included) and then with today's datasets already cached,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - marquee binary installed and available in PATH
// - network access to the dataset host for the cold phase
//
// Usage: go run benchmark/main.go [data-dir]
//
//	data-dir: Directory used as the dataset cache for every run
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the timings of one ranking scenario.
type BenchmarkResult struct {
	Scenario string
	Years    int
	Limit    int
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	DataDir  string
	Timeout  time.Duration
	WarmRuns int
	Windows  []BenchmarkWindow
}

// BenchmarkWindow is one ranking scenario.
type BenchmarkWindow struct {
	Name  string
	Years int
	Limit int
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [data-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		DataDir:  os.Args[1],
		Timeout:  30 * time.Minute,
		WarmRuns: 3,
		Windows: []BenchmarkWindow{
			{Name: "default", Years: 10, Limit: 10},
			{Name: "recent", Years: 1, Limit: 10},
			{Name: "wide", Years: 50, Limit: 100},
		},
	}

	if _, err := exec.LookPath("marquee"); err != nil {
		fmt.Printf("Prerequisites check failed: marquee binary not found in PATH\n")
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes every scenario once cold and WarmRuns times warm.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d scenarios, %v timeout, warm: %d runs\n",
		len(config.Windows), config.Timeout, config.WarmRuns)

	for _, w := range config.Windows {
		fmt.Printf("Benchmarking %s (years=%d, limit=%d)\n", w.Name, w.Years, w.Limit)

		// Clear the dataset cache so the first run downloads everything
		if output, err := marquee(config, "cache", "clear", "--all"); err != nil {
			fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, output)
		}

		coldStr := "TIMEOUT"
		if cold, ok := timeActors(config, w); ok {
			coldStr = fmt.Sprintf("%.3fs", cold)
		}

		var warm []float64
		for run := 0; run < config.WarmRuns; run++ {
			if d, ok := timeActors(config, w); ok {
				warm = append(warm, d)
			}
		}

		warmStr := "TIMEOUT"
		if len(warm) > 0 {
			var sum float64
			for _, d := range warm {
				sum += d
			}
			warmStr = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
		}

		fmt.Printf("  Cold time: %s, Warm average: %s\n", coldStr, warmStr)
		results = append(results, BenchmarkResult{
			Scenario: w.Name,
			Years:    w.Years,
			Limit:    w.Limit,
			ColdTime: coldStr,
			WarmTime: warmStr,
		})
	}

	return results
}

// timeActors runs one ranking and reports its duration in seconds.
func timeActors(config BenchmarkConfig, w BenchmarkWindow) (float64, bool) {
	start := time.Now()
	output, err := marquee(config, "actors",
		"--years", strconv.Itoa(w.Years),
		"--limit", strconv.Itoa(w.Limit),
		"--output", "csv")
	if err != nil || !isSuccess(output) {
		return 0, false
	}
	return time.Since(start).Seconds(), true
}

// marquee runs the binary against the configured data directory.
func marquee(config BenchmarkConfig, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	args = append(args, "--data-dir", config.DataDir)
	output, err := exec.CommandContext(ctx, "marquee", args...).CombinedOutput()
	return string(output), err
}

// isSuccess checks that the CSV header of the ranking was printed.
func isSuccess(output string) bool {
	return strings.Contains(output, "nconst") && strings.Contains(output, "primaryName")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/marquee_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"scenario", "years", "limit", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		record := []string{r.Scenario, strconv.Itoa(r.Years), strconv.Itoa(r.Limit), r.ColdTime, r.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, r := range results {
		fmt.Printf("  %-8s: Cold: %s, Warm: %s\n", r.Scenario, r.ColdTime, r.WarmTime)
	}
}
