// Package main provides a performance benchmarking tool for the MarketScope CLI.
// It measures analysis times across a set of targets, running each test multiple
// times, treating the first successful cached run as cold and averaging the rest as warm,
// and writes CSV output for performance analysis and documentation.
//
// Prerequisites:
// - marketscope binary installed and available in PATH
// - BRAVE_API_KEY set, or news results will be empty
//
// Usage: go run benchmark/main.go [targets-file]
//
//	targets-file: Optional file with one "target|products" line per benchmark
package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Target      string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkTarget is one subject to screen.
type BenchmarkTarget struct {
	Name     string
	Products string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	Targets     []BenchmarkTarget
}

var defaultTargets = []BenchmarkTarget{
	{Name: "Turkey", Products: "crumb rubber,rubber tiles"},
	{Name: "Peru", Products: "used tyres"},
	{Name: "Kenya", Products: "solar panels"},
	{Name: "Vietnam", Products: "coffee"},
}

func main() {
	if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [targets-file]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Timeout:     2 * time.Minute,
		Workers:     8,
		NoCacheRuns: 2,
		CacheRuns:   4,
		Targets:     defaultTargets,
	}
	if len(os.Args) == 2 {
		targets, err := loadTargets(os.Args[1])
		if err != nil {
			fmt.Printf("Failed to load targets: %v\n", err)
			os.Exit(1)
		}
		config.Targets = targets
	}

	if _, err := exec.LookPath("marketscope"); err != nil {
		fmt.Printf("Prerequisites check failed: marketscope binary not found in PATH\n")
		os.Exit(1)
	}

	clearCache()

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// loadTargets reads "target|products" lines, skipping blanks and # comments.
func loadTargets(path string) ([]BenchmarkTarget, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var targets []BenchmarkTarget
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, products, _ := strings.Cut(line, "|")
		targets = append(targets, BenchmarkTarget{Name: strings.TrimSpace(name), Products: strings.TrimSpace(products)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets in %s", path)
	}
	return targets, nil
}

// clearCache clears the fetch cache using marketscope cache clear.
func clearCache() {
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("marketscope", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}
}

// runBenchmarks executes all benchmark tests across configured targets
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d targets, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.Targets), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, target := range config.Targets {
		fmt.Printf("Benchmarking %s\n", target.Name)
		results = append(results, runBenchmarkSuite(config, target))
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for one target
func runBenchmarkSuite(config BenchmarkConfig, target BenchmarkTarget) BenchmarkResult {
	fmt.Printf("Running analysis of %s (%s)\n", target.Name, target.Products)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, target, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Target:      target.Name,
		Command:     "analyze",
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes an analysis multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, target BenchmarkTarget, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		"analyze", target.Name,
		"--cache-backend", cacheBackend,
		"--workers", fmt.Sprint(config.Workers),
	}
	if target.Products != "" {
		args = append(args, "--products", target.Products)
	}

	var times []float64
	for range numRuns {
		start := time.Now()
		cmd := exec.Command("marketscope", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Analysis completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/marketscope_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"target", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Target, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	fmt.Printf("Analysis:\n")
	for _, result := range results {
		fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", result.Target, result.NoCacheTime, result.ColdTime, result.WarmTime)
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
