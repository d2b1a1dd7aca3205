// Package main provides a performance benchmarking tool for the germtrack CLI.
// It generates synthetic trial documents of increasing size, runs each command
// several times with and without a SQLite run history, and writes the timings
// to a CSV file for performance analysis and documentation.
//
// Prerequisites:
// - germtrack binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the generated trial documents and history are kept
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/germtrack/internal/input"
	"go.yaml.in/yaml/v3"
)

// BenchmarkResult holds the timings of one command on one trial size.
type BenchmarkResult struct {
	Trial       string
	Command     string
	NoHistory   string
	ColdHistory string
	WarmHistory string
}

// TrialShape describes the dimensions of a generated trial.
type TrialShape struct {
	Name       string
	Treatments int
	Replicates int
	Days       int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Workers     int
	Runs        int
	HistoryRuns int
	Shapes      []TrialShape
	Commands    []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		Workers:     8,
		Runs:        3,
		HistoryRuns: 4,
		Shapes: []TrialShape{
			{Name: "small", Treatments: 4, Replicates: 4, Days: 14},
			{Name: "medium", Treatments: 40, Replicates: 8, Days: 30},
			{Name: "large", Treatments: 400, Replicates: 10, Days: 60},
		},
		Commands: []string{"parameters", "curves", "correlation", "analyze"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the germtrack binary and work directory exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("germtrack"); err != nil {
		return fmt.Errorf("germtrack binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateTrial writes a deterministic synthetic trial document and returns its path.
func generateTrial(dir string, shape TrialShape) (string, error) {
	rng := rand.New(rand.NewPCG(uint64(shape.Treatments), uint64(shape.Days)))
	seedTotal := 50

	doc := input.Document{SeedTotal: &seedTotal}
	for i := range shape.Treatments {
		treatment := input.TreatmentDocument{Name: fmt.Sprintf("T%03d", i+1)}
		remaining := make([]int, shape.Replicates)
		for j := range shape.Replicates {
			treatment.Replicates = append(treatment.Replicates, fmt.Sprintf("R%d", j+1))
			remaining[j] = seedTotal
		}
		for day := 1; day <= shape.Days; day++ {
			row := input.ObservationRow{Day: day}
			for j := range shape.Replicates {
				n := min(remaining[j], rng.IntN(6))
				remaining[j] -= n
				row.Counts = append(row.Counts, &n)
			}
			treatment.Observations = append(treatment.Observations, row)
		}
		doc.Treatments = append(doc.Treatments, treatment)
	}

	content, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s trial: %w", shape.Name, err)
	}
	path := filepath.Join(dir, "trial_"+shape.Name+".yaml")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// runBenchmarks executes all benchmark tests across configured trial shapes.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d trials, %v timeout, %d workers, no-history: %d runs, history: %d runs\n",
		len(config.Shapes), config.Timeout, config.Workers, config.Runs, config.HistoryRuns)

	for _, shape := range config.Shapes {
		trialPath, err := generateTrial(config.WorkDir, shape)
		if err != nil {
			return nil, err
		}
		fmt.Printf("Benchmarking %s (%d treatments x %d replicates x %d days)\n",
			shape.Name, shape.Treatments, shape.Replicates, shape.Days)

		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, shape.Name, trialPath, command))
		}
	}

	return results, nil
}

// runBenchmarkSuite runs both no-history and history benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, trial, trialPath, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, trial)
	historyPath := filepath.Join(config.WorkDir, "history_"+trial+".db")
	_ = os.Remove(historyPath)

	// Helper to run a benchmark phase
	runPhase := func(backend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, trialPath, command, backend, historyPath, numRuns)
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

	_, noHistoryAvg := runPhase("none", config.Runs, "No-history")
	coldTime, warmAvg := runPhase("sqlite", config.HistoryRuns, "History")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-history average: %s, Cold history: %s, Warm history average: %s\n", noHistoryAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Trial:       trial,
		Command:     command,
		NoHistory:   noHistoryAvg,
		ColdHistory: coldTimeStr,
		WarmHistory: warmAvg,
	}
}

// runBenchmark executes a germtrack command multiple times and returns the cold time and warm times.
func runBenchmark(config BenchmarkConfig, trialPath, command, backend, historyPath string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, trialPath, "--workers", fmt.Sprint(config.Workers), "--history-backend", backend}
	if backend == "sqlite" {
		args = append(args, "--history-db-connect", historyPath)
	}

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("germtrack", args...)

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
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Analysis completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("germtrack_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"trial", "cmd", "no_history_avg", "cold_history", "warm_history_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Trial, result.Command, result.NoHistory, result.ColdHistory, result.WarmHistory}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by command.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: No-history: %s, Cold: %s, Warm: %s\n", result.Trial, result.NoHistory, result.ColdHistory, result.WarmHistory)
			}
		}
	}
}
