package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessera-engine/tessera/ecs"
)

func init() {
	runCmd.Flags().Duration("duration", 10*time.Second, "total duration the test should run for")
	runCmd.Flags().Int("entities", 10000, "initial number of entities to create")
	runCmd.Flags().Int("systems", 50, "number of generated systems to register")
	runCmd.Flags().Bool("gc-pause-metrics", false, "include GC pause metrics in the report")
	runCmd.Flags().String("out", "", "save the report as YAML to this path, in addition to printing it")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Populate a store, build a random schedule, and run it for a fixed duration",
	RunE:  runBench,
}

func runBench(cmd *cobra.Command, _ []string) error {
	duration, _ := cmd.Flags().GetDuration("duration")
	entityCount, _ := cmd.Flags().GetInt("entities")
	systemCount, _ := cmd.Flags().GetInt("systems")
	gcPauseMetrics, _ := cmd.Flags().GetBool("gc-pause-metrics")
	outPath, _ := cmd.Flags().GetString("out")

	rng := rand.New(rand.NewSource(1))

	fmt.Println("Starting ECS stress test...")

	registry := ecs.NewComponentRegistry()
	registerGeneratedComponents(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage, ecs.NewWorkerPool(runtime.NumCPU()))
	registerGeneratedSystems(scheduler, systemCount, rng)

	if build := scheduler.Build(); build.Err != nil {
		fmt.Fprintf(os.Stderr, "warning: schedule build reported %v (continuing with partial plan)\n", build.Err)
	}

	fmt.Printf("Populating storage with %d entities...\n", entityCount)
	for i := 0; i < entityCount; i++ {
		spawnRandomEntity(storage, rng, 1+rng.Intn(5))
	}

	report := &Report{
		Duration:       duration,
		Entities:       entityCount,
		Components:     len(generatedComponentNames),
		Systems:        systemCount,
		GCPauseMetrics: gcPauseMetrics,
		UpdateTime:     Stats{Samples: make([]time.Duration, 0)},
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	fmt.Printf("Running simulation for %s...\n", duration)
	deadline := time.Now().Add(duration)
	startTime := time.Now()
	lastFrameTime := startTime
	var totalUpdates int64

	for time.Now().Before(deadline) {
		now := time.Now()
		deltaTime := now.Sub(lastFrameTime)
		lastFrameTime = now

		updateStart := time.Now()
		scheduler.Run(deltaTime.Seconds())
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		totalUpdates++
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	fmt.Println("Simulation finished.")
	fmt.Println("\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")

	if outPath != "" {
		if err := report.Save(outPath); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		fmt.Printf("Report saved to %s\n", outPath)
	}

	return nil
}
