package main

import (
	"math/rand"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tessera-engine/tessera/ecs"
	"github.com/tessera-engine/tessera/ecs/debugui/tui"
)

func init() {
	dashboardCmd.Flags().Int("entities", 10000, "initial number of entities to create")
	dashboardCmd.Flags().Int("systems", 50, "number of generated systems to register")
	rootCmd.AddCommand(dashboardCmd)
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Run the generated population under a live terminal stats dashboard",
	RunE:  runDashboard,
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	entityCount, _ := cmd.Flags().GetInt("entities")
	systemCount, _ := cmd.Flags().GetInt("systems")
	rng := rand.New(rand.NewSource(1))

	registry := ecs.NewComponentRegistry()
	registerGeneratedComponents(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage, ecs.NewWorkerPool(runtime.NumCPU()))
	registerGeneratedSystems(scheduler, systemCount, rng)
	scheduler.Build()

	for i := 0; i < entityCount; i++ {
		spawnRandomEntity(storage, rng, 1+rng.Intn(5))
	}

	program := tea.NewProgram(tui.New())

	// The sim goroutine owns the store. Stats snapshots are taken between
	// ticks, never while a batch is in flight, and pushed to the dashboard.
	stop := make(chan struct{})
	go func() {
		lastTick := time.Now()
		lastStats := time.Time{}
		for {
			select {
			case <-stop:
				return
			default:
				now := time.Now()
				scheduler.Run(now.Sub(lastTick).Seconds())
				lastTick = now
				if time.Since(lastStats) > 500*time.Millisecond {
					program.Send(tui.StatsMsg(storage.CollectStats()))
					lastStats = time.Now()
				}
				time.Sleep(16 * time.Millisecond)
			}
		}
	}()
	defer close(stop)

	_, err := program.Run()
	return err
}
