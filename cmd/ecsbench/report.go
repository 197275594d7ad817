package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

// Report captures one bench run: the configuration it ran under, the
// per-frame timing distribution, and heap deltas across the run.
type Report struct {
	Duration   time.Duration
	Entities   int
	Components int
	Systems    int

	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// Stats summarises a sample set of frame durations. Samples are kept so a
// saved report can be re-finalized after loading.
type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P50     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

// Finalize computes the summary fields from Samples.
func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	sorted := make([]time.Duration, len(s.Samples))
	copy(sorted, s.Samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.P50 = sorted[len(sorted)/2]
	s.P99 = sorted[len(sorted)*99/100]

	var total time.Duration
	for _, sample := range sorted {
		total += sample
	}
	s.Avg = total / time.Duration(len(sorted))
}

const reportTemplate = `
# ECS Stress Test Report

## Configuration
- Run duration:         {{.Duration}}
- Initial entities:     {{.Entities}}
- Component types:      {{.Components}}
- Systems:              {{.Systems}}

## Frame timing
- Updates completed:    {{.TotalUpdates}} in {{.TotalTime}}
- Avg / p50 / p99:      {{.UpdateTime.Avg}} / {{.UpdateTime.P50}} / {{.UpdateTime.P99}}
- Min .. Max:           {{.UpdateTime.Min}} .. {{.UpdateTime.Max}}

## Heap
- Heap alloc:           {{.MemStatsStart.HeapAlloc}} -> {{.MemStatsEnd.HeapAlloc}} ({{delta .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}})
- Cumulative alloc:     {{.MemStatsStart.TotalAlloc}} -> {{.MemStatsEnd.TotalAlloc}} ({{delta .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}})
- Sys memory:           {{.MemStatsStart.Sys}} -> {{.MemStatsEnd.Sys}} ({{delta .MemStatsEnd.Sys .MemStatsStart.Sys}})
- GC cycles:            {{gcdelta .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC pauses
- Total pause:          {{ns .MemStatsEnd.PauseTotalNs}}
{{end}}`

// Generate renders the report as text.
func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"delta":   func(a, b uint64) int64 { return int64(a) - int64(b) },
		"gcdelta": func(a, b uint32) uint32 { return a - b },
		"ns":      func(ns uint64) string { return time.Duration(ns).String() },
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}

// Save writes the report as YAML, so a run can be diffed against a later
// one without re-running the simulation.
func (r *Report) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadReport reads back a report previously written by Save.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &r, nil
}
