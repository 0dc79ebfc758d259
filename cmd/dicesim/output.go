package main

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/dicesim/internal/sim"
	"github.com/cory-johannsen/dicesim/internal/stats"
)

type runDocument struct {
	ID         string           `yaml:"id"`
	Pool       string           `yaml:"pool"`
	Shape      string           `yaml:"shape"`
	Start      time.Time        `yaml:"start"`
	End        time.Time        `yaml:"end"`
	Duration   string           `yaml:"duration"`
	Summary    stats.Summary    `yaml:"summary"`
	Normal     stats.Normal     `yaml:"normal"`
	Uniformity *stats.ChiSquare `yaml:"uniformity,omitempty"`
	Counts     map[int]int64    `yaml:"counts"`
}

// writeYAML emits a machine-readable summary of run.
func writeYAML(w io.Writer, run *sim.Run) error {
	doc := runDocument{
		ID:         run.ID,
		Pool:       run.Pool.String(),
		Shape:      run.Shape().String(),
		Start:      run.Start,
		End:        run.End,
		Duration:   run.Duration().String(),
		Summary:    run.Summary,
		Normal:     run.Normal,
		Uniformity: run.Uniformity,
		Counts:     make(map[int]int64, len(run.Histogram.Domain())),
	}
	for _, v := range run.Histogram.Domain() {
		doc.Counts[v] = run.Histogram.Count(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
