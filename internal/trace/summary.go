package trace

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// jumpState is the state name recorded on the tick a jump starts.
const jumpState = "start_jump"

// Summary aggregates a run.
type Summary struct {
	Ticks               int
	Duration            float64
	MeanHorizontalSpeed float64
	MaxHorizontalSpeed  float64
	MaxHeight           float64
	Jumps               int
	TimeInState         map[string]float64
}

// Summarize computes run statistics. An empty slice yields a zero Summary.
func Summarize(records []Record) Summary {
	s := Summary{TimeInState: make(map[string]float64)}
	if len(records) == 0 {
		return s
	}

	speeds := make([]float64, len(records))
	heights := make([]float64, len(records))
	prev := ""
	for i, r := range records {
		speeds[i] = float64(r.Velocity().XZ().Length())
		heights[i] = float64(r.PosY)

		dt := float64(r.Dt)
		s.Duration += dt
		s.TimeInState[r.State] += dt
		if r.State == jumpState && prev != jumpState {
			s.Jumps++
		}
		prev = r.State
	}

	s.Ticks = len(records)
	s.MeanHorizontalSpeed = stat.Mean(speeds, nil)
	s.MaxHorizontalSpeed = floats.Max(speeds)
	s.MaxHeight = floats.Max(heights)
	return s
}

// States returns the visited state names in sorted order.
func (s Summary) States() []string {
	names := make([]string, 0, len(s.TimeInState))
	for name := range s.TimeInState {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
