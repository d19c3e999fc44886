package task

import "math"

// Round rounds half up, the way progress averages have always been rounded.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Mean is the rounded mean of values, or 0 for none.
func Mean(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return Round(float64(sum) / float64(len(values)))
}

// SubtasksAverage is the rounded mean subtask progress. ok is false when
// there are no subtasks.
func SubtasksAverage(subtasks []Subtask) (avg int, ok bool) {
	if len(subtasks) == 0 {
		return 0, false
	}
	values := make([]int, len(subtasks))
	for i, s := range subtasks {
		values[i] = s.Progress
	}
	return Mean(values), true
}

// EffectiveProgress is the subtask average when the task has subtasks,
// otherwise its manual progress.
func EffectiveProgress(t Task) int {
	if avg, ok := SubtasksAverage(t.Subtasks); ok {
		return avg
	}
	return t.Progress
}

func (t Task) EffectiveProgress() int {
	return EffectiveProgress(t)
}

// Complete reports an effective progress of 100.
func (t Task) Complete() bool {
	return EffectiveProgress(t) == 100
}

// ProgressBand is one colour band of the progress scale.
type ProgressBand struct {
	Min     int
	Color   string
	Meaning string
}

// ProgressBands lists the colour scale from complete down to not started.
func ProgressBands() []ProgressBand {
	return []ProgressBand{
		{Min: 100, Color: "#22c55e", Meaning: "complete"},
		{Min: 75, Color: "#84cc16", Meaning: "almost there"},
		{Min: 50, Color: "#eab308", Meaning: "halfway"},
		{Min: 25, Color: "#f97316", Meaning: "started"},
		{Min: 0, Color: "#64748b", Meaning: "not started"},
	}
}

// ProgressColor is the hex colour for a progress value.
func ProgressColor(p int) string {
	bands := ProgressBands()
	for _, b := range bands {
		if p >= b.Min {
			return b.Color
		}
	}
	return bands[len(bands)-1].Color
}
