package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
	"gonum.org/v1/gonum/floats"
)

// Slice is one label's share of the value column.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Composition groups rows by the string form of labelCol and sums valueCol
// per group. Groups are ordered by sum descending (ties by first appearance),
// cut to topN, and groups whose sum is not positive are dropped. Rows with a
// null or empty label are named after their position.
func Composition(labelCol, valueCol string, rows []*dataset.Row, topN, labelMax int) []Slice {
	sums := map[string]float64{}
	var order []string
	for i, r := range rows {
		c := r.Get(labelCol)
		name := c.String()
		if c.IsEmpty() {
			name = fmt.Sprintf("Item %d", i+1)
		}
		if _, ok := sums[name]; !ok {
			order = append(order, name)
		}
		sums[name] += ToNumber(r.Get(valueCol))
	}
	out := make([]Slice, 0, len(order))
	for _, name := range order {
		out = append(out, Slice{Label: name, Value: sums[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	kept := out[:0]
	for _, s := range out {
		if s.Value > 0 {
			s.Label = Truncate(s.Label, labelMax)
			kept = append(kept, s)
		}
	}
	return kept
}

// Bin is one histogram bucket covering [Start, End).
type Bin struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// Histogram splits [min, max] of series into equal-width bins. The maximum is
// counted in the last bin. A constant series produces a single bin.
func Histogram(series []float64, bins int) []Bin {
	if len(series) == 0 || bins <= 0 {
		return nil
	}
	lo, hi := floats.Min(series), floats.Max(series)
	if lo == hi {
		return []Bin{{Start: lo, End: hi, Count: len(series)}}
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Start: edges[i], End: edges[i+1]}
	}
	width := (hi - lo) / float64(bins)
	for _, v := range series {
		pos := (v - lo) / width
		if math.IsInf(width, 0) {
			pos = (v/2 - lo/2) / (hi/2 - lo/2) * float64(bins)
		}
		idx := int(pos)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}
	return out
}
