package analysis

import (
	"sort"
	"unicode/utf8"

	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
)

// CategoryCount is one row of a frequency table. Value is the full grouping
// key; Label is the display form, possibly truncated.
type CategoryCount struct {
	Value   string  `json:"value"`
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// FrequencyTable is the descending value distribution of one column.
type FrequencyTable struct {
	Column   string          `json:"column"`
	Total    int             `json:"total"`
	Distinct int             `json:"distinct"`
	Values   []CategoryCount `json:"values"`
}

// Frequencies counts the string form of every non-null cell of column,
// orders by count descending keeping first-seen order among equal counts and
// keeps the top topN (all when topN <= 0). Percentages are relative to
// len(rows). Labels are cut to labelMax runes; grouping always uses the full value.
func Frequencies(column string, rows []*dataset.Row, topN, labelMax int) *FrequencyTable {
	counts := map[string]int{}
	var order []string
	for _, r := range rows {
		c := r.Get(column)
		if c.IsNull() {
			continue
		}
		v := c.String()
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	tops := make([]CategoryCount, 0, len(order))
	for _, v := range order {
		tops = append(tops, CategoryCount{Value: v, Count: counts[v]})
	}
	sort.SliceStable(tops, func(i, j int) bool {
		return tops[i].Count > tops[j].Count
	})
	if topN > 0 && len(tops) > topN {
		tops = tops[:topN]
	}
	total := len(rows)
	for i := range tops {
		tops[i].Label = Truncate(tops[i].Value, labelMax)
		if total > 0 {
			tops[i].Percent = float64(tops[i].Count) / float64(total) * 100
		}
	}
	return &FrequencyTable{Column: column, Total: total, Distinct: len(order), Values: tops}
}

// Truncate shortens s to limit runes followed by "..." when it is longer.
// A limit <= 0 disables truncation.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit]) + "..."
}
