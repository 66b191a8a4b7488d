package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KaramelBytes/tabinsight-cli/internal/analysis"
	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(name string, vals ...float64) *dataset.Dataset {
	ds := dataset.New(name)
	for _, v := range vals {
		ds.Append(dataset.NewRow().Set("v", dataset.Number(v)))
	}
	return ds
}

func countingCompute(calls *int32, gate <-chan struct{}) ComputeFunc {
	return func(ds *dataset.Dataset, opt analysis.Options) *analysis.Metrics {
		atomic.AddInt32(calls, 1)
		if gate != nil {
			<-gate
		}
		return analysis.Compute(ds, opt)
	}
}

func TestAnalyzeRunsOnceUnderConcurrency(t *testing.T) {
	var calls int32
	gate := make(chan struct{})
	c := New(8, countingCompute(&calls, gate))
	ds := numbers("a.csv", 1, 2, 3, 4)

	var wg sync.WaitGroup
	results := make([]*analysis.Metrics, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := c.Analyze(ds, analysis.DefaultOptions())
			assert.NoError(t, err)
			results[i] = m
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, m := range results {
		require.NotNil(t, m)
		assert.Same(t, results[0], m)
	}
}

func TestAnalyzeKeysByContentAndOptions(t *testing.T) {
	var calls int32
	c := New(8, countingCompute(&calls, nil))

	m1, err := c.Analyze(numbers("one.csv", 5, 6, 7), analysis.DefaultOptions())
	require.NoError(t, err)
	m2, err := c.Analyze(numbers("two.csv", 5, 6, 7), analysis.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls)
	assert.Equal(t, "one.csv", m1.Name)
	assert.Equal(t, "two.csv", m2.Name)
	assert.Equal(t, m1.Primary, m2.Primary)

	opt := analysis.DefaultOptions()
	opt.MaxRows = 2
	m3, err := c.Analyze(numbers("one.csv", 5, 6, 7), opt)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls)
	assert.Equal(t, 2, m3.TotalRecords)

	s := c.Stats()
	assert.Equal(t, 1, s.Hits)
	assert.Equal(t, 2, s.Misses)
	assert.Equal(t, 2, s.Entries)
}

func TestAnalyzeEvictsLeastRecentlyUsed(t *testing.T) {
	var calls int32
	c := New(1, countingCompute(&calls, nil))
	a, b := numbers("a", 1, 2), numbers("b", 3, 4)
	for _, ds := range []*dataset.Dataset{a, b, a} {
		_, err := c.Analyze(ds, analysis.DefaultOptions())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), calls)
	assert.Equal(t, 1, c.Stats().Entries)
}

func TestAnalyzeCustomRulesBypassCache(t *testing.T) {
	var calls int32
	c := New(4, countingCompute(&calls, nil))
	opt := analysis.DefaultOptions()
	opt.Rules = []analysis.Rule{}
	for i := 0; i < 2; i++ {
		m, err := c.Analyze(numbers("x", 1, 2, 3), opt)
		require.NoError(t, err)
		assert.Empty(t, m.Insights)
	}
	assert.Equal(t, int32(2), calls)
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestAnalyzeEmptyDataset(t *testing.T) {
	c := New(4, nil)
	m, err := c.Analyze(dataset.New("empty"), analysis.DefaultOptions())
	require.NoError(t, err)
	assert.True(t, m.Empty())
	assert.NotNil(t, m.Insights)
}
