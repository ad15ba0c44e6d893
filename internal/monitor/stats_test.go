package monitor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsCounters(t *testing.T) {
	s := NewStats()
	for i := 0; i < 10; i++ {
		s.RecordLine()
	}
	s.RecordMatch()
	s.RecordMatch()
	s.RecordGroup(5)

	assert.Equal(t, uint64(10), s.Total())
	assert.Equal(t, uint64(2), s.Matched())
	assert.Equal(t, uint64(5), s.Emitted())
	assert.Equal(t, uint64(1), s.Groups())

	summary := s.Summary()
	assert.Contains(t, summary, "Total lines:   10")
	assert.Contains(t, summary, "Matched lines: 2 (20.0%)")
	assert.Contains(t, summary, "Emitted lines: 5 in 1 groups")
}

func TestStatsConcurrentRecording(t *testing.T) {
	s := NewStats()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				s.RecordLine()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(8000), s.Total())
	assert.GreaterOrEqual(t, s.Rate(), float64(0))
}

func TestStatsEmptySummary(t *testing.T) {
	assert.Contains(t, NewStats().Summary(), "Matched lines: 0 (0.0%)")
}
