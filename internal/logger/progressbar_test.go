package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestProgressBarRender verifies correct ASCII bar rendering
func TestProgressBarRender(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		width    int
		expected string
	}{
		{
			name:     "empty progress",
			current:  0,
			total:    10,
			width:    10,
			expected: "[          ] 0/10 (0%)",
		},
		{
			name:     "half progress",
			current:  5,
			total:    10,
			width:    10,
			expected: "[=====     ] 5/10 (50%)",
		},
		{
			name:     "full progress",
			current:  10,
			total:    10,
			width:    10,
			expected: "[==========] 10/10 (100%)",
		},
		{
			name:     "quarter progress",
			current:  2,
			total:    8,
			width:    8,
			expected: "[==      ] 2/8 (25%)",
		},
		{
			name:     "zero total",
			current:  0,
			total:    0,
			width:    4,
			expected: "[    ] 0/0 (0%)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := NewProgressBar(tt.total, tt.width, false)
			pb.Update(tt.current)

			if got := pb.Render(); got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestProgressBarDefaultWidth(t *testing.T) {
	pb := NewProgressBar(4, 0, false)
	assert.Equal(t, "[          ] 0/4 (0%)", pb.Render())
}

func TestProgressBarPercentageClamped(t *testing.T) {
	pb := NewProgressBar(4, 4, false)
	pb.Update(9)
	assert.Equal(t, "[====] 9/4 (100%)", pb.Render())

	pb.Update(-3)
	assert.Equal(t, "[    ] -3/4 (0%)", pb.Render())
}

func TestProgressBarPrefix(t *testing.T) {
	pb := NewProgressBar(2, 2, false)
	pb.SetPrefix(DefaultProgressPrefix)
	pb.Update(1)

	assert.Equal(t, DefaultProgressPrefix+"[= ] 1/2 (50%)", pb.Render())
}

func TestProgressBarConcurrentUpdateAndRender(t *testing.T) {
	pb := NewProgressBar(100, 10, false)

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			pb.Update(n)
			_ = pb.Render()
		}(i)
	}
	wg.Wait()

	pb.Update(100)
	assert.Equal(t, "[==========] 100/100 (100%)", pb.Render())
}

func TestProgressDisplayNonInteractive(t *testing.T) {
	var buf bytes.Buffer
	pd := NewProgressDisplay(&buf, 3)

	pd.Update(1, 3)
	pd.Update(2, 3)
	assert.Empty(t, buf.String(), "non-terminal writers only get the final bar")

	pd.Update(3, 3)
	pd.Finish()

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, DefaultProgressPrefix)
	assert.Contains(t, out, "3/3 (100%)")
	assert.NotContains(t, out, "\r")
}
