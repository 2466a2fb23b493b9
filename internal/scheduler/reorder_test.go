package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOrders(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  map[int]int
	}{
		{
			name:  "already dense",
			lines: []Line{{ID: "a", Order: 1}, {ID: "b", Order: 2}},
			want:  map[int]int{1: 1, 2: 2},
		},
		{
			name:  "gap after deletion",
			lines: []Line{{ID: "a", Order: 1}, {ID: "c", Order: 3}},
			want:  map[int]int{1: 1, 3: 2},
		},
		{
			name: "parallel group preserved",
			lines: []Line{
				{ID: "a", Order: 2}, {ID: "b", Order: 2}, {ID: "c", Order: 5},
			},
			want: map[int]int{2: 1, 5: 2},
		},
		{
			name:  "empty",
			lines: nil,
			want:  map[int]int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeOrders(tt.lines))
		})
	}
}

func TestPreviousAndNextOrder(t *testing.T) {
	lines := []Line{
		{ID: "a", Order: 1}, {ID: "b", Order: 3}, {ID: "c", Order: 3}, {ID: "d", Order: 6},
	}

	prev, ok := PreviousOrder(lines, 3)
	assert.True(t, ok)
	assert.Equal(t, 1, prev)

	_, ok = PreviousOrder(lines, 1)
	assert.False(t, ok)

	next, ok := NextOrderAfter(lines, 3)
	assert.True(t, ok)
	assert.Equal(t, 6, next)

	_, ok = NextOrderAfter(lines, 6)
	assert.False(t, ok)
}

func TestHasParallel(t *testing.T) {
	lines := []Line{
		{ID: "a", Order: 2}, {ID: "b", Order: 2}, {ID: "c", Order: 3},
	}
	assert.True(t, HasParallel(lines, "a", 2))
	assert.False(t, HasParallel(lines, "c", 3))
}

func TestMaxOrder(t *testing.T) {
	assert.Equal(t, 0, MaxOrder(nil))
	assert.Equal(t, 7, MaxOrder([]Line{{Order: 2}, {Order: 7}, {Order: 1}}))
}
