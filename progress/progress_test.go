package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessonKeyRoundTrip(t *testing.T) {
	key := LessonKey(2, 5)
	assert.Equal(t, "2-5", key)

	m, v, ok := ParseLessonKey(key)
	require.True(t, ok)
	assert.Equal(t, 2, m)
	assert.Equal(t, 5, v)
}

func TestParseLessonKeyRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "3", "a-b", "1-", "-2", "1--2", "x1-2"} {
		_, _, ok := ParseLessonKey(bad)
		assert.False(t, ok, "key %q should not parse", bad)
	}
}

func TestMarkCompletedIdempotent(t *testing.T) {
	keys, added := MarkCompleted(nil, 0, 0)
	require.True(t, added)
	assert.Equal(t, []string{"0-0"}, keys)

	// Second mark of the same unit is a no-op for the set.
	again, added := MarkCompleted(keys, 0, 0)
	assert.False(t, added)
	assert.Equal(t, keys, again)

	s1 := Summarize(keys, 2, true)
	s2 := Summarize(again, 2, true)
	assert.Equal(t, s1, s2)
}

func TestProgressMonotonic(t *testing.T) {
	var keys []string
	last := 0
	units := [][2]int{{0, 0}, {0, 1}, {1, 0}, {0, 0}, {1, 1}}
	for _, u := range units {
		keys, _ = MarkCompleted(keys, u[0], u[1])
		s := Summarize(keys, 4, true)
		assert.GreaterOrEqual(t, s.Progress, last)
		assert.GreaterOrEqual(t, s.Progress, 0)
		assert.LessOrEqual(t, s.Progress, 100)
		last = s.Progress
	}
	assert.Equal(t, 100, last)
}

func TestGateOpenIffDefinitionAndAllWatched(t *testing.T) {
	cases := []struct {
		name              string
		hasDef            bool
		completed, total  int
		want              bool
	}{
		{"all watched with definition", true, 3, 3, true},
		{"no definition", false, 3, 3, false},
		{"missing one video", true, 2, 3, false},
		{"empty course", true, 0, 0, false},
		{"nothing watched", true, 0, 3, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GateOpen(tc.hasDef, tc.completed, tc.total))
		})
	}
}

// Scenario: course has 2 lesson units; completing "0-0" alone leaves the
// gate closed, completing "0-1" as well opens it.
func TestTwoUnitCourseUnlock(t *testing.T) {
	keys, _ := MarkCompleted(nil, 0, 0)
	s := Summarize(keys, 2, true)
	assert.False(t, s.AssessmentEnabled)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 50, s.Progress)

	keys, _ = MarkCompleted(keys, 0, 1)
	s = Summarize(keys, 2, true)
	assert.True(t, s.AssessmentEnabled)
	assert.Equal(t, 100, s.Progress)
	assert.True(t, s.IsCompleted)
}

func TestPercentRounding(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 3))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 100, Percent(3, 3))
	assert.Equal(t, 0, Percent(5, 0))
	// Completed beyond total still caps at 100.
	assert.Equal(t, 100, Percent(4, 3))
}

func TestWatchThreshold(t *testing.T) {
	// 90% of duration, floored at 15 seconds.
	assert.Equal(t, 15, WatchThreshold(0))
	assert.Equal(t, 15, WatchThreshold(10))
	assert.Equal(t, 54, WatchThreshold(60))
	assert.True(t, MeetsWatchPolicy(54, 60))
	assert.False(t, MeetsWatchPolicy(53, 60))
	assert.True(t, MeetsWatchPolicy(15, 5))
}

func TestCountCompletedIgnoresMalformed(t *testing.T) {
	keys := []string{"0-0", "junk", "1-2", "x-y"}
	assert.Equal(t, 2, CountCompleted(keys))
}
