// Package progress is the ledger of watched lesson units and the state
// derived from it: percent progress and the assessment unlock gate. It is
// pure; controllers load the enrollment row, apply these functions, and
// save the result.
package progress

import (
	"fmt"
	"strconv"
	"strings"
)

// MinWatchSeconds is the floor of the completion policy: a video counts as
// watched after max(15s, 90% of its declared duration) of cumulative
// playback. The playback observer evaluates this client-side and reports
// completion once; the ledger only ingests that signal.
const MinWatchSeconds = 15

const watchFraction = 0.9

// LessonKey encodes a lesson unit coordinate as the wire key "<m>-<v>".
func LessonKey(moduleIndex, videoIndex int) string {
	return fmt.Sprintf("%d-%d", moduleIndex, videoIndex)
}

// ParseLessonKey decodes a wire key back into its coordinates.
func ParseLessonKey(key string) (moduleIndex, videoIndex int, ok bool) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil || m < 0 {
		return 0, 0, false
	}
	v, err := strconv.Atoi(parts[1])
	if err != nil || v < 0 {
		return 0, 0, false
	}
	return m, v, true
}

// WatchThreshold returns the seconds of playback after which a video of the
// given duration counts as watched.
func WatchThreshold(durationSec int) int {
	t := int(float64(durationSec) * watchFraction)
	if t < MinWatchSeconds {
		return MinWatchSeconds
	}
	return t
}

// MeetsWatchPolicy reports whether the observed watch time satisfies the
// completion policy for a video of the given duration.
func MeetsWatchPolicy(watchTimeSec, durationSec int) bool {
	return watchTimeSec >= WatchThreshold(durationSec)
}

// MarkCompleted adds a lesson unit to the completed set. Idempotent: an
// already-present key leaves the set unchanged. Units are never removed, so
// derived progress is non-decreasing.
func MarkCompleted(keys []string, moduleIndex, videoIndex int) (updated []string, added bool) {
	key := LessonKey(moduleIndex, videoIndex)
	for _, k := range keys {
		if k == key {
			return keys, false
		}
	}
	return append(keys, key), true
}

// CountCompleted counts the keys of the set that decode to a valid lesson
// coordinate. Malformed entries (from older clients) are ignored.
func CountCompleted(keys []string) int {
	n := 0
	for _, k := range keys {
		if _, _, ok := ParseLessonKey(k); ok {
			n++
		}
	}
	return n
}

// Percent derives the rounded progress percentage.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return int(float64(completed)/float64(total)*100 + 0.5)
}

// GateOpen derives the assessment unlock gate. It is false whenever no
// assessment definition exists, regardless of video completion.
func GateOpen(hasDefinition bool, completed, total int) bool {
	return hasDefinition && total > 0 && completed >= total
}

// Summary is the derived view of one enrollment's completion record.
type Summary struct {
	Completed         int
	Total             int
	Progress          int
	IsCompleted       bool
	AssessmentEnabled bool
}

// Summarize derives all ledger outputs from the completed-key set.
func Summarize(keys []string, totalUnits int, hasDefinition bool) Summary {
	completed := CountCompleted(keys)
	pct := Percent(completed, totalUnits)
	return Summary{
		Completed:         completed,
		Total:             totalUnits,
		Progress:          pct,
		IsCompleted:       pct >= 100 && totalUnits > 0,
		AssessmentEnabled: GateOpen(hasDefinition, completed, totalUnits),
	}
}
