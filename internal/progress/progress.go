// Package progress derives a goal's completion ratio from its steps.
//
// Everything here is pure: the same steps always produce the same numbers,
// and nothing is read from or written to a store.
package progress

// Completable is anything that can report whether it has been done.
type Completable interface {
	Done() bool
}

// Summary is the derived view of a step list.
type Summary struct {
	Total     int
	Completed int
	Percent   int
	Finished  bool
}

// Ratio returns round(100 * completed / total) using round-half-up, or 0 when
// there is nothing to complete. Integer arithmetic keeps 1/2, 1/8, 5/8, ...
// from depending on float representation.
func Ratio(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return (200*completed + total) / (2 * total)
}

// Percent returns the completion percentage of steps in [0, 100].
func Percent[S Completable](steps []S) int {
	return Ratio(count(steps), len(steps))
}

// IsCompleted reports whether steps is non-empty and every step is done.
func IsCompleted[S Completable](steps []S) bool {
	return len(steps) > 0 && count(steps) == len(steps)
}

// Summarize computes all derived fields in one pass.
func Summarize[S Completable](steps []S) Summary {
	done := count(steps)
	return Summary{
		Total:     len(steps),
		Completed: done,
		Percent:   Ratio(done, len(steps)),
		Finished:  len(steps) > 0 && done == len(steps),
	}
}

func count[S Completable](steps []S) int {
	n := 0
	for _, s := range steps {
		if s.Done() {
			n++
		}
	}
	return n
}
