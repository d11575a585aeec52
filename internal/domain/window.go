package domain

import "time"

// WalkForwardWindow is one train/test split of a walk-forward validation.
// Test rows are those with TestStart < ts <= TestEnd.
type WalkForwardWindow struct {
	TrainStart time.Time
	TrainEnd   time.Time
	TestStart  time.Time
	TestEnd    time.Time
}

// Windows generates the walk-forward sequence for a dataset spanning
// [start, max]. The first window anchors TrainStart at start; both
// boundaries then advance by testLen until TestEnd would pass max.
// Test ranges are contiguous and non-overlapping.
func Windows(start, max time.Time, trainLen, testLen time.Duration) []WalkForwardWindow {
	var out []WalkForwardWindow
	trainEnd := start.Add(trainLen)
	testEnd := trainEnd.Add(testLen)

	for !testEnd.After(max) {
		out = append(out, WalkForwardWindow{
			TrainStart: trainEnd.Add(-trainLen),
			TrainEnd:   trainEnd,
			TestStart:  trainEnd,
			TestEnd:    testEnd,
		})
		trainEnd = trainEnd.Add(testLen)
		testEnd = testEnd.Add(testLen)
	}
	return out
}

// Contains reports whether ts falls inside the window's test range.
func (w WalkForwardWindow) Contains(ts time.Time) bool {
	return ts.After(w.TestStart) && !ts.After(w.TestEnd)
}
