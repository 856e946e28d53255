package batch

import "time"

// Progress is reported after each drained round.
type Progress struct {
	Done         int
	Total        int
	Batch        int // 1-based index of the round just drained
	TotalBatches int
	BatchSize    int // items in the round just drained
	Elapsed      time.Duration
}

// Percent returns Done as a percentage of Total.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Done) * 100 / float64(p.Total)
}

// Checkpoint returns an OnBatch hook that calls fn each time another tenth
// of the items has been drained, and once at the end.
func Checkpoint(fn func(Progress)) func(Progress) {
	next := 0
	return func(p Progress) {
		step := p.Total / 10
		if step == 0 {
			step = 1
		}
		if next == 0 {
			next = step
		}
		if p.Done >= next || p.Done == p.Total {
			fn(p)
			for next <= p.Done {
				next += step
			}
		}
	}
}
