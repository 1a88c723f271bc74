package notify

import "time"

// retryQueue feeds failed jobs back into the dispatch channel after an
// exponential backoff keyed on the job's attempt count. Each deferral runs
// on its own timer; once done closes, pending redeliveries are dropped
// rather than blocking shutdown on a full channel.
type retryQueue struct {
	base time.Duration
	out  chan<- pushJob
	done <-chan struct{}
}

func newRetryQueue(base time.Duration, out chan<- pushJob, done <-chan struct{}) *retryQueue {
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	return &retryQueue{base: base, out: out, done: done}
}

// Defer schedules job for redelivery after base * 2^(attempt-1).
func (q *retryQueue) Defer(job pushJob) {
	attempt := job.Attempt
	if attempt < 1 {
		attempt = 1
	}
	delay := q.base * time.Duration(1<<(attempt-1))
	time.AfterFunc(delay, func() {
		select {
		case <-q.done:
		case q.out <- job:
			metricPushQueueLen.Set(int64(len(q.out)))
		}
	})
}
