package inmemory

import "sync"

type Snapshot struct {
	StartTotal    uint64            `json:"start_total"`
	StartSuccess  uint64            `json:"start_success"`
	StartRejected uint64            `json:"start_rejected"`
	StartFailure  uint64            `json:"start_failure"`
	QueryTotal    uint64            `json:"query_total"`
	RejectedBy    map[string]uint64 `json:"rejected_by_code"`
}

type Recorder struct {
	mu         sync.Mutex
	success    uint64
	rejected   uint64
	failure    uint64
	queries    uint64
	rejectedBy map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		rejectedBy: map[string]uint64{},
	}
}

func (r *Recorder) RecordStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
}

func (r *Recorder) RecordRejected(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
	r.rejectedBy[code]++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) RecordQuery() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		StartSuccess:  r.success,
		StartRejected: r.rejected,
		StartFailure:  r.failure,
		StartTotal:    r.success + r.rejected + r.failure,
		QueryTotal:    r.queries,
		RejectedBy:    make(map[string]uint64, len(r.rejectedBy)),
	}
	for k, v := range r.rejectedBy {
		out.RejectedBy[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
