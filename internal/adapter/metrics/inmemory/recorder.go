package inmemory

import (
	"sync"
)

type Snapshot struct {
	ActionTotal    uint64            `json:"action_total"`
	ActionSuccess  uint64            `json:"action_success"`
	ActionRejected uint64            `json:"action_rejected"`
	ActionFailure  uint64            `json:"action_failure"`
	ByAction       map[string]uint64 `json:"by_action"`
	ByRejectCode   map[string]uint64 `json:"by_reject_code"`
	AgentPasses    map[string]uint64 `json:"agent_passes"`
	AgentsUpdated  map[string]uint64 `json:"agents_updated"`
}

type Recorder struct {
	mu            sync.Mutex
	success       uint64
	rejected      uint64
	failure       uint64
	byAction      map[string]uint64
	byRejectCode  map[string]uint64
	agentPasses   map[string]uint64
	agentsUpdated map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byAction:      map[string]uint64{},
		byRejectCode:  map[string]uint64{},
		agentPasses:   map[string]uint64{},
		agentsUpdated: map[string]uint64{},
	}
}

func (r *Recorder) RecordSuccess(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	r.byAction[action]++
}

// RecordRejected counts an action refused by a game rule.
func (r *Recorder) RecordRejected(action, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
	r.byAction[action]++
	r.byRejectCode[code]++
}

func (r *Recorder) RecordFailure(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
	r.byAction[action]++
}

func (r *Recorder) RecordAgentPass(kind string, processed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agentPasses[kind]++
	r.agentsUpdated[kind] += uint64(processed)
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		ActionSuccess:  r.success,
		ActionRejected: r.rejected,
		ActionFailure:  r.failure,
		ActionTotal:    r.success + r.rejected + r.failure,
		ByAction:       copyCounts(r.byAction),
		ByRejectCode:   copyCounts(r.byRejectCode),
		AgentPasses:    copyCounts(r.agentPasses),
		AgentsUpdated:  copyCounts(r.agentsUpdated),
	}
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
