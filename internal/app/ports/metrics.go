package ports

type ActionMetrics interface {
	RecordSuccess(action string)
	RecordRejected(action, code string)
	RecordFailure(action string)
	RecordAgentPass(kind string, processed int)
}
