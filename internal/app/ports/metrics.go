package ports

type GameMetrics interface {
	RecordStarted()
	RecordRejected(code string)
	RecordFailure()
	RecordQuery()
}
