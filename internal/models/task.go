package models

// Task statuses. Success and error are terminal: the record is never
// mutated again once either is set.
const (
	TaskStarted    = "started"
	TaskProcessing = "processing"
	TaskSuccess    = "success"
	TaskError      = "error"
)

// GenerationTask is the mutable status record for one wiki generation job,
// addressable by an opaque task id.
type GenerationTask struct {
	Status   string         `json:"status"`
	Message  string         `json:"message"`
	Progress []string       `json:"progress"` // page ids currently being generated
	Error    string         `json:"error,omitempty"`
	Result   *WikiCacheData `json:"result"`
}
