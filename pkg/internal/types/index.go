package types

// IndexState 索引任务所处状态.
type IndexState string

const (
	IndexStateIdle    IndexState = "idle"
	IndexStateRunning IndexState = "running"
	IndexStateError   IndexState = "error"
)

// IndexStatusResponse 索引任务状态快照.
// Processed 仅在 running 时有意义，Message 仅在 error 时有意义.
type IndexStatusResponse struct {
	State     IndexState `json:"state"`
	Processed int        `json:"processed,omitempty"`
	Message   string     `json:"message,omitempty"`
}
