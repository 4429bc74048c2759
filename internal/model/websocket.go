package model

// WebSocket message types
const (
	WSMessageTypeProgress = "progress"
	WSMessageTypeComplete = "complete"
	WSMessageTypeError    = "error"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type string `json:"type"`
}

// WSProgressMessage is a job progress update.
type WSProgressMessage struct {
	Type        string    `json:"type"`
	TaskID      string    `json:"taskId"`
	Progress    int       `json:"progress"`
	Status      JobStatus `json:"status"`
	CurrentStep string    `json:"currentStep,omitempty"`
}

// WSCompleteMessage announces a finished job and its processed filename.
type WSCompleteMessage struct {
	Type     string `json:"type"`
	TaskID   string `json:"taskId"`
	Filename string `json:"filename"`
}

// WSErrorMessage announces a failed job.
type WSErrorMessage struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId"`
	Error  string `json:"error"`
}
