package model

// UploadResponse is returned by POST /api/files/.
type UploadResponse struct {
	Message string `json:"message"`
	FileID  string `json:"file_id"`
}

// ProcessResponse is returned by POST /api/process.
type ProcessResponse struct {
	TaskID string `json:"task_id"`
}

// StatusResponse is returned by GET /api/status/:taskId. Token and
// Filename are present only on "success"; Error only on "failed".
type StatusResponse struct {
	Status   string `json:"status"`
	Token    string `json:"token,omitempty"`
	Filename string `json:"filename,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HistoryResponse is returned by GET /api/history.
type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
}

// DownloadLinkResponse is returned by GET /api/history-download-link.
type DownloadLinkResponse struct {
	Token string `json:"token"`
}

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
