package constants

// Context and session keys
const (
	ContextKeyUserID  = "user_id"
	SessionCookieName = "finalflow_session"
)

// Authentication
const (
	MinPasswordLength = 8
)

// Submission upload limits, mirrored by the upload layer
const (
	MaxUploadFiles     = 5
	MaxUploadSizeBytes = 10 << 20 // 10MB per file
	MaxCommentLength   = 5000
)

// AllowedUploadExtensions lists the accepted submission file types.
var AllowedUploadExtensions = []string{".pdf", ".doc", ".docx", ".txt", ".zip", ".jpg", ".png"}
