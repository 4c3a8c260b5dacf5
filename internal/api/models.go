package api

import (
	"io"
	"time"
)

// User is the account record returned by the auth endpoints.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	Token string `json:"access_token"`
	User  User   `json:"user"`
}

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Variant is a single genomic position difference record. Read-only on the
// client; fetched per user.
type Variant struct {
	ID          string  `json:"id"`
	Chromosome  string  `json:"chromosome"`
	Position    int64   `json:"position"`
	Reference   string  `json:"reference"`
	Alternative string  `json:"alternative"`
	VariantType string  `json:"variant_type"`
	Quality     float64 `json:"quality"`
	VariantID   string  `json:"variant_id"`
	IsRealData  bool    `json:"is_real_data"`
}

// RiskScore is a backend-computed polygenic risk score for one condition.
type RiskScore struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Condition  string    `json:"condition"`
	Score      float64   `json:"score"`
	Percentile float64   `json:"percentile"`
	ComputedAt time.Time `json:"computed_at"`
}

// ChatRequest is the body of POST /api/chatbot/chat.
type ChatRequest struct {
	UserID         string `json:"user_id"`
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatReply is the chatbot response. ConversationID may be empty; when the
// backend returns one, callers thread it into subsequent requests.
type ChatReply struct {
	Response       string `json:"response"`
	Success        bool   `json:"success"`
	ConversationID string `json:"conversation_id,omitempty"`
	ContextUsed    bool   `json:"context_used"`
}

// UploadReceipt acknowledges an accepted genomic file upload. ID identifies
// the stored file and the analysis job started for it.
type UploadReceipt struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// GenomicUpload describes a multipart upload to POST /api/upload/genomic.
type GenomicUpload struct {
	UserID   string
	FileName string
	Data     io.Reader
	Size     int64
	// OnProgress, when non-nil, receives the percentage of the request body
	// written so far (monotonically non-decreasing, ending at 100).
	OnProgress func(percent int)
}

// MRIUpload describes a multipart upload to POST /api/mri/upload-and-analyze.
type MRIUpload struct {
	UserID       string
	AnalysisType string
	StoreInDB    bool
	FileName     string
	Data         io.Reader
	Size         int64
	OnProgress   func(percent int)
}

// Region is a detected area within an MRI image.
type Region struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// MRIAnalysis is the detection result for one MRI image.
type MRIAnalysis struct {
	ImageID    string   `json:"image_id"`
	Detected   bool     `json:"detected"`
	Confidence float64  `json:"confidence"`
	Regions    []Region `json:"regions"`
	Notes      string   `json:"notes,omitempty"`
}

// MRIScan is a stored MRI image owned by a user.
type MRIScan struct {
	ID           string    `json:"id"`
	FileName     string    `json:"file_name"`
	AnalysisType string    `json:"analysis_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
	Analyzed     bool      `json:"analyzed"`
}

// Step statuses reported by the analysis job endpoint.
const (
	StepPending    = "pending"
	StepInProgress = "in-progress"
	StepCompleted  = "completed"
	StepError      = "error"
)

// JobStep is one stage of a server-side analysis pipeline.
type JobStep struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	EstimatedTime string `json:"estimated_time"`
	Details       string `json:"details,omitempty"`
}

// JobStatus is the progress snapshot for one analysis job.
type JobStatus struct {
	AnalysisID string    `json:"analysis_id"`
	Steps      []JobStep `json:"steps"`
	Done       bool      `json:"done"`
}
