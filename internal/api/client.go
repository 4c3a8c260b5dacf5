// Package api is the HTTP transport layer for the helixdash backend. It
// exposes one method per backend operation and maps failures onto a small
// error taxonomy (ErrUnavailable, ErrUnauthorized, *APIError).
package api

import "context"

// TokenSource supplies the bearer token for authenticated calls. The second
// return value reports whether a usable token is available.
type TokenSource interface {
	Token() (string, bool)
}

// Client is the backend contract consumed by the service layer. Tests
// substitute fakes that embed this interface.
type Client interface {
	// Auth.
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)

	// Genomic data.
	Variants(ctx context.Context, userID string) ([]Variant, error)
	UploadGenomic(ctx context.Context, req GenomicUpload) (*UploadReceipt, error)
	AnalysisStatus(ctx context.Context, analysisID string) (*JobStatus, error)

	// Polygenic risk scores.
	RiskScores(ctx context.Context, userID string) ([]RiskScore, error)

	// Chatbot.
	SendChat(ctx context.Context, req ChatRequest) (*ChatReply, error)

	// MRI.
	AnalyzeMRI(ctx context.Context, req MRIUpload) (*MRIAnalysis, error)
	MRIScans(ctx context.Context, userID string) ([]MRIScan, error)
	MRIAnalysisByID(ctx context.Context, imageID string) (*MRIAnalysis, error)
	DeleteMRI(ctx context.Context, imageID string) error

	// Presigned storage uploads.
	PresignUpload(ctx context.Context, path string) (string, error)

	// Liveness.
	Ping(ctx context.Context) error
}
