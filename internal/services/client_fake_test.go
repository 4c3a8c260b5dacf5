package services

import (
	"context"

	"github.com/helixdash/helixdash/internal/api"
)

// fakeClient embeds api.Client so each test only overrides the methods it
// exercises; calling anything else panics, which is what we want.
type fakeClient struct {
	api.Client

	loginFn         func(ctx context.Context, email, password string) (*api.AuthResult, error)
	registerFn      func(ctx context.Context, req api.RegisterRequest) (*api.AuthResult, error)
	variantsFn      func(ctx context.Context, userID string) ([]api.Variant, error)
	uploadGenomicFn func(ctx context.Context, req api.GenomicUpload) (*api.UploadReceipt, error)
	riskScoresFn    func(ctx context.Context, userID string) ([]api.RiskScore, error)
	sendChatFn      func(ctx context.Context, req api.ChatRequest) (*api.ChatReply, error)
	analyzeMRIFn    func(ctx context.Context, req api.MRIUpload) (*api.MRIAnalysis, error)
	mriScansFn      func(ctx context.Context, userID string) ([]api.MRIScan, error)
	deleteMRIFn     func(ctx context.Context, imageID string) error
	presignFn       func(ctx context.Context, path string) (string, error)
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*api.AuthResult, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeClient) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResult, error) {
	return f.registerFn(ctx, req)
}

func (f *fakeClient) Variants(ctx context.Context, userID string) ([]api.Variant, error) {
	return f.variantsFn(ctx, userID)
}

func (f *fakeClient) UploadGenomic(ctx context.Context, req api.GenomicUpload) (*api.UploadReceipt, error) {
	return f.uploadGenomicFn(ctx, req)
}

func (f *fakeClient) RiskScores(ctx context.Context, userID string) ([]api.RiskScore, error) {
	return f.riskScoresFn(ctx, userID)
}

func (f *fakeClient) SendChat(ctx context.Context, req api.ChatRequest) (*api.ChatReply, error) {
	return f.sendChatFn(ctx, req)
}

func (f *fakeClient) AnalyzeMRI(ctx context.Context, req api.MRIUpload) (*api.MRIAnalysis, error) {
	return f.analyzeMRIFn(ctx, req)
}

func (f *fakeClient) MRIScans(ctx context.Context, userID string) ([]api.MRIScan, error) {
	return f.mriScansFn(ctx, userID)
}

func (f *fakeClient) DeleteMRI(ctx context.Context, imageID string) error {
	return f.deleteMRIFn(ctx, imageID)
}

func (f *fakeClient) PresignUpload(ctx context.Context, path string) (string, error) {
	return f.presignFn(ctx, path)
}
