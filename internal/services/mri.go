package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/helixdash/helixdash/internal/api"
	"github.com/helixdash/helixdash/internal/netx"
	"github.com/helixdash/helixdash/internal/query"
)

// MRIService wraps the MRI endpoints: upload-and-analyze plus the stored
// scan listing. Analysis responses are parsed strictly; a malformed body is
// an error, never a synthesized success.
type MRIService struct {
	client api.Client
	runner *query.Runner
}

func NewMRIService(client api.Client, runner *query.Runner) *MRIService {
	return &MRIService{client: client, runner: runner}
}

// AnalyzeScan uploads the image at path and returns the detection result.
// The user's scan listing cache is invalidated so the next listing reflects
// the new upload.
func (s *MRIService) AnalyzeScan(ctx context.Context, userID, path, analysisType string, storeInDB bool, onProgress netx.ProgressFunc) (*api.MRIAnalysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	analysis, err := s.client.AnalyzeMRI(ctx, api.MRIUpload{
		UserID:       userID,
		AnalysisType: analysisType,
		StoreInDB:    storeInDB,
		FileName:     filepath.Base(path),
		Data:         f,
		Size:         fi.Size(),
		OnProgress:   onProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze mri: %w", err)
	}

	_ = s.runner.Invalidate(ctx, scansKey(userID))
	return analysis, nil
}

// Scans lists the user's stored MRI images through the query layer.
func (s *MRIService) Scans(ctx context.Context, userID string) ([]api.MRIScan, error) {
	opts := query.Options{Enabled: userID != "", Retry: 2, StaleAfter: time.Minute}
	scans, err := query.Fetch(ctx, s.runner, scansKey(userID), opts, func(ctx context.Context) ([]api.MRIScan, error) {
		return s.client.MRIScans(ctx, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch mri scans: %w", err)
	}
	return scans, nil
}

// Analysis returns the stored detection result for one image.
func (s *MRIService) Analysis(ctx context.Context, imageID string) (*api.MRIAnalysis, error) {
	analysis, err := s.client.MRIAnalysisByID(ctx, imageID)
	if err != nil {
		return nil, fmt.Errorf("fetch mri analysis: %w", err)
	}
	return analysis, nil
}

// Delete removes a stored image and invalidates the owner's scan listing.
func (s *MRIService) Delete(ctx context.Context, userID, imageID string) error {
	if err := s.client.DeleteMRI(ctx, imageID); err != nil {
		return fmt.Errorf("delete mri image: %w", err)
	}
	_ = s.runner.Invalidate(ctx, scansKey(userID))
	return nil
}

func scansKey(userID string) string { return "mri/user/" + userID }
