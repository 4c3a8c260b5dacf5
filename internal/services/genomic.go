package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/helixdash/helixdash/internal/api"
	"github.com/helixdash/helixdash/internal/logging"
	"github.com/helixdash/helixdash/internal/netx"
	"github.com/helixdash/helixdash/internal/query"
)

// allowedExtensions are the genomic file formats accepted for upload.
// Checked client-side before any network call.
var allowedExtensions = []string{".vcf", ".fastq", ".fq", ".vcf.gz", ".fastq.gz"}

var (
	ErrUnsupportedFile = errors.New("unsupported file type (expected .vcf, .fastq, .fq, .vcf.gz or .fastq.gz)")
	ErrNoFileSelected  = errors.New("no file selected")
	ErrUploadInFlight  = errors.New("upload already in progress")
)

// AllowedGenomicFile reports whether name carries an accepted extension.
// Matching is case-insensitive and honors double extensions like .vcf.gz.
func AllowedGenomicFile(name string) bool {
	lower := strings.ToLower(filepath.Base(name))
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// GenomicService exposes variant fetching and genomic file uploads.
type GenomicService struct {
	client api.Client
	runner *query.Runner
	log    logging.Logger
}

func NewGenomicService(client api.Client, runner *query.Runner, log logging.Logger) *GenomicService {
	if log == nil {
		log = logging.Nop()
	}
	return &GenomicService{client: client, runner: runner, log: log}
}

// Variants returns the user's genomic variants through the query layer.
func (s *GenomicService) Variants(ctx context.Context, userID string) ([]api.Variant, error) {
	opts := query.Options{Enabled: userID != "", Retry: 2, StaleAfter: 5 * time.Minute}
	variants, err := query.Fetch(ctx, s.runner, "genomic/variants/"+userID, opts, func(ctx context.Context) ([]api.Variant, error) {
		return s.client.Variants(ctx, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch variants: %w", err)
	}
	return variants, nil
}

// AnalysisStatus returns the server-reported progress of an analysis job.
func (s *GenomicService) AnalysisStatus(ctx context.Context, analysisID string) (*api.JobStatus, error) {
	return s.client.AnalysisStatus(ctx, analysisID)
}

// Upload statuses of an UploadController.
const (
	UploadIdle      = "idle"
	UploadSelected  = "selected"
	UploadUploading = "uploading"
	UploadError     = "error"
)

// UploadController drives one genomic file upload: select, upload with
// progress, and reset. After a successful upload all local state returns to
// its initial values so a fresh upload can start immediately.
type UploadController struct {
	svc *GenomicService

	mu       sync.Mutex
	selected string
	progress int
	status   string
}

func NewUploadController(svc *GenomicService) *UploadController {
	return &UploadController{svc: svc, status: UploadIdle}
}

// Select validates the file's extension and records it for upload. An
// unsupported extension is rejected before any network activity.
func (u *UploadController) Select(path string) error {
	if !AllowedGenomicFile(path) {
		return ErrUnsupportedFile
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.status == UploadUploading {
		return ErrUploadInFlight
	}
	u.selected = path
	u.progress = 0
	u.status = UploadSelected
	return nil
}

// Selected returns the currently selected file path, empty when none.
func (u *UploadController) Selected() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.selected
}

// Progress returns the last observed upload percentage.
func (u *UploadController) Progress() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.progress
}

// Status returns the controller state: idle, selected, uploading or error.
func (u *UploadController) Status() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.status
}

// Start uploads the selected file for userID, reporting progress through
// onProgress (which may be nil). On success the controller resets to its
// initial state and the backend receipt is returned. On failure the
// selection is kept and the status set to error so the user can retry.
func (u *UploadController) Start(ctx context.Context, userID string, onProgress netx.ProgressFunc) (*api.UploadReceipt, error) {
	u.mu.Lock()
	if u.status == UploadUploading {
		u.mu.Unlock()
		return nil, ErrUploadInFlight
	}
	path := u.selected
	if path == "" {
		u.mu.Unlock()
		return nil, ErrNoFileSelected
	}
	u.status = UploadUploading
	u.progress = 0
	u.mu.Unlock()

	receipt, err := u.upload(ctx, userID, path, onProgress)
	if err != nil {
		u.mu.Lock()
		u.status = UploadError
		u.mu.Unlock()
		return nil, err
	}

	u.reset()
	return receipt, nil
}

func (u *UploadController) upload(ctx context.Context, userID, path string, onProgress netx.ProgressFunc) (*api.UploadReceipt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	receipt, err := u.svc.client.UploadGenomic(ctx, api.GenomicUpload{
		UserID:   userID,
		FileName: filepath.Base(path),
		Data:     f,
		Size:     fi.Size(),
		OnProgress: func(p int) {
			u.mu.Lock()
			u.progress = p
			u.mu.Unlock()
			if onProgress != nil {
				onProgress(p)
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}

	u.svc.log.Info(ctx, "genomic file uploaded", "file", filepath.Base(path), "id", receipt.ID)
	return receipt, nil
}

// reset returns all local state to its initial values.
func (u *UploadController) reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.selected = ""
	u.progress = 0
	u.status = UploadIdle
}
