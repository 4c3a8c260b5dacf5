package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/helixdash/helixdash/internal/api"
	"github.com/helixdash/helixdash/internal/logging"
	"github.com/helixdash/helixdash/internal/netx"
)

// StorageService performs two-phase presigned uploads: the backend issues a
// signed write credential for a target path, then the bytes go directly to
// object storage without passing through the application backend.
type StorageService struct {
	client     api.Client
	storageURL string
	hc         *http.Client
	log        logging.Logger

	now func() time.Time // test seam for object path timestamps
}

func NewStorageService(client api.Client, storageURL string, log logging.Logger) *StorageService {
	if log == nil {
		log = logging.Nop()
	}
	return &StorageService{
		client:     client,
		storageURL: strings.TrimRight(storageURL, "/"),
		hc:         &http.Client{},
		log:        log,
		now:        time.Now,
	}
}

// UploadVCF uploads a genomic file under "vcf/<unix-timestamp>_<name>" and
// returns the object path. Presign failures carry the backend's status code;
// storage failures carry the storage response. Single-shot, no retry or
// chunking — intended for modest file sizes.
func (s *StorageService) UploadVCF(ctx context.Context, name string, data io.Reader, size int64, onProgress netx.ProgressFunc) (string, error) {
	objectPath := fmt.Sprintf("vcf/%d_%s", s.now().Unix(), filepath.Base(name))

	token, err := s.client.PresignUpload(ctx, objectPath)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", objectPath, err)
	}

	signedURL := s.storageURL + "/" + objectPath + "?token=" + url.QueryEscape(token)
	if err := netx.UploadSigned(ctx, s.hc, signedURL, data, size, onProgress); err != nil {
		return "", err
	}

	s.log.Info(ctx, "file uploaded to storage", "path", objectPath, "size", size)
	return objectPath, nil
}
