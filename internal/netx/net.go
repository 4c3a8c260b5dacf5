// Package netx holds low-level HTTP upload helpers shared by the transport
// and storage layers.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// ProgressFunc receives upload progress as a percentage in [0,100].
// Implementations must tolerate repeated terminal calls.
type ProgressFunc func(percent int)

// progressReader reports read progress against a known total. Reported
// percentages are monotonically non-decreasing and reach 100 exactly when
// the last byte has been read.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	last  int
	fn    ProgressFunc
}

// NewProgressReader wraps r so that fn observes how much of total has been
// consumed. When fn is nil or total is not positive, r is returned as is.
func NewProgressReader(r io.Reader, total int64, fn ProgressFunc) io.Reader {
	if fn == nil || total <= 0 {
		return r
	}
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		percent := int(p.read * 100 / p.total)
		if percent > 100 {
			percent = 100
		}
		if percent > p.last {
			p.last = percent
			p.fn(percent)
		}
	}
	return n, err
}

// UploadSigned PUTs body to a signed object-storage URL. The byte transfer
// goes directly to storage; the application backend only issued the
// credential baked into url. Single-shot, no retry or chunking.
func UploadSigned(ctx context.Context, hc *http.Client, url string, body io.Reader, size int64, fn ProgressFunc) error {
	if hc == nil {
		hc = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, NewProgressReader(body, size, fn))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if size > 0 {
		req.ContentLength = size
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
