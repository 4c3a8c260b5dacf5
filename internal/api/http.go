package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/helixdash/helixdash/internal/logging"
	"github.com/helixdash/helixdash/internal/netx"
)

// maxErrorBody bounds how much of a failed response is read while looking
// for a structured error detail.
const maxErrorBody = 1 << 20

// HTTPClient implements Client over the backend's JSON/multipart REST API.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	tokens  TokenSource
	log     logging.Logger
}

// NewHTTPClient builds a client for the API at baseURL. tokens may be nil
// for unauthenticated use; log may be nil.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *HTTPClient {
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// do executes the request and maps failures onto the error taxonomy.
// The caller owns resp.Body on success.
func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := extractDetail(body)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if detail != "" {
			return nil, fmt.Errorf("%s: %w", detail, ErrUnauthorized)
		}
		return nil, ErrUnauthorized
	}

	return nil, &APIError{Status: resp.StatusCode, Detail: detail}
}

// extractDetail pulls a human-readable message out of a FastAPI-style error
// body: {"detail": "..."} or {"error": "..."}. Returns "" when the body has
// no recognizable structure.
func extractDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		return string(payload.Detail)
	}
	return payload.Error
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// getList fetches path and normalizes the result into a slice: backends
// occasionally return a single object where callers expect a list.
func getList[T any](ctx context.Context, c *HTTPClient, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	return normalizeList[T](raw)
}

func normalizeList[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var one T
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return []T{one}, nil
	}

	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return list, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	in := map[string]string{"email": email, "password": password}
	var out AuthResult
	if err := c.postJSON(ctx, "/api/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var out AuthResult
	if err := c.postJSON(ctx, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Variants(ctx context.Context, userID string) ([]Variant, error) {
	return getList[Variant](ctx, c, "/api/genomic/variants/"+userID)
}

func (c *HTTPClient) RiskScores(ctx context.Context, userID string) ([]RiskScore, error) {
	return getList[RiskScore](ctx, c, "/api/prs/scores/user/"+userID)
}

func (c *HTTPClient) SendChat(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	var out ChatReply
	if err := c.postJSON(ctx, "/api/chatbot/chat", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadGenomic streams a multipart upload and reports body progress.
// An accepted upload with an unparseable body is still treated as a success:
// the HTTP status is authoritative and the receipt is synthesized.
func (c *HTTPClient) UploadGenomic(ctx context.Context, req GenomicUpload) (*UploadReceipt, error) {
	fields := map[string]string{"user_id": req.UserID}
	resp, err := c.uploadMultipart(ctx, "/api/upload/genomic", "file", req.FileName, req.Data, fields, req.OnProgress)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var receipt UploadReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		c.log.Warn(ctx, "genomic upload: unparseable success body, synthesizing receipt", "file", req.FileName, "err", err)
		return &UploadReceipt{Message: "upload completed"}, nil
	}
	return &receipt, nil
}

// AnalyzeMRI uploads an MRI image for detection. Unlike UploadGenomic, a
// malformed success body is an error: callers act on the analysis content,
// so a synthesized result would mask backend failures.
func (c *HTTPClient) AnalyzeMRI(ctx context.Context, req MRIUpload) (*MRIAnalysis, error) {
	fields := map[string]string{
		"user_id":       req.UserID,
		"analysis_type": req.AnalysisType,
		"store_in_db":   strconv.FormatBool(req.StoreInDB),
	}
	resp, err := c.uploadMultipart(ctx, "/api/mri/upload-and-analyze", "mri_image", req.FileName, req.Data, fields, req.OnProgress)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var analysis MRIAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, fmt.Errorf("decode mri analysis: %w", err)
	}
	return &analysis, nil
}

func (c *HTTPClient) MRIScans(ctx context.Context, userID string) ([]MRIScan, error) {
	return getList[MRIScan](ctx, c, "/api/mri/user/"+userID)
}

func (c *HTTPClient) MRIAnalysisByID(ctx context.Context, imageID string) (*MRIAnalysis, error) {
	var out MRIAnalysis
	if err := c.getJSON(ctx, "/api/mri/analysis/"+imageID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteMRI(ctx context.Context, imageID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/mri/"+imageID, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *HTTPClient) PresignUpload(ctx context.Context, path string) (string, error) {
	in := map[string]string{"path": path}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.postJSON(ctx, "/api/upload/supabase/presign", in, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("presign: empty token in response")
	}
	return out.Token, nil
}

func (c *HTTPClient) AnalysisStatus(ctx context.Context, analysisID string) (*JobStatus, error) {
	var out JobStatus
	if err := c.getJSON(ctx, "/api/genomic/analysis/"+analysisID+"/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// uploadMultipart builds the multipart body in memory (uploads here are
// modest single files) so the total size is known and progress can be
// reported against it.
func (c *HTTPClient) uploadMultipart(ctx context.Context, path, fileField, fileName string, data io.Reader, fields map[string]string, onProgress func(int)) (*http.Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}

	part, err := mw.CreateFormFile(fileField, fileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	total := int64(buf.Len())
	body := netx.NewProgressReader(&buf, total, onProgress)

	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = total

	return c.do(req)
}
