package fxclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// MaxUploadBytes is the upload size ceiling. Files must be strictly
// smaller to be accepted.
const MaxUploadBytes = 50 << 20 // 50 MiB

// FileHandle references an uploaded source file on the server. It stays
// valid for subsequent submissions until the caller uploads a new file;
// jobs already submitted against it are unaffected by replacement.
type FileHandle string

type uploadResponse struct {
	FileID string `json:"file_id"`
}

// Upload validates and transmits a source audio file, returning the
// handle every later submission references. The MIME type must indicate
// audio and size must be under MaxUploadBytes; violations fail with a
// *ValidationError before anything touches the network. Transport or
// server failures yield an *UploadError and no handle.
func (c *Client) Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (FileHandle, error) {
	if !strings.HasPrefix(contentType, "audio/") {
		return "", &ValidationError{Reason: fmt.Sprintf("unsupported file type %q, only audio files are accepted", contentType)}
	}
	if size >= MaxUploadBytes {
		return "", &ValidationError{Reason: fmt.Sprintf("file size %d exceeds the %d byte limit", size, MaxUploadBytes)}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return "", &UploadError{Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", &UploadError{Err: err}
	}
	if err := mw.Close(); err != nil {
		return "", &UploadError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/files/", &buf)
	if err != nil {
		return "", &UploadError{Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp uploadResponse
	if err := c.doRequest(req, &resp); err != nil {
		return "", &UploadError{Err: err}
	}
	if resp.FileID == "" {
		return "", &UploadError{Err: fmt.Errorf("server returned no file_id")}
	}

	return FileHandle(resp.FileID), nil
}
