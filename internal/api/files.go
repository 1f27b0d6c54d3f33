package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/avicena/avicena/internal/domain"
)

// UploadFile uploads one file (doctor photo, clinic image) and returns
// its public URL. The upload goes through the same execution path as
// every other request, so bearer injection and the 401 teardown apply.
func (c *Client) UploadFile(ctx context.Context, filename string, r io.Reader) (*domain.UploadedFile, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	body, err := c.doRaw(ctx, http.MethodPost, "/admin/file/upload", nil, w.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}

	var uploaded domain.UploadedFile
	if err := decodeInto(body, &uploaded); err != nil {
		return nil, err
	}
	return &uploaded, nil
}
