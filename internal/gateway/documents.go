package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/synapsechat/synapsechat/internal/model"
)

// UploadDocument uploads a library document as multipart form data. The
// outcome is always encoded in the returned UploadResponse; Message carries
// backend or transport error text on failure.
func (c *Client) UploadDocument(ctx context.Context, file io.Reader, filename, userID string) model.UploadResponse {
	if userID == "" {
		userID = DefaultUserID
	}

	ctx, span := c.tracer.Start(ctx, "gateway.UploadDocument",
		trace.WithAttributes(attribute.String("document.filename", filename)))
	defer span.End()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		c.logger.Error("failed to build multipart body", zap.Error(err))
		return model.UploadResponse{Message: "Failed to prepare the upload. Please try again."}
	}
	if _, err := io.Copy(part, file); err != nil {
		c.logger.Error("failed to read upload file", zap.Error(err))
		return model.UploadResponse{Message: "Failed to read the file. Please try again."}
	}
	if err := w.WriteField("user_id", userID); err != nil {
		c.logger.Error("failed to build multipart body", zap.Error(err))
		return model.UploadResponse{Message: "Failed to prepare the upload. Please try again."}
	}
	if err := w.Close(); err != nil {
		c.logger.Error("failed to finalize multipart body", zap.Error(err))
		return model.UploadResponse{Message: "Failed to prepare the upload. Please try again."}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/documents/upload", &buf)
	if err != nil {
		c.logger.Error("failed to build upload request", zap.Error(err))
		return model.UploadResponse{Message: "Failed to prepare the upload. Please try again."}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("upload failed", zap.Error(err))
		return model.UploadResponse{Message: "Unable to reach the backend. Please check your connection and try again."}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeDetail(resp.Body, resp.StatusCode)
		c.logger.Warn("upload rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail))
		return model.UploadResponse{Message: detail}
	}

	var uploadResp model.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		c.logger.Error("failed to decode upload response", zap.Error(err))
		return model.UploadResponse{Message: "The backend returned an unexpected response."}
	}
	return uploadResp
}

// FetchDocuments returns the user's document library. On failure it returns
// an empty slice.
func (c *Client) FetchDocuments(ctx context.Context, userID string) []model.Document {
	if userID == "" {
		userID = DefaultUserID
	}

	ctx, span := c.tracer.Start(ctx, "gateway.FetchDocuments")
	defer span.End()

	var listResp model.ListDocumentsResponse
	if !c.getJSON(ctx, "/api/documents?user_id="+url.QueryEscape(userID), &listResp) {
		return nil
	}
	return listResp.Documents
}

// DeleteDocument deletes a document by id, reporting success as a boolean.
func (c *Client) DeleteDocument(ctx context.Context, id, userID string) bool {
	if userID == "" {
		userID = DefaultUserID
	}

	ctx, span := c.tracer.Start(ctx, "gateway.DeleteDocument",
		trace.WithAttributes(attribute.String("document.id", id)))
	defer span.End()

	path := "/api/documents/" + url.PathEscape(id) + "?user_id=" + url.QueryEscape(userID)
	return c.delete(ctx, path)
}
