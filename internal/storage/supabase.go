package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// SupabaseStorage handles file uploads to Supabase Storage
type SupabaseStorage struct {
	bucketName string
	client     *resty.Client
}

func NewSupabaseStorage(projectID, apiKey, bucketName string) *SupabaseStorage {
	return newSupabaseStorage(fmt.Sprintf("https://%s.supabase.co/storage/v1", projectID), apiKey, bucketName)
}

func newSupabaseStorage(baseURL, apiKey, bucketName string) *SupabaseStorage {
	return &SupabaseStorage{
		bucketName: bucketName,
		client: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(apiKey),
	}
}

func (s *SupabaseStorage) objectPath(key string) string {
	return fmt.Sprintf("/object/%s/%s", s.bucketName, key)
}

func (s *SupabaseStorage) Upload(ctx context.Context, key string, body io.Reader, _ int64, contentType string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(body).
		Post(s.objectPath(key))
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("upload failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

func (s *SupabaseStorage) Delete(ctx context.Context, key string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		Delete(s.objectPath(key))
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if resp.IsError() && resp.StatusCode() != http.StatusNotFound {
		return fmt.Errorf("delete failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}
