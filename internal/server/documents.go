package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"bloodlink/internal/storage"
	"bloodlink/internal/utils"
	"bloodlink/pkg/types"

	"github.com/sirupsen/logrus"
)

const maxDocumentSize = 10 << 20

var allowedDocumentMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// sniffContentType detects the file type from its first 512 bytes and
// rewinds f. The part's own Content-Type header is ignored.
func sniffContentType(f multipart.File) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}
	return http.DetectContentType(head[:n]), nil
}

func (s *Service) handleGetDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docs, err := s.repos.Documents.DocumentsByUser(ctx, sessionFromContext(ctx).UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, docs)
}

func (s *Service) handlePostDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFromContext(ctx)

	if s.files == nil {
		s.writeError(w, r, storage.ErrDisabled)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentSize+(1<<20))
	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		s.writeError(w, r, fieldError{"file": "Upload must be a multipart form under 10MB."})
		return
	}

	documentType := strings.TrimSpace(r.FormValue("documentType"))
	if documentType == "" {
		documentType = types.DocTypeOther
	}
	if !types.DocumentTypes[documentType] {
		s.writeError(w, r, fieldError{"documentType": "Unknown document type."})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, fieldError{"file": "A file is required."})
		return
	}
	defer file.Close()

	mimeType, err := sniffContentType(file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !allowedDocumentMimeTypes[mimeType] {
		s.writeError(w, r, fieldError{"file": "Only PDF, JPEG and PNG files are accepted."})
		return
	}

	doc := &types.DonorDocument{
		ID:            utils.NanoID(),
		UserID:        sess.UserID,
		DocumentType:  documentType,
		FileName:      header.Filename,
		FileSizeBytes: header.Size,
		MimeType:      mimeType,
	}
	doc.StorageKey = storage.Key(sess.UserID, doc.ID, header.Filename)

	if err := s.files.Upload(ctx, doc.StorageKey, file, header.Size, mimeType); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.repos.Documents.CreateDocument(ctx, doc); err != nil {
		if derr := s.files.Delete(ctx, doc.StorageKey); derr != nil {
			s.logger.WithError(derr).WithField("storage_key", doc.StorageKey).Error("failed to remove orphaned upload")
		}
		s.writeError(w, r, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":     sess.UserID,
		"document_id": doc.ID,
		"size":        doc.FileSizeBytes,
	}).Info("document uploaded")

	s.writeJSON(w, http.StatusCreated, doc)
}

func (s *Service) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFromContext(ctx)
	documentID := r.PathValue("id")

	docs, err := s.repos.Documents.DocumentsByUser(ctx, sess.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var doc *types.DonorDocument
	for _, d := range docs {
		if d.ID == documentID {
			doc = d
			break
		}
	}
	if doc == nil {
		s.writeError(w, r, types.ErrDocumentNotFound)
		return
	}

	if err := s.repos.Documents.DeleteDocument(ctx, doc.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	if s.files != nil {
		if err := s.files.Delete(ctx, doc.StorageKey); err != nil {
			s.logger.WithError(err).WithField("storage_key", doc.StorageKey).Warn("failed to delete stored document")
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
