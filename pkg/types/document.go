package types

import "time"

// DonorDocument is a file a donor uploads to back up their verification flag.
type DonorDocument struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"userId"`
	DocumentType  string    `db:"document_type" json:"documentType"`
	FileName      string    `db:"file_name" json:"fileName"`
	FileSizeBytes int64     `db:"file_size_bytes" json:"fileSizeBytes"`
	MimeType      string    `db:"mime_type" json:"mimeType"`
	StorageKey    string    `db:"storage_key" json:"storageKey"`
	UploadedAt    time.Time `db:"uploaded_at" json:"uploadedAt"`
}

const (
	DocTypeID           = "id"
	DocTypeDonorCard    = "donor_card"
	DocTypeMedicalCheck = "medical_check"
	DocTypeOther        = "other"
)

var DocumentTypes = map[string]bool{
	DocTypeID:           true,
	DocTypeDonorCard:    true,
	DocTypeMedicalCheck: true,
	DocTypeOther:        true,
}
