package documents

import "time"

const (
	TypeResume      = "RESUME"
	TypeIDProof     = "ID_PROOF"
	TypeOfferLetter = "OFFER_LETTER"
	TypeExperience  = "EXPERIENCE"
)

var Types = []string{TypeResume, TypeIDProof, TypeOfferLetter, TypeExperience}

type Document struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	DocumentType string    `json:"document_type"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
	StorageKey   string    `json:"-"`
	// Size is nil when the stored file could not be inspected.
	Size *int64 `json:"size"`
	URL  string `json:"url"`
}
