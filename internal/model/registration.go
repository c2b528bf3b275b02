package model

import "time"

// FormType selects which registration form configuration applies.
type FormType string

const (
	FormTypeVendor   FormType = "vendor"
	FormTypeCustomer FormType = "customer"
)

// Valid reports whether the form type is one of the known variants.
func (t FormType) Valid() bool {
	return t == FormTypeVendor || t == FormTypeCustomer
}

// Label returns the capitalized display name ("Vendor", "Customer").
func (t FormType) Label() string {
	switch t {
	case FormTypeVendor:
		return "Vendor"
	case FormTypeCustomer:
		return "Customer"
	default:
		return string(t)
	}
}

// Registration is the persisted representation of one completed submission.
// This is a pure domain model with no database-specific dependencies or tags.
type Registration struct {
	ID        string            `json:"id"`
	FormType  FormType          `json:"form_type"`
	Title     string            `json:"title"`
	Meta      map[string]string `json:"meta,omitempty"`
	Files     []StoredFile      `json:"files,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// StoredFile is the opaque reference returned by the storage collaborator
// after accepting an upload. Key is stable and unique per file; URL is
// resolved on demand and may be empty when not yet presigned.
type StoredFile struct {
	Field            string `json:"field"`
	Key              string `json:"key"`
	OriginalFilename string `json:"original_filename"`
	ContentType      string `json:"content_type"`
	Size             int64  `json:"size"`
	URL              string `json:"url,omitempty"`
}
