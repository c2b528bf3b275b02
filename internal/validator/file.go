package validator

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/kavirajan452/poel-step-registeration-form/internal/model"
)

// MaxFileSize is the upload size ceiling: 2 MiB.
const MaxFileSize int64 = 2 << 20

// SniffLen is how many leading bytes content detection needs.
const SniffLen = 512

// allowedContentTypes are the content types accepted for uploads. Keys are
// normalized (no parameters, lower case). image/jpg is tolerated because
// browsers still report it, but sniffing always yields image/jpeg.
var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"application/pdf": true,
}

// AllowedContentType reports whether ct (possibly with parameters, e.g.
// "application/pdf; charset=binary") is an accepted upload type.
func AllowedContentType(ct string) bool {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return allowedContentTypes[strings.ToLower(strings.TrimSpace(ct))]
}

// CheckFileSize validates the declared or observed byte size of an upload.
func CheckFileSize(field string, size int64) *model.ValidationError {
	if size > MaxFileSize {
		return &model.ValidationError{Field: field, Reason: "file size must not exceed 2MB"}
	}
	return nil
}

// CheckFileClientType is the fast client-side pre-filter over the
// browser-reported content type. It is not trusted by the server.
func CheckFileClientType(field, reportedType string) *model.ValidationError {
	if !AllowedContentType(reportedType) {
		return &model.ValidationError{Field: field, Reason: "file must be jpg, jpeg, or pdf format"}
	}
	return nil
}

// SniffContentType detects the actual content type from the first bytes of
// the file so filename or header spoofing cannot smuggle other formats in.
// head should hold up to SniffLen leading bytes.
func SniffContentType(head []byte) string {
	ct := http.DetectContentType(head)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}

// CheckFileContent validates an upload server-side: size limit plus sniffed
// content type. The detected type is returned so callers can store it instead
// of the browser-reported one.
func CheckFileContent(field string, size int64, head []byte) (string, *model.ValidationError) {
	if verr := CheckFileSize(field, size); verr != nil {
		return "", verr
	}
	ct := SniffContentType(head)
	if !allowedContentTypes[ct] {
		return "", &model.ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("file must be jpg, jpeg, or pdf format (detected %s)", ct),
		}
	}
	return ct, nil
}
