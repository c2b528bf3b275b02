// Package validator holds the single declarative table of field format rules.
// Both the client-side wizard and the server-side submission pipeline consult
// the same table, so the two validation layers cannot drift apart.
package validator

import (
	"regexp"
	"strings"

	"github.com/kavirajan452/poel-step-registeration-form/internal/model"
)

// Kind tags a field with the format rule that applies to its value.
type Kind string

const (
	KindText        Kind = "text"
	KindEmail       Kind = "email"
	KindPhone       Kind = "phone"
	KindPAN         Kind = "pan"
	KindTAN         Kind = "tan"
	KindGST         Kind = "gst"
	KindIFSC        Kind = "ifsc"
	KindUdyam       Kind = "udyam"
	KindBankAccount Kind = "bank_account"
)

// Func validates a single raw value. An empty return means the value is
// valid; otherwise it carries a human-readable reason. The field name is
// filled in by the caller, which knows it.
type Func func(value string) string

var (
	emailRe       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe       = regexp.MustCompile(`^[0-9]{10}$`)
	panRe         = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	tanRe         = regexp.MustCompile(`^[A-Z]{4}[0-9]{5}[A-Z]$`)
	gstRe         = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	ifscRe        = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	udyamRe       = regexp.MustCompile(`^UDYAM-[A-Z]{2}-[0-9]{2}-[0-9]{7}$`)
	bankAccountRe = regexp.MustCompile(`^[0-9]{9,18}$`)

	phoneStripper = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// Rules maps a field kind to its validator. KindText has no entry: free text
// has no format to check beyond required-ness, which the caller handles.
var Rules = map[Kind]Func{
	KindEmail:       Email,
	KindPhone:       Phone,
	KindPAN:         PAN,
	KindTAN:         TAN,
	KindGST:         GST,
	KindIFSC:        IFSC,
	KindUdyam:       Udyam,
	KindBankAccount: BankAccount,
}

// Check validates value against the rule for kind and returns a
// ValidationError naming field on failure. Empty values pass: required-ness
// is a separate concern decided by the form configuration.
func Check(field string, kind Kind, value string) *model.ValidationError {
	if value == "" {
		return nil
	}
	fn, ok := Rules[kind]
	if !ok {
		return nil
	}
	if reason := fn(value); reason != "" {
		return &model.ValidationError{Field: field, Reason: reason}
	}
	return nil
}

// Email checks the local@domain.tld shape: no whitespace, one at-sign, a dot
// in the domain. Deliverability is not verified.
func Email(v string) string {
	if !emailRe.MatchString(v) {
		return "invalid email format"
	}
	return ""
}

// Phone requires exactly 10 digits after stripping spaces, hyphens, and
// parentheses.
func Phone(v string) string {
	if !phoneRe.MatchString(phoneStripper.Replace(v)) {
		return "invalid phone number (10 digits required)"
	}
	return ""
}

// PAN: 5 letters, 4 digits, 1 letter (e.g. ABCDE1234F).
func PAN(v string) string {
	if !panRe.MatchString(v) {
		return "invalid PAN format (e.g., ABCDE1234F)"
	}
	return ""
}

// TAN: 4 letters, 5 digits, 1 letter (e.g. ABCD12345E).
func TAN(v string) string {
	if !tanRe.MatchString(v) {
		return "invalid TAN format (e.g., ABCD12345E)"
	}
	return ""
}

// GST: 15-character composite with the checksum-position letter fixed to "Z".
// Format only, no checksum verification.
func GST(v string) string {
	if !gstRe.MatchString(v) {
		return "invalid GST format"
	}
	return ""
}

// IFSC: 4 letters, a literal "0", then 6 alphanumerics.
func IFSC(v string) string {
	if !ifscRe.MatchString(v) {
		return "invalid IFSC code"
	}
	return ""
}

// Udyam: literal "UDYAM-" prefix, 2-letter state code, 2-digit and 7-digit
// sequences (e.g. UDYAM-KA-01-0123456).
func Udyam(v string) string {
	if !udyamRe.MatchString(v) {
		return "invalid Udyam registration number (e.g., UDYAM-XX-00-0000000)"
	}
	return ""
}

// BankAccount: 9 to 18 digits.
func BankAccount(v string) string {
	if !bankAccountRe.MatchString(v) {
		return "invalid bank account number (9-18 digits)"
	}
	return ""
}
