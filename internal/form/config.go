package form

import (
	"fmt"

	"github.com/kavirajan452/poel-step-registeration-form/internal/model"
	"github.com/kavirajan452/poel-step-registeration-form/internal/validator"
)

// Package form defines the static step configuration for each form variant
// and the wizard state machine that walks it. Configurations are built once
// at startup and read-only afterwards; the vendor and customer forms share
// one parameterized machine so their validation behavior cannot drift.

// Condition gates a field on another field holding a specific value.
type Condition struct {
	Field string
	Value string
}

// Field describes one input of a panel.
type Field struct {
	Name          string
	Label         string
	Kind          validator.Kind
	Required      bool
	File          bool
	Multi         bool
	ConditionalOn *Condition
}

// Panel is one page of the multi-step form.
type Panel struct {
	Title  string
	Fields []Field
}

// Config is the ordered panel list for one form type.
type Config struct {
	Type   model.FormType
	Panels []Panel
}

// ForType returns the step configuration for a form type.
func ForType(t model.FormType) (Config, error) {
	switch t {
	case model.FormTypeVendor:
		return VendorForm(), nil
	case model.FormTypeCustomer:
		return CustomerForm(), nil
	default:
		return Config{}, fmt.Errorf("unknown form type %q", t)
	}
}

// Steps returns the panel count.
func (c Config) Steps() int { return len(c.Panels) }

// FieldByName looks a field descriptor up across all panels. The second
// return is the 1-based panel index holding it, or 0 when unknown.
func (c Config) FieldByName(name string) (Field, int) {
	for i, p := range c.Panels {
		for _, f := range p.Fields {
			if f.Name == name {
				return f, i + 1
			}
		}
	}
	return Field{}, 0
}

// FileFields returns the file-input descriptors across all panels, in panel
// order.
func (c Config) FileFields() []Field {
	var out []Field
	for _, p := range c.Panels {
		for _, f := range p.Fields {
			if f.File {
				out = append(out, f)
			}
		}
	}
	return out
}

// Gated returns the fields conditional on gate, in panel order.
func (c Config) Gated(gate string) []Field {
	var out []Field
	for _, p := range c.Panels {
		for _, f := range p.Fields {
			if f.ConditionalOn != nil && f.ConditionalOn.Field == gate {
				out = append(out, f)
			}
		}
	}
	return out
}

// Active reports whether f applies given the current values: unconditional
// fields always do, conditional ones only when their gate holds the
// activating value.
func Active(f Field, values map[string][]string) bool {
	if f.ConditionalOn == nil {
		return true
	}
	for _, v := range values[f.ConditionalOn.Field] {
		if v == f.ConditionalOn.Value {
			return true
		}
	}
	return false
}

// basicInfoPanel is shared between the two variants; the customer form makes
// a few address fields mandatory that the vendor form leaves optional, and
// the multi-select differs.
func basicInfoPanel(t model.FormType) Panel {
	customer := t == model.FormTypeCustomer
	fields := []Field{
		{Name: "organisation_name", Label: "Organisation Name", Kind: validator.KindText, Required: true},
		{Name: "company_registration_number", Label: "Company Registration Number", Kind: validator.KindText, Required: customer},
		{Name: "company_registration_file", Label: "Company Registration File", File: true, Required: true},
		{Name: "iec_code", Label: "IEC Code", Kind: validator.KindText},
		{Name: "street_address", Label: "Street Address", Kind: validator.KindText, Required: customer},
		{Name: "street_address_2", Label: "Street Address Line 2", Kind: validator.KindText},
		{Name: "country", Label: "Country", Kind: validator.KindText, Required: customer},
		{Name: "state", Label: "State", Kind: validator.KindText, Required: true},
		{Name: "city", Label: "City", Kind: validator.KindText, Required: true},
		{Name: "zip", Label: "Zip Code", Kind: validator.KindText},
	}
	if customer {
		fields = append(fields,
			Field{Name: "customer_type", Label: "Customer Type", Kind: validator.KindText, Required: true, Multi: true},
		)
	} else {
		fields = append(fields,
			Field{Name: "vendor_type", Label: "Vendor Type", Kind: validator.KindText, Required: true, Multi: true},
			Field{Name: "products", Label: "Products/Services Offered", Kind: validator.KindText, Required: true},
		)
	}
	fields = append(fields,
		Field{Name: "purchase_contact_name", Label: "Purchase Contact Name", Kind: validator.KindText, Required: true},
		Field{Name: "purchase_contact_phone", Label: "Purchase Contact Phone", Kind: validator.KindPhone, Required: true},
		Field{Name: "purchase_contact_email", Label: "Purchase Contact Email", Kind: validator.KindEmail, Required: true},
		Field{Name: "accounts_contact_name", Label: "Accounts Contact Name", Kind: validator.KindText, Required: true},
		Field{Name: "accounts_contact_phone", Label: "Accounts Contact Phone", Kind: validator.KindPhone, Required: true},
		Field{Name: "accounts_contact_email", Label: "Accounts Contact Email", Kind: validator.KindEmail, Required: true},
	)
	return Panel{Title: "Basic Information", Fields: fields}
}

func gstPanel(t model.FormType) Panel {
	gstYes := &Condition{Field: "gst_registered", Value: "yes"}
	fields := []Field{
		{Name: "gst_registered", Label: "GST Registered", Kind: validator.KindText, Required: true},
		{Name: "gst_number", Label: "GST Number", Kind: validator.KindGST, Required: true, ConditionalOn: gstYes},
		{Name: "gst_legal_name", Label: "Legal Name (as per GST)", Kind: validator.KindText, Required: t == model.FormTypeVendor, ConditionalOn: gstYes},
		{Name: "taxpayer_type", Label: "Tax Payer Type", Kind: validator.KindText, Required: t == model.FormTypeVendor, ConditionalOn: gstYes},
		{Name: "gst_certificate", Label: "GST Certificate", File: true, Required: true, ConditionalOn: gstYes},
	}
	if t == model.FormTypeVendor {
		fields = append(fields,
			Field{Name: "einvoice_applicability", Label: "E-Invoice Applicability", Kind: validator.KindText, Required: true, ConditionalOn: gstYes},
			Field{Name: "return_filing_frequency", Label: "Return Filing Frequency", Kind: validator.KindText, Required: true, ConditionalOn: gstYes},
		)
	}
	return Panel{Title: "GST Registration", Fields: fields}
}

func msmePanel() Panel {
	msmeYes := &Condition{Field: "msme_registered", Value: "yes"}
	msmeNo := &Condition{Field: "msme_registered", Value: "no"}
	return Panel{Title: "MSME Registration", Fields: []Field{
		{Name: "msme_registered", Label: "MSME Registered", Kind: validator.KindText, Required: true},
		{Name: "msme_type", Label: "MSME Type", Kind: validator.KindText, Required: true, ConditionalOn: msmeYes},
		{Name: "udyam_number", Label: "Udyam Registration Number", Kind: validator.KindUdyam, Required: true, ConditionalOn: msmeYes},
		{Name: "udyam_certificate", Label: "Udyam Certificate", File: true, Required: true, ConditionalOn: msmeYes},
		{Name: "msme_declaration_signed", Label: "MSME Declaration (Signed)", File: true, Required: true, ConditionalOn: msmeNo},
	}}
}

func bankPanel() Panel {
	return Panel{Title: "Bank Details", Fields: []Field{
		{Name: "beneficiary_name", Label: "Beneficiary Name", Kind: validator.KindText, Required: true},
		{Name: "bank_name", Label: "Bank Name", Kind: validator.KindText, Required: true},
		{Name: "branch_name", Label: "Branch Name", Kind: validator.KindText, Required: true},
		{Name: "ifsc", Label: "IFSC Code", Kind: validator.KindIFSC, Required: true},
		{Name: "bank_account", Label: "Bank Account Number", Kind: validator.KindBankAccount, Required: true},
		{Name: "bank_proof", Label: "Bank Proof/Cancelled Cheque", File: true, Required: true},
	}}
}

func tdsPanel(t model.FormType) Panel {
	fields := []Field{
		{Name: "pan_number", Label: "PAN Number", Kind: validator.KindPAN, Required: true},
		{Name: "pan_type", Label: "PAN Type", Kind: validator.KindText, Required: true},
		{Name: "pan_card", Label: "PAN Card", File: true, Required: true},
	}
	if t == model.FormTypeCustomer {
		fields = append(fields,
			Field{Name: "tan_number", Label: "TAN Number", Kind: validator.KindTAN, Required: true},
		)
	}
	return Panel{Title: "TDS Details", Fields: fields}
}

// VendorForm is the 5-step vendor registration configuration.
func VendorForm() Config {
	return Config{
		Type: model.FormTypeVendor,
		Panels: []Panel{
			basicInfoPanel(model.FormTypeVendor),
			gstPanel(model.FormTypeVendor),
			msmePanel(),
			bankPanel(),
			tdsPanel(model.FormTypeVendor),
		},
	}
}

// CustomerForm is the 3-step customer registration configuration.
func CustomerForm() Config {
	return Config{
		Type: model.FormTypeCustomer,
		Panels: []Panel{
			basicInfoPanel(model.FormTypeCustomer),
			gstPanel(model.FormTypeCustomer),
			tdsPanel(model.FormTypeCustomer),
		},
	}
}
