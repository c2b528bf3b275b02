package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/kavirajan452/poel-step-registeration-form/internal/form"
	"github.com/kavirajan452/poel-step-registeration-form/internal/model"
)

// Email is a composed message ready for dispatch.
type Email struct {
	Subject string
	HTML    string
}

// ComposeAcknowledgement builds the email sent back to the registrant's
// primary address confirming receipt of their submission.
func ComposeAcknowledgement(reg *model.Registration) (Email, error) {
	cfg, err := form.ForType(reg.FormType)
	if err != nil {
		return Email{}, err
	}

	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<p>Dear %s,</p>", html.EscapeString(contactName(reg)))
	fmt.Fprintf(&b, "<p>Thank you for submitting your %s registration. We have received the details below and our team will review them shortly.</p>",
		html.EscapeString(strings.ToLower(reg.FormType.Label())))
	writeSections(&b, cfg, reg, false)
	b.WriteString("<p>If any of the above is incorrect, please reply to this email.</p>")
	b.WriteString("</body></html>")

	return Email{
		Subject: fmt.Sprintf("%s registration received: %s", reg.FormType.Label(), reg.Title),
		HTML:    b.String(),
	}, nil
}

// ComposeInternal builds the email sent to the internal mailbox with the full
// submission detail, including links to the stored files.
func ComposeInternal(reg *model.Registration) (Email, error) {
	cfg, err := form.ForType(reg.FormType)
	if err != nil {
		return Email{}, err
	}

	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<p>A new %s registration has been submitted.</p>",
		html.EscapeString(strings.ToLower(reg.FormType.Label())))
	writeSections(&b, cfg, reg, true)
	b.WriteString("</body></html>")

	return Email{
		Subject: fmt.Sprintf("New %s registration: %s", strings.ToLower(reg.FormType.Label()), reg.Title),
		HTML:    b.String(),
	}, nil
}

// writeSections renders one table per form panel, listing only the fields the
// registrant actually filled in. Internal keys (underscore-prefixed) and file
// fields are excluded from the tables; files go in a trailing section.
func writeSections(b *strings.Builder, cfg form.Config, reg *model.Registration, withFiles bool) {
	for _, panel := range cfg.Panels {
		var rows []string
		for _, f := range panel.Fields {
			if f.File {
				continue
			}
			v, ok := reg.Meta[f.Name]
			if !ok || v == "" {
				continue
			}
			rows = append(rows, fmt.Sprintf("<tr><th align=\"left\">%s</th><td>%s</td></tr>",
				html.EscapeString(f.Label), html.EscapeString(v)))
		}
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(b, "<h3>%s</h3><table>", html.EscapeString(panel.Title))
		for _, r := range rows {
			b.WriteString(r)
		}
		b.WriteString("</table>")
	}

	if !withFiles || len(reg.Files) == 0 {
		return
	}

	b.WriteString("<h3>Uploaded Files</h3><ul>")
	for _, f := range reg.Files {
		fld, _ := cfg.FieldByName(f.Field)
		label := fld.Label
		if label == "" {
			label = f.Field
		}
		if f.URL != "" {
			fmt.Fprintf(b, "<li>%s: <a href=\"%s\">%s</a></li>",
				html.EscapeString(label), html.EscapeString(f.URL), html.EscapeString(f.OriginalFilename))
		} else {
			fmt.Fprintf(b, "<li>%s: %s</li>",
				html.EscapeString(label), html.EscapeString(f.OriginalFilename))
		}
	}
	b.WriteString("</ul>")
}

// contactName picks the best available name for the salutation.
func contactName(reg *model.Registration) string {
	for _, key := range []string{"purchase_contact_name", "organisation_name"} {
		if v := reg.Meta[key]; v != "" {
			return v
		}
	}
	return reg.Title
}
