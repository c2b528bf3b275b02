package form

import (
	"github.com/kavirajan452/poel-step-registeration-form/internal/model"
	"github.com/kavirajan452/poel-step-registeration-form/internal/validator"
)

// FileMeta is what the client side knows about a chosen file: name, declared
// size, and the browser-reported content type. Only a pre-filter; the server
// re-checks against actual content.
type FileMeta struct {
	Filename     string
	Size         int64
	ReportedType string
}

// Wizard is the explicit finite-state object behind the multi-step form.
// One panel index is current at a time; transitions are methods returning
// the validation errors that blocked them, so the same object drives both
// the interactive UI and tests. Not safe for concurrent use; the client
// side is single-threaded and event-driven.
type Wizard struct {
	cfg       Config
	panel     int
	submitted bool

	values map[string][]string
	files  map[string]FileMeta
	// errs holds the outstanding live-validation failure per field.
	errs map[string]string

	loc DependentSelects
}

// NewWizard builds a wizard positioned on panel 1.
func NewWizard(cfg Config) *Wizard {
	return &Wizard{
		cfg:    cfg,
		panel:  1,
		values: make(map[string][]string),
		files:  make(map[string]FileMeta),
		errs:   make(map[string]string),
	}
}

// Panel returns the current 1-based panel index.
func (w *Wizard) Panel() int { return w.panel }

// Submitted reports whether the terminal submit succeeded.
func (w *Wizard) Submitted() bool { return w.submitted }

// Values returns the current field values. Fields hidden by an inactive gate
// have already been cleared and do not appear.
func (w *Wizard) Values() map[string][]string { return w.values }

// Files returns the chosen file metadata per file field.
func (w *Wizard) Files() map[string]FileMeta { return w.files }

// FieldError returns the outstanding live-validation failure for a field,
// or "" when the field is currently clean.
func (w *Wizard) FieldError(name string) string { return w.errs[name] }

// SetValue records a field value and validates it immediately, so later
// panel- or submit-level checks only confirm there are no outstanding
// failures. Unknown field names are ignored. Changing a gating field clears
// every field its new value deactivates; the toggle is idempotent and a
// hidden field is never left required or populated.
func (w *Wizard) SetValue(name string, vals ...string) *model.ValidationError {
	f, panel := w.cfg.FieldByName(name)
	if panel == 0 || f.File {
		return nil
	}

	cleaned := vals[:0:0]
	for _, v := range vals {
		if v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		delete(w.values, name)
	} else {
		w.values[name] = cleaned
	}
	w.clearInactive()

	delete(w.errs, name)
	if len(cleaned) == 0 {
		if f.Required && Active(f, w.values) {
			w.errs[name] = "required"
		}
		return nil
	}
	if !f.Multi {
		if verr := validator.Check(name, f.Kind, cleaned[0]); verr != nil {
			w.errs[name] = verr.Reason
			return verr
		}
	}
	return nil
}

// ToggleGate flips a gating radio to the given choice. It is SetValue under
// a clearer name for the two-state controls (gst_registered, msme_registered)
// and carries the same guarantee: repeating the same choice is a no-op, and
// flipping away clears every field the previous choice had revealed.
func (w *Wizard) ToggleGate(name, choice string) *model.ValidationError {
	return w.SetValue(name, choice)
}

// SetFile records a chosen file and applies the client-side pre-filter over
// declared size and browser-reported type. On violation the selection is
// dropped, mirroring the form clearing a rejected file input.
func (w *Wizard) SetFile(name string, meta FileMeta) *model.ValidationError {
	f, panel := w.cfg.FieldByName(name)
	if panel == 0 || !f.File {
		return nil
	}

	delete(w.errs, name)
	if verr := validator.CheckFileSize(name, meta.Size); verr != nil {
		delete(w.files, name)
		w.errs[name] = verr.Reason
		return verr
	}
	if verr := validator.CheckFileClientType(name, meta.ReportedType); verr != nil {
		delete(w.files, name)
		w.errs[name] = verr.Reason
		return verr
	}
	w.files[name] = meta
	w.clearInactive()
	return nil
}

// clearInactive drops values, files, and errors of every conditional field
// whose gate no longer holds the activating value.
func (w *Wizard) clearInactive() {
	for _, p := range w.cfg.Panels {
		for _, f := range p.Fields {
			if f.ConditionalOn == nil || Active(f, w.values) {
				continue
			}
			delete(w.values, f.Name)
			delete(w.files, f.Name)
			delete(w.errs, f.Name)
		}
	}
}

// empty reports whether the field currently has no usable value.
func (w *Wizard) empty(f Field) bool {
	if f.File {
		_, ok := w.files[f.Name]
		return !ok
	}
	return len(w.values[f.Name]) == 0
}

// panelErrors validates every visible required field of the 1-based panel
// index plus any outstanding live failures there.
func (w *Wizard) panelErrors(idx int) []model.ValidationError {
	var out []model.ValidationError
	for _, f := range w.cfg.Panels[idx-1].Fields {
		if !Active(f, w.values) {
			continue
		}
		if reason, ok := w.errs[f.Name]; ok {
			out = append(out, model.ValidationError{Field: f.Name, Reason: reason})
			continue
		}
		if f.Required && w.empty(f) {
			out = append(out, model.ValidationError{Field: f.Name, Reason: f.Label + " is required"})
		}
	}
	return out
}

// Next validates the current panel and advances on success. On failure the
// panel does not change and all collected errors are returned.
func (w *Wizard) Next() []model.ValidationError {
	if errs := w.panelErrors(w.panel); len(errs) > 0 {
		return errs
	}
	if w.panel < w.cfg.Steps() {
		w.panel++
	}
	return nil
}

// Back moves to the previous panel unconditionally.
func (w *Wizard) Back() {
	if w.panel > 1 {
		w.panel--
	}
}

// JumpTo moves directly to panel j. Backward jumps are review actions and
// never validate; forward jumps validate the current panel only.
func (w *Wizard) JumpTo(j int) []model.ValidationError {
	if j < 1 || j > w.cfg.Steps() || j == w.panel {
		return nil
	}
	if j < w.panel {
		w.panel = j
		return nil
	}
	if errs := w.panelErrors(w.panel); len(errs) > 0 {
		return errs
	}
	w.panel = j
	return nil
}

// Submit re-validates every required field across all panels, including
// conditional ones whose gate is currently active. Any failure aborts the
// submission and navigates to the first panel containing an invalid field.
func (w *Wizard) Submit() []model.ValidationError {
	var all []model.ValidationError
	firstBad := 0
	for i := 1; i <= w.cfg.Steps(); i++ {
		errs := w.panelErrors(i)
		if len(errs) > 0 && firstBad == 0 {
			firstBad = i
		}
		all = append(all, errs...)
	}
	if len(all) > 0 {
		w.panel = firstBad
		return all
	}
	w.submitted = true
	return nil
}

// Reset returns the wizard to panel 1 with no values, the state after a
// successful round trip to the server.
func (w *Wizard) Reset() {
	w.panel = 1
	w.submitted = false
	w.values = make(map[string][]string)
	w.files = make(map[string]FileMeta)
	w.errs = make(map[string]string)
	w.loc = DependentSelects{}
}
