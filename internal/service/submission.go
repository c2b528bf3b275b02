package service

import (
	"bytes"
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kavirajan452/poel-step-registeration-form/internal/form"
	"github.com/kavirajan452/poel-step-registeration-form/internal/model"
	"github.com/kavirajan452/poel-step-registeration-form/internal/notify"
	"github.com/kavirajan452/poel-step-registeration-form/internal/repository"
	"github.com/kavirajan452/poel-step-registeration-form/internal/storage"
	"github.com/kavirajan452/poel-step-registeration-form/internal/validator"
)

// presignExpiry bounds the download links embedded in the internal email.
const presignExpiry = 7 * 24 * time.Hour

// rawPayloadKey stores the full sanitized submission as JSON alongside the
// flattened metadata, preserving multi-value fields exactly as sent.
const rawPayloadKey = "_raw_payload"

// FileInput is one upload as received by the transport layer. Content is
// consumed exactly once during the pipeline.
type FileInput struct {
	Field        string
	Filename     string
	ReportedType string
	Size         int64
	Content      io.Reader
}

// SubmitInput carries one registration submission through the pipeline.
type SubmitInput struct {
	Token    string
	FormType model.FormType
	Fields   map[string][]string
	Files    []FileInput
}

// RegistrationListResult is the service-level DTO for paginated registrations.
type RegistrationListResult struct {
	Items []model.Registration `json:"data"`
	Total int                  `json:"total"`
}

// SubmissionService defines the use cases for handling registration
// submissions.
type SubmissionService interface {
	// Submit runs the full intake pipeline: token check, sanitation,
	// validation with conditional gating, file storage, record creation,
	// metadata persistence, and best-effort notification.
	Submit(ctx context.Context, in SubmitInput) (*model.Registration, error)

	// Get returns a single registration by its ID.
	Get(ctx context.Context, id string) (*model.Registration, error)

	// List returns registrations using limit/offset plus a total count,
	// optionally filtered by form type.
	List(ctx context.Context, formType string, limit, offset int) (*RegistrationListResult, error)
}

// submissionService is a concrete implementation of SubmissionService.
type submissionService struct {
	store       storage.Store
	repo        repository.RegistrationRepository
	sender      notify.Sender
	intakeToken string
	adminEmail  string
	log         *zap.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService. sender may be nil, in
// which case notifications are skipped.
func NewSubmissionService(store storage.Store, repo repository.RegistrationRepository, sender notify.Sender, intakeToken, adminEmail string, log *zap.Logger) SubmissionService {
	return &submissionService{
		store:       store,
		repo:        repo,
		sender:      sender,
		intakeToken: intakeToken,
		adminEmail:  adminEmail,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *submissionService) Submit(ctx context.Context, in SubmitInput) (*model.Registration, error) {
	if !s.tokenOK(in.Token) {
		return nil, ErrTokenInvalid
	}
	if !in.FormType.Valid() {
		return nil, ErrFormTypeInvalid
	}
	cfg, err := form.ForType(in.FormType)
	if err != nil {
		return nil, ErrFormTypeInvalid
	}

	fields := sanitizeFields(cfg, in.Fields)
	pruneInactive(cfg, fields)
	files := activeFiles(cfg, fields, in.Files)

	if verrs := validateFields(cfg, fields, files); len(verrs) > 0 {
		return nil, ValidationErrors(verrs)
	}

	stored, err := s.storeFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	reg := &model.Registration{
		ID:        uuid.New().String(),
		FormType:  in.FormType,
		Title:     title(in.FormType, fields, s.now()),
		Meta:      flattenMeta(fields),
		Files:     stored,
		CreatedAt: s.now(),
	}
	if raw, err := json.Marshal(fields); err == nil {
		reg.Meta[rawPayloadKey] = string(raw)
	}

	if _, err := s.repo.Create(ctx, reg); err != nil {
		// Stored objects are left behind on purpose; cleanup is an offline
		// concern and losing uploads is worse than orphaning them.
		return nil, &PersistenceError{Op: "create registration", Err: err}
	}
	for key, value := range reg.Meta {
		if err := s.repo.SetMeta(ctx, reg.ID, key, value); err != nil {
			return nil, &PersistenceError{Op: "write metadata", Err: err}
		}
	}
	for i := range reg.Files {
		if err := s.repo.AddFile(ctx, reg.ID, &reg.Files[i]); err != nil {
			return nil, &PersistenceError{Op: "attach file record", Err: err}
		}
	}

	s.notifyBestEffort(ctx, reg)
	return reg, nil
}

// Get returns a registration by ID with download URLs resolved for its
// stored files. A file that fails to presign keeps an empty URL.
func (s *submissionService) Get(ctx context.Context, id string) (*model.Registration, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(reg.Files) > 0 {
		reg.Files = s.presignAll(ctx, reg.Files)
	}
	return reg, nil
}

// List returns paginated registrations without exposing repository types.
func (s *submissionService) List(ctx context.Context, formType string, limit, offset int) (*RegistrationListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset, FormType: formType})
	if err != nil {
		return nil, err
	}
	return &RegistrationListResult{Items: res.Items, Total: res.Total}, nil
}

// tokenOK compares the presented token in constant time. An unset configured
// token disables intake entirely rather than opening it up.
func (s *submissionService) tokenOK(presented string) bool {
	if s.intakeToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(s.intakeToken)) == 1
}

// storeFiles sniffs and uploads each file. The sniffed content type is what
// gets stored, never the browser-reported one. A failed upload aborts the
// pipeline; files already stored stay behind as accepted orphans.
func (s *submissionService) storeFiles(ctx context.Context, files []FileInput) ([]model.StoredFile, error) {
	stored := make([]model.StoredFile, 0, len(files))
	for _, f := range files {
		head := make([]byte, validator.SniffLen)
		n, err := io.ReadFull(f.Content, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, &PersistenceError{Op: "read upload " + f.Field, Err: err}
		}
		head = head[:n]

		ct, verr := validator.CheckFileContent(f.Field, f.Size, head)
		if verr != nil {
			return nil, &FileConstraintError{Field: verr.Field, Reason: verr.Reason}
		}

		key := storage.UploadKey(f.Filename)
		body := io.MultiReader(bytes.NewReader(head), f.Content)
		info, err := s.store.Put(ctx, key, body, storage.PutObjectOptions{
			Size:        f.Size,
			ContentType: ct,
			Metadata:    map[string]string{"original-filename": f.Filename},
		})
		if err != nil {
			return nil, &PersistenceError{Op: "store upload " + f.Field, Err: err}
		}

		stored = append(stored, model.StoredFile{
			Field:            f.Field,
			Key:              info.Key,
			OriginalFilename: f.Filename,
			ContentType:      ct,
			Size:             info.Size,
		})
	}
	return stored, nil
}

// notifyBestEffort sends the acknowledgement and the internal copy. Failures
// are logged and never surfaced to the registrant.
func (s *submissionService) notifyBestEffort(ctx context.Context, reg *model.Registration) {
	if s.sender == nil {
		return
	}

	if to := reg.Meta["purchase_contact_email"]; to != "" {
		email, err := notify.ComposeAcknowledgement(reg)
		if err == nil {
			err = s.sender.Send(ctx, to, email, nil)
		}
		if err != nil {
			s.log.Warn("acknowledgement email failed",
				zap.String("registration_id", reg.ID),
				zap.Error(err),
			)
		}
	}

	if s.adminEmail == "" {
		return
	}

	internal := *reg
	internal.Files = s.presignAll(ctx, reg.Files)
	email, err := notify.ComposeInternal(&internal)
	if err == nil {
		err = s.sender.Send(ctx, s.adminEmail, email, s.fetchAttachments(ctx, reg.Files))
	}
	if err != nil {
		s.log.Warn("internal email failed",
			zap.String("registration_id", reg.ID),
			zap.Error(err),
		)
	}
}

// presignAll resolves download URLs for the internal email; files that fail
// to presign keep an empty URL and render as plain names.
func (s *submissionService) presignAll(ctx context.Context, files []model.StoredFile) []model.StoredFile {
	out := make([]model.StoredFile, len(files))
	copy(out, files)
	for i := range out {
		url, err := s.store.PresignGet(ctx, out[i].Key, presignExpiry)
		if err != nil {
			s.log.Warn("presign failed", zap.String("key", out[i].Key), zap.Error(err))
			continue
		}
		out[i].URL = url
	}
	return out
}

// fetchAttachments reads the stored uploads back for attaching to the internal
// email. Any read failure drops that attachment only.
func (s *submissionService) fetchAttachments(ctx context.Context, files []model.StoredFile) []notify.Attachment {
	var out []notify.Attachment
	for _, f := range files {
		rc, _, err := s.store.Get(ctx, f.Key)
		if err != nil {
			s.log.Warn("attachment fetch failed", zap.String("key", f.Key), zap.Error(err))
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			s.log.Warn("attachment read failed", zap.String("key", f.Key), zap.Error(err))
			continue
		}
		out = append(out, notify.Attachment{
			Filename:    f.OriginalFilename,
			ContentType: f.ContentType,
			Data:        data,
		})
	}
	return out
}

var markupPattern = regexp.MustCompile(`<[^>]*>`)

// sanitizeValue strips markup and control characters and trims whitespace,
// mirroring how untrusted form text is normalized before persistence.
func sanitizeValue(v string) string {
	v = markupPattern.ReplaceAllString(v, "")
	v = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, v)
	return strings.TrimSpace(v)
}

// sanitizeFields keeps only fields the form configuration knows about;
// unknown keys are dropped silently. Empty values disappear entirely.
func sanitizeFields(cfg form.Config, raw map[string][]string) map[string][]string {
	out := make(map[string][]string, len(raw))
	for name, values := range raw {
		f, idx := cfg.FieldByName(name)
		if idx == 0 || f.File {
			continue
		}
		var clean []string
		for _, v := range values {
			if sv := sanitizeValue(v); sv != "" {
				clean = append(clean, sv)
			}
		}
		if len(clean) == 0 {
			continue
		}
		if !f.Multi {
			clean = clean[:1]
		}
		out[name] = clean
	}
	return out
}

// pruneInactive drops values for conditional fields whose gate is not set to
// the activating answer, so stale values from a toggled gate never persist.
// Gate fields themselves are unconditional, so deletion order does not matter.
func pruneInactive(cfg form.Config, fields map[string][]string) {
	for name := range fields {
		f, _ := cfg.FieldByName(name)
		if !form.Active(f, fields) {
			delete(fields, name)
		}
	}
}

// activeFiles keeps one upload per known, currently active file field.
// Uploads for unknown fields or fields behind an inactive gate are discarded.
func activeFiles(cfg form.Config, fields map[string][]string, files []FileInput) []FileInput {
	seen := make(map[string]bool)
	var out []FileInput
	for _, fi := range files {
		f, idx := cfg.FieldByName(fi.Field)
		if idx == 0 || !f.File || seen[fi.Field] {
			continue
		}
		if !form.Active(f, fields) {
			continue
		}
		seen[fi.Field] = true
		out = append(out, fi)
	}
	return out
}

// validateFields re-runs the full form validation server-side: requiredness
// and format rules for every active field, including uploads.
func validateFields(cfg form.Config, fields map[string][]string, files []FileInput) []model.ValidationError {
	present := make(map[string]bool, len(files))
	for _, fi := range files {
		present[fi.Field] = true
	}

	var verrs []model.ValidationError
	for _, panel := range cfg.Panels {
		for _, f := range panel.Fields {
			if !form.Active(f, fields) {
				continue
			}
			if f.File {
				if f.Required && !present[f.Name] {
					verrs = append(verrs, model.ValidationError{Field: f.Name, Reason: "required"})
				}
				continue
			}
			values := fields[f.Name]
			if len(values) == 0 {
				if f.Required {
					verrs = append(verrs, model.ValidationError{Field: f.Name, Reason: "required"})
				}
				continue
			}
			for _, v := range values {
				if verr := validator.Check(f.Name, f.Kind, v); verr != nil {
					verrs = append(verrs, *verr)
					break
				}
			}
		}
	}
	return verrs
}

// title derives the record title from the organisation name, falling back to
// a labelled timestamp when it is absent.
func title(t model.FormType, fields map[string][]string, now time.Time) string {
	if v := fields["organisation_name"]; len(v) > 0 {
		return v[0]
	}
	return fmt.Sprintf("%s - %s", t.Label(), now.Format("2006-01-02 15:04:05"))
}

// flattenMeta joins multi-value fields with ", " for the flat metadata table.
func flattenMeta(fields map[string][]string) map[string]string {
	meta := make(map[string]string, len(fields))
	for name, values := range fields {
		meta[name] = strings.Join(values, ", ")
	}
	return meta
}
