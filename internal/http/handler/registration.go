package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kavirajan452/poel-step-registeration-form/internal/model"
	"github.com/kavirajan452/poel-step-registeration-form/internal/service"
)

// intakeTokenHeader carries the shared intake token; the form field
// intake_token is accepted as a fallback for plain HTML clients.
const intakeTokenHeader = "X-Intake-Token"

// SubmitRegistration accepts a multipart registration submission and runs it
// through the intake pipeline.
func SubmitRegistration(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mf, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "multipart form expected")
		}

		token := c.Get(intakeTokenHeader)
		if token == "" {
			if v := mf.Value["intake_token"]; len(v) > 0 {
				token = v[0]
			}
		}

		var formType string
		if v := mf.Value["form_type"]; len(v) > 0 {
			formType = v[0]
		}

		in := service.SubmitInput{
			Token:    token,
			FormType: model.FormType(formType),
			Fields:   mf.Value,
		}
		for field, headers := range mf.File {
			for _, fh := range headers {
				f, err := fh.Open()
				if err != nil {
					return writeError(c, fiber.StatusBadRequest, "cannot read uploaded file")
				}
				defer f.Close()
				in.Files = append(in.Files, service.FileInput{
					Field:        field,
					Filename:     fh.Filename,
					ReportedType: fh.Header.Get("Content-Type"),
					Size:         fh.Size,
					Content:      f,
				})
			}
		}

		reg, err := svc.Submit(c.UserContext(), in)
		if err != nil {
			return submitError(c, err)
		}

		return c.JSON(fiber.Map{
			"success":   true,
			"message":   "registration received",
			"record_id": reg.ID,
		})
	}
}

// submitError maps pipeline errors onto the response contract.
func submitError(c *fiber.Ctx, err error) error {
	var verrs service.ValidationErrors
	var fcErr *service.FileConstraintError
	var pErr *service.PersistenceError

	switch {
	case errors.Is(err, service.ErrTokenInvalid):
		return writeError(c, fiber.StatusUnauthorized, "invalid intake token")
	case errors.Is(err, service.ErrFormTypeInvalid):
		return writeError(c, fiber.StatusBadRequest, "unknown form type")
	case errors.As(err, &verrs):
		return writeFieldErrors(c, fiber.StatusUnprocessableEntity, "validation failed", verrs)
	case errors.As(err, &fcErr):
		return writeFieldErrors(c, fiber.StatusUnprocessableEntity, "file rejected",
			[]model.ValidationError{{Field: fcErr.Field, Reason: fcErr.Reason}})
	case errors.As(err, &pErr):
		return writeError(c, fiber.StatusInternalServerError, "internal server error")
	default:
		return writeError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

// GetRegistration returns one registration with its metadata and file
// references.
func GetRegistration(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid id format")
		}
		reg, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "registration not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(reg)
	}
}

// ListRegistrations returns a paginated list, optionally filtered by
// form_type.
func ListRegistrations(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid offset")
		}
		formType := c.Query("form_type")
		if formType != "" && !model.FormType(formType).Valid() {
			return writeError(c, fiber.StatusBadRequest, "unknown form type")
		}

		res, err := svc.List(c.UserContext(), formType, limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(res)
	}
}
