package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kavirajan452/poel-step-registeration-form/internal/model"
	"github.com/kavirajan452/poel-step-registeration-form/internal/service"
	svcMocks "github.com/kavirajan452/poel-step-registeration-form/internal/service/mocks"
)

func newTestApp(subSvc service.SubmissionService, locSvc service.LocationService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, nil, subSvc, locSvc)
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, data := range files {
		fw, err := w.CreateFormFile(field, field+".pdf")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestSubmitRegistration_HappyPath(t *testing.T) {
	subSvc := new(svcMocks.MockSubmissionService)
	app := newTestApp(subSvc, new(svcMocks.MockLocationService))

	subSvc.On("Submit", mock.Anything, mock.MatchedBy(func(in service.SubmitInput) bool {
		return in.Token == "secret" &&
			in.FormType == model.FormTypeVendor &&
			in.Fields["organisation_name"][0] == "Acme Co" &&
			len(in.Files) == 1 &&
			in.Files[0].Field == "pan_card"
	})).Return(&model.Registration{ID: "rec-1", Title: "Acme Co"}, nil)

	buf, ct := multipartBody(t,
		map[string]string{"form_type": "vendor", "organisation_name": "Acme Co"},
		map[string][]byte{"pan_card": []byte("%PDF-1.4 data")},
	)
	req := httptest.NewRequest(http.MethodPost, "/registrations", buf)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("X-Intake-Token", "secret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "rec-1", body["record_id"])
}

func TestSubmitRegistration_TokenFromFormField(t *testing.T) {
	subSvc := new(svcMocks.MockSubmissionService)
	app := newTestApp(subSvc, new(svcMocks.MockLocationService))

	subSvc.On("Submit", mock.Anything, mock.MatchedBy(func(in service.SubmitInput) bool {
		return in.Token == "secret"
	})).Return(&model.Registration{ID: "rec-2"}, nil)

	buf, ct := multipartBody(t,
		map[string]string{"form_type": "vendor", "intake_token": "secret"},
		nil,
	)
	req := httptest.NewRequest(http.MethodPost, "/registrations", buf)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSubmitRegistration_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{"invalid token", service.ErrTokenInvalid, http.StatusUnauthorized},
		{"unknown form type", service.ErrFormTypeInvalid, http.StatusBadRequest},
		{"validation failure", service.ValidationErrors{{Field: "ifsc", Reason: "invalid IFSC code"}}, http.StatusUnprocessableEntity},
		{"file rejected", &service.FileConstraintError{Field: "pan_card", Reason: "file size must not exceed 2MB"}, http.StatusUnprocessableEntity},
		{"persistence failure", &service.PersistenceError{Op: "create registration", Err: errors.New("db down")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subSvc := new(svcMocks.MockSubmissionService)
			app := newTestApp(subSvc, new(svcMocks.MockLocationService))
			subSvc.On("Submit", mock.Anything, mock.Anything).Return(nil, tt.svcErr)

			buf, ct := multipartBody(t, map[string]string{"form_type": "vendor"}, nil)
			req := httptest.NewRequest(http.MethodPost, "/registrations", buf)
			req.Header.Set("Content-Type", ct)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestSubmitRegistration_ValidationErrorsListed(t *testing.T) {
	subSvc := new(svcMocks.MockSubmissionService)
	app := newTestApp(subSvc, new(svcMocks.MockLocationService))
	subSvc.On("Submit", mock.Anything, mock.Anything).
		Return(nil, service.ValidationErrors{
			{Field: "pan_number", Reason: "required"},
			{Field: "ifsc", Reason: "invalid IFSC code"},
		})

	buf, ct := multipartBody(t, map[string]string{"form_type": "vendor"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/registrations", buf)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeBody(t, resp)
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 2)
	first := errs[0].(map[string]any)
	assert.Equal(t, "pan_number", first["field"])
	assert.Equal(t, "required", first["reason"])
}

func TestSubmitRegistration_RequiresMultipart(t *testing.T) {
	subSvc := new(svcMocks.MockSubmissionService)
	app := newTestApp(subSvc, new(svcMocks.MockLocationService))

	req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(`{"form_type":"vendor"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	subSvc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestGetRegistration(t *testing.T) {
	const validID = "7a9e2aa6-8d84-4d2f-9a57-2f3bb0df1427"

	t.Run("found", func(t *testing.T) {
		subSvc := new(svcMocks.MockSubmissionService)
		app := newTestApp(subSvc, new(svcMocks.MockLocationService))
		subSvc.On("Get", mock.Anything, validID).
			Return(&model.Registration{ID: validID, Title: "Acme Co"}, nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/registrations/"+validID, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Acme Co", body["title"])
	})

	t.Run("invalid id", func(t *testing.T) {
		app := newTestApp(new(svcMocks.MockSubmissionService), new(svcMocks.MockLocationService))
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/registrations/not-a-uuid", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		subSvc := new(svcMocks.MockSubmissionService)
		app := newTestApp(subSvc, new(svcMocks.MockLocationService))
		subSvc.On("Get", mock.Anything, validID).Return(nil, service.ErrNotFound)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/registrations/"+validID, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListRegistrations(t *testing.T) {
	t.Run("filtered list", func(t *testing.T) {
		subSvc := new(svcMocks.MockSubmissionService)
		app := newTestApp(subSvc, new(svcMocks.MockLocationService))
		subSvc.On("List", mock.Anything, "vendor", 5, 10).
			Return(&service.RegistrationListResult{
				Items: []model.Registration{{ID: "rec-1"}},
				Total: 1,
			}, nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet,
			"/registrations?form_type=vendor&limit=5&offset=10", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, float64(1), body["total"])
	})

	t.Run("invalid limit", func(t *testing.T) {
		app := newTestApp(new(svcMocks.MockSubmissionService), new(svcMocks.MockLocationService))
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/registrations?limit=abc", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown form type filter", func(t *testing.T) {
		app := newTestApp(new(svcMocks.MockSubmissionService), new(svcMocks.MockLocationService))
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/registrations?form_type=partner", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLocationEndpoints(t *testing.T) {
	t.Run("countries", func(t *testing.T) {
		locSvc := new(svcMocks.MockLocationService)
		app := newTestApp(new(svcMocks.MockSubmissionService), locSvc)
		locSvc.On("Countries", mock.Anything).Return([]string{"India"}, nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/locations/countries", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, []any{"India"}, body["countries"])
	})

	t.Run("states", func(t *testing.T) {
		locSvc := new(svcMocks.MockLocationService)
		app := newTestApp(new(svcMocks.MockSubmissionService), locSvc)
		locSvc.On("States", mock.Anything, "India").Return([]string{"Karnataka", "Kerala"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/locations/states",
			strings.NewReader(`{"country":"India"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, []any{"Karnataka", "Kerala"}, body["states"])
	})

	t.Run("cities empty for unknown state", func(t *testing.T) {
		locSvc := new(svcMocks.MockLocationService)
		app := newTestApp(new(svcMocks.MockSubmissionService), locSvc)
		locSvc.On("Cities", mock.Anything, "Atlantis").Return([]string{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/locations/cities",
			strings.NewReader(`{"state":"Atlantis"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, []any{}, body["cities"])
	})

	t.Run("lookup failure", func(t *testing.T) {
		locSvc := new(svcMocks.MockLocationService)
		app := newTestApp(new(svcMocks.MockSubmissionService), locSvc)
		locSvc.On("Countries", mock.Anything).Return(nil, errors.New("db down"))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/locations/countries", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		dbMock.ExpectPing()

		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
		RegisterRoutes(app, db, new(svcMocks.MockSubmissionService), new(svcMocks.MockLocationService))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("db down", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		dbMock.ExpectPing().WillReturnError(errors.New("connection refused"))

		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
		RegisterRoutes(app, db, new(svcMocks.MockSubmissionService), new(svcMocks.MockLocationService))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("liveness", func(t *testing.T) {
		app := newTestApp(new(svcMocks.MockSubmissionService), new(svcMocks.MockLocationService))
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
