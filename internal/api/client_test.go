package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/log"
	"github.com/avicena/avicena/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sessions, err := session.NewStore("")
	require.NoError(t, err)

	return NewClient(srv.URL, sessions, log.NullLogger()), sessions
}

func TestBearerHeaderInjection(t *testing.T) {
	var gotAuth string
	client, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":{"total":1,"active":1,"inactive":0}}`))
	}))

	// No token stored: header must be absent
	_, err := client.GetDoctorStats(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)

	// Token stored: header must carry it
	require.NoError(t, sessions.Set("tok-123", &domain.User{ID: "u1"}))
	_, err = client.GetDoctorStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestLoginSentWithoutBearer(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "staff@clinic.test", body["email"])

		w.Write([]byte(`{"token":"tok-9","user":{"id":"u1","email":"staff@clinic.test"}}`))
	}))

	result, err := client.Login(context.Background(), "staff@clinic.test", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-9", result.Token)
	require.NotNil(t, result.User)
	assert.Equal(t, "u1", result.User.ID)
}

func TestQueryParamOmission(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":[],"pagination":{"page":1,"limit":10,"total":0,"totalPages":0}}`))
	}))

	// Empty filters are omitted entirely; page/limit get their defaults
	_, err := client.ListAppointments(context.Background(), AppointmentListParams{Status: ""})
	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "status")
	assert.NotContains(t, gotQuery, "search")
	assert.NotContains(t, gotQuery, "timeFilter")
	assert.Contains(t, gotQuery, "page=1")
	assert.Contains(t, gotQuery, "limit=10")

	// Set filters appear verbatim
	_, err = client.ListAppointments(context.Background(), AppointmentListParams{
		Page:   2,
		Limit:  25,
		Status: domain.AppointmentConfirmed,
	})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "status=CONFIRMED")
	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "limit=25")
}

func TestScheduleFilterZeroValues(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":[],"pagination":{}}`))
	}))

	sunday := 0
	online := false
	_, err := client.ListSchedules(context.Background(), ScheduleListParams{
		DayOfWeek: &sunday,
		IsOnline:  &online,
	})
	require.NoError(t, err)

	// Zero is meaningful for these filters and must survive encoding
	assert.Contains(t, gotQuery, "dayOfWeek=0")
	assert.Contains(t, gotQuery, "isOnline=false")

	// Unset pointers are omitted
	_, err = client.ListSchedules(context.Background(), ScheduleListParams{})
	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "dayOfWeek")
	assert.NotContains(t, gotQuery, "isOnline")
	assert.NotContains(t, gotQuery, "isActive")
}

func TestUnauthorizedTeardown(t *testing.T) {
	client, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}))

	require.NoError(t, sessions.Set("stale-token", &domain.User{ID: "u1"}))

	var redirected atomic.Bool
	client.OnUnauthorized(func() { redirected.Store(true) })

	_, err := client.ListClinics(context.Background(), ListParams{})

	// The error still reaches the caller
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	// Session is purged and the redirect callback has fired
	assert.Empty(t, sessions.Token())
	assert.Nil(t, sessions.User())
	assert.True(t, redirected.Load())
}

func TestNoRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	}))

	_, err := client.ListDoctors(context.Background(), ListParams{})
	require.Error(t, err)

	apiErr, ok := domain.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Message)

	// Exactly one attempt, no silent retry
	assert.Equal(t, int32(1), calls.Load())
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	sessions, err := session.NewStore("")
	require.NoError(t, err)
	client := NewClient(srv.URL, sessions, log.NullLogger())
	srv.Close() // Requests now fail before reaching any server

	_, err = client.GetClinic(context.Background(), "7")
	require.Error(t, err)
	assert.True(t, domain.IsTransport(err))
	_, isAPI := domain.AsAPIError(err)
	assert.False(t, isAPI)
}

func TestValidationErrorsSurfacedPerField(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"validation failed","errors":[
			{"field":"translations.0.name","message":"name is required"},
			{"field":"email","message":"invalid email"}
		]}`))
	}))

	_, err := client.CreateClinic(context.Background(), ClinicInput{})
	require.Error(t, err)

	msgs := domain.FieldMessages(err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "name is required", msgs["translations.0.name"])
	assert.Equal(t, "invalid email", msgs["email"])
}

func TestNotFoundSentinel(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"clinic not found"}`))
	}))

	_, err := client.GetClinic(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestFlatListEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"c1","email":"a@b.c"},{"id":"c2","email":"d@e.f"}],
			"pagination":{"page":1,"limit":10,"total":2,"totalPages":1}}`))
	}))

	page, err := client.ListClinics(context.Background(), ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "c1", page.Items[0].ID)
	assert.Equal(t, 2, page.Pagination.Total)
}

func TestNestedListEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"items":[{"id":"p1","firstName":"Ada"}],
			"pagination":{"page":3,"limit":10,"total":21,"totalPages":3}}}`))
	}))

	page, err := client.ListPatients(context.Background(), ListParams{Page: 3})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Ada", page.Items[0].FirstName)
	assert.Equal(t, 3, page.Pagination.Page)
	assert.Equal(t, 21, page.Pagination.Total)
}

func TestUpdateAppointmentStatusRequest(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		body, _ := json.Marshal(decodeBody(t, r))
		gotBody = string(body)
		w.Write([]byte(`{"data":{"id":"42","status":"COMPLETED"}}`))
	}))

	apt, err := client.UpdateAppointmentStatus(context.Background(), "42", domain.AppointmentCompleted)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/admin/doctor-appointments/42/status", gotPath)
	assert.JSONEq(t, `{"status":"COMPLETED"}`, gotBody)
	assert.Equal(t, domain.AppointmentCompleted, apt.Status)
}

func TestUploadFile(t *testing.T) {
	client, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/file/upload", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		assert.Equal(t, "Bearer tok-up", r.Header.Get("Authorization"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "photo.jpg", header.Filename)

		w.Write([]byte(`{"data":{"url":"https://cdn.example.com/photo.jpg"}}`))
	}))

	require.NoError(t, sessions.Set("tok-up", nil))

	uploaded, err := client.UploadFile(context.Background(), "photo.jpg", strings.NewReader("jpegbytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/photo.jpg", uploaded.URL)
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
	return m
}
