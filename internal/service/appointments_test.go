package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/avicena/avicena/internal/api"
	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/log"
	"github.com/avicena/avicena/internal/query"
	"github.com/avicena/avicena/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusUpdateRefetchesOnlyThatPatient(t *testing.T) {
	var listCallsA, listCallsB atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/doctor-patients/pa/appointments", func(w http.ResponseWriter, r *http.Request) {
		listCallsA.Add(1)
		fmt.Fprint(w, `{"data":{"items":[{"id":"42","status":"CONFIRMED"}],"pagination":{"page":1,"limit":10,"total":1,"totalPages":1}}}`)
	})
	mux.HandleFunc("GET /admin/doctor-patients/pb/appointments", func(w http.ResponseWriter, r *http.Request) {
		listCallsB.Add(1)
		fmt.Fprint(w, `{"data":{"items":[],"pagination":{"page":1,"limit":10,"total":0,"totalPages":0}}}`)
	})
	mux.HandleFunc("PATCH /admin/doctor-appointments/42/status", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"id":"42","status":"COMPLETED","patient":{"id":"pa"}}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	sessions, err := session.NewStore("")
	require.NoError(t, err)
	require.NoError(t, sessions.Set("tok", nil))

	client := api.NewClient(srv.URL, sessions, log.NullLogger())
	cache := query.NewStore(log.NullLogger())
	patients := NewPatientService(client, cache, log.NullLogger())
	appointments := NewAppointmentService(client, cache, log.NullLogger())

	ctx := context.Background()

	// Warm both per-patient appointment caches
	_, err = patients.Appointments(ctx, "pa", api.ListParams{})
	require.NoError(t, err)
	_, err = patients.Appointments(ctx, "pb", api.ListParams{})
	require.NoError(t, err)

	// Completing patient A's appointment names the patient in the
	// response, so only A's cached appointment list goes stale.
	apt, err := appointments.UpdateStatus(ctx, "42", domain.AppointmentCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentCompleted, apt.Status)

	_, err = patients.Appointments(ctx, "pa", api.ListParams{})
	require.NoError(t, err)
	_, err = patients.Appointments(ctx, "pb", api.ListParams{})
	require.NoError(t, err)

	assert.Equal(t, int32(2), listCallsA.Load(), "patient A must refetch")
	assert.Equal(t, int32(1), listCallsB.Load(), "patient B must stay cached")
}

func TestLogoutDropsCacheAndSession(t *testing.T) {
	var listCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/doctor-appointments/", func(w http.ResponseWriter, r *http.Request) {
		listCalls.Add(1)
		fmt.Fprint(w, `{"data":[],"pagination":{"page":1,"limit":10,"total":0,"totalPages":0}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	sessions, err := session.NewStore("")
	require.NoError(t, err)
	require.NoError(t, sessions.Set("tok", &domain.User{ID: "u1"}))

	client := api.NewClient(srv.URL, sessions, log.NullLogger())
	cache := query.NewStore(log.NullLogger())
	appointments := NewAppointmentService(client, cache, log.NullLogger())
	sessionSvc := NewSessionService(client, sessions, cache, log.NullLogger())

	ctx := context.Background()

	_, err = appointments.List(ctx, api.AppointmentListParams{})
	require.NoError(t, err)
	_, err = appointments.List(ctx, api.AppointmentListParams{})
	require.NoError(t, err)
	require.Equal(t, int32(1), listCalls.Load())

	require.NoError(t, sessionSvc.Logout())
	assert.False(t, sessionSvc.LoggedIn())
	assert.Nil(t, sessionSvc.CurrentUser())

	// A post-logout read starts from an empty cache
	_, err = appointments.List(ctx, api.AppointmentListParams{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), listCalls.Load())
}
