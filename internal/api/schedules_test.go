package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatClockTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"09:00", "9:00 AM"},
		{"17:30", "5:30 PM"},
		{"00:00", "12:00 AM"},
		{"12:00", "12:00 PM"},
		{"23:59", "11:59 PM"},
		{"9:00 AM", "9:00 AM"}, // already wire-formatted
		{"5:30 PM", "5:30 PM"},
		{"", ""},
		{"not-a-time", "not-a-time"}, // left for the server to reject
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatClockTime(tt.in), "input %q", tt.in)
	}
}

func TestCreateScheduleFormatsTimes(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"data":{"id":"s1","dayOfWeek":1,"startTime":"9:00 AM","endTime":"5:30 PM"}}`))
	}))

	_, err := client.CreateSchedule(context.Background(), ScheduleInput{
		DoctorID:  "d1",
		DayOfWeek: 1,
		StartTime: "09:00",
		EndTime:   "17:30",
	})
	require.NoError(t, err)

	assert.Equal(t, "9:00 AM", gotBody["startTime"])
	assert.Equal(t, "5:30 PM", gotBody["endTime"])
	assert.Equal(t, float64(1), gotBody["dayOfWeek"])
}

func TestCreateExceptionOmitsEmptyScheduleID(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"data":{"id":"e1"}}`))
	}))

	_, err := client.CreateScheduleException(context.Background(), ExceptionInput{
		DoctorID:    "d1",
		Date:        "2026-09-15",
		IsAvailable: false,
		Reason:      "conference",
	})
	require.NoError(t, err)

	_, present := gotBody["scheduleId"]
	assert.False(t, present, "empty scheduleId must be omitted from the body")
	assert.Equal(t, "d1", gotBody["doctorId"])
}
