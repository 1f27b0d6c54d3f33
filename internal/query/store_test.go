package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avicena/avicena/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCachesFreshResults(t *testing.T) {
	s := NewStore(log.NullLogger())
	key := NewKey("clinics.list", map[string]int{"page": 1})

	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "result", nil
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch(context.Background(), s, key, []Tag{TagClinics}, fetch)
		require.NoError(t, err)
		assert.Equal(t, "result", got)
	}

	assert.Equal(t, int32(1), calls.Load(), "fresh entries must not refetch")
}

func TestConcurrentIdenticalReadsShareOneCall(t *testing.T) {
	s := NewStore(log.NullLogger())
	key := NewKey("doctors.list", nil)

	var calls atomic.Int32
	fetch := func(ctx context.Context) (int, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond) // Hold the entry pending
		return 7, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := Fetch(context.Background(), s, key, []Tag{TagDoctors}, fetch)
			assert.NoError(t, err)
			results[i] = got
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "identical in-flight reads must join")
	for _, got := range results {
		assert.Equal(t, 7, got)
	}
}

func TestInvalidationForcesRefetch(t *testing.T) {
	s := NewStore(log.NullLogger())
	key := NewKey("patients.list", map[string]int{"page": 1})

	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "page", nil
	}

	_, err := Fetch(context.Background(), s, key, []Tag{TagPatients}, fetch)
	require.NoError(t, err)

	// Unrelated tag: still cached
	s.Invalidate(TagClinics)
	_, err = Fetch(context.Background(), s, key, []Tag{TagPatients}, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	// Matching tag: next read hits the network
	s.Invalidate(TagPatients)
	_, err = Fetch(context.Background(), s, key, []Tag{TagPatients}, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestMutateInvalidatesOnlyOnSuccess(t *testing.T) {
	s := NewStore(log.NullLogger())
	key := NewKey("appointments.list", nil)

	var reads atomic.Int32
	read := func(ctx context.Context) (string, error) {
		reads.Add(1)
		return "appointments", nil
	}

	_, err := Fetch(context.Background(), s, key, []Tag{TagAppointments}, read)
	require.NoError(t, err)

	// Failed write: cache untouched
	_, err = Mutate(context.Background(), s, func(ctx context.Context) (string, error) {
		return "", errors.New("rejected")
	}, TagAppointments)
	require.Error(t, err)

	_, err = Fetch(context.Background(), s, key, []Tag{TagAppointments}, read)
	require.NoError(t, err)
	assert.Equal(t, int32(1), reads.Load())

	// Successful write: dependent read refetches
	_, err = Mutate(context.Background(), s, func(ctx context.Context) (string, error) {
		return "ok", nil
	}, TagAppointments)
	require.NoError(t, err)

	_, err = Fetch(context.Background(), s, key, []Tag{TagAppointments}, read)
	require.NoError(t, err)
	assert.Equal(t, int32(2), reads.Load())
}

func TestFailedFetchReportsOnceThenRetriesOnNextCall(t *testing.T) {
	s := NewStore(log.NullLogger())
	key := NewKey("clinics.get", "7")

	var calls atomic.Int32
	boom := errors.New("server unreachable")
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "", boom
	}

	_, err := Fetch(context.Background(), s, key, []Tag{TagClinics}, fetch)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), calls.Load(), "a failure is reported once, never retried internally")

	// The caller re-invoking is a fresh attempt
	_, err = Fetch(context.Background(), s, key, []Tag{TagClinics}, fetch)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPerPatientSubTag(t *testing.T) {
	s := NewStore(log.NullLogger())

	var callsA, callsB atomic.Int32
	fetchA := func(ctx context.Context) (string, error) {
		callsA.Add(1)
		return "appointments-a", nil
	}
	fetchB := func(ctx context.Context) (string, error) {
		callsB.Add(1)
		return "appointments-b", nil
	}

	keyA := NewKey("patients.appointments", "patient-a")
	keyB := NewKey("patients.appointments", "patient-b")
	tagsA := []Tag{TagPatientAppointments, PatientTag("patient-a")}
	tagsB := []Tag{TagPatientAppointments, PatientTag("patient-b")}

	_, err := Fetch(context.Background(), s, keyA, tagsA, fetchA)
	require.NoError(t, err)
	_, err = Fetch(context.Background(), s, keyB, tagsB, fetchB)
	require.NoError(t, err)

	// Targeted invalidation only refetches patient A
	s.Invalidate(PatientTag("patient-a"))
	_, err = Fetch(context.Background(), s, keyA, tagsA, fetchA)
	require.NoError(t, err)
	_, err = Fetch(context.Background(), s, keyB, tagsB, fetchB)
	require.NoError(t, err)
	assert.Equal(t, int32(2), callsA.Load())
	assert.Equal(t, int32(1), callsB.Load())

	// The broad tag still sweeps everyone
	s.Invalidate(TagPatientAppointments)
	_, err = Fetch(context.Background(), s, keyA, tagsA, fetchA)
	require.NoError(t, err)
	_, err = Fetch(context.Background(), s, keyB, tagsB, fetchB)
	require.NoError(t, err)
	assert.Equal(t, int32(3), callsA.Load())
	assert.Equal(t, int32(2), callsB.Load())
}

func TestSubscriptionKeepsEntryAlive(t *testing.T) {
	s := NewStore(log.NullLogger())
	s.SetGCGrace(20 * time.Millisecond)
	key := NewKey("doctors.stats", nil)

	release := s.Subscribe(key)

	_, err := Fetch(context.Background(), s, key, []Tag{TagDoctors}, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)

	// Subscribed: survives well past the grace period
	time.Sleep(60 * time.Millisecond)
	_, _, ok := s.Status(key)
	assert.True(t, ok)

	// Released: collected after the grace period
	release()
	release() // Double release is a no-op
	time.Sleep(60 * time.Millisecond)
	_, _, ok = s.Status(key)
	assert.False(t, ok, "unsubscribed entry must be collected")
}

func TestWatchReceivesInvalidatedTags(t *testing.T) {
	s := NewStore(log.NullLogger())

	ch := make(chan Tag, 4)
	s.Watch(ch)

	s.Invalidate(TagClinics, TagDoctors)

	got := map[Tag]bool{<-ch: true, <-ch: true}
	assert.True(t, got[TagClinics])
	assert.True(t, got[TagDoctors])
}

func TestKeySerializationIsStable(t *testing.T) {
	type params struct {
		Page   int
		Search string
	}

	k1 := NewKey("clinics.list", params{Page: 1, Search: "cardio"})
	k2 := NewKey("clinics.list", params{Page: 1, Search: "cardio"})
	k3 := NewKey("clinics.list", params{Page: 2, Search: "cardio"})

	assert.Equal(t, k1, k2, "identical arguments must share a cache entry")
	assert.NotEqual(t, k1, k3, "different arguments must not collide")
}
