package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/storeit/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSweeperFixture(t *testing.T) (*UploadSweeper, *memBackend, *memStore) {
	t.Helper()
	b := newMemBackend()
	store := newMemStore()
	db, _ := newSQLMockDB(t)
	s := NewUploadSweeper(db, &fakeRepoManager{b}, store, nopLogger{}, time.Hour, time.Minute)
	s.now = func() time.Time { return b.now.Add(2 * time.Hour) }
	return s, b, store
}

func addPending(b *memBackend, id string, created time.Time) {
	b.pending[id] = &models.PendingUpload{BucketFileID: id, OwnerID: "u1", CreatedAt: created}
}

func TestSweep_DeletesUnreferencedObjects(t *testing.T) {
	s, b, store := newSweeperFixture(t)
	store.objects["obj-1"] = []byte("x")
	addPending(b, "obj-1", b.now)

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, store.count())
	assert.Empty(t, b.pending)
}

func TestSweep_KeepsReferencedObjects(t *testing.T) {
	s, b, store := newSweeperFixture(t)
	store.objects["obj-1"] = []byte("x")
	b.files = append(b.files, &models.File{ID: "f-1", BucketFileID: "obj-1"})
	addPending(b, "obj-1", b.now)

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, store.count())
	assert.Empty(t, store.deletes)
	assert.Empty(t, b.pending)
}

func TestSweep_SkipsRecordsWithinTTL(t *testing.T) {
	s, b, store := newSweeperFixture(t)
	store.objects["fresh"] = []byte("x")
	addPending(b, "fresh", b.now.Add(90*time.Minute))

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, b.pending, "fresh")
	assert.Equal(t, 1, store.count())
}

func TestSweep_StoreFailureRetriesLater(t *testing.T) {
	s, b, store := newSweeperFixture(t)
	store.objects["obj-1"] = []byte("x")
	store.deleteErr = errBoom{}
	addPending(b, "obj-1", b.now)

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, b.pending, "obj-1")

	store.deleteErr = nil
	n, err = s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, b.pending)
}

func TestSweep_FailedRecordsQueueBehindOthers(t *testing.T) {
	s, b, store := newSweeperFixture(t)
	store.deleteErr = errBoom{}
	addPending(b, "obj-old", b.now.Add(-time.Hour))

	_, err := s.Sweep(context.Background())
	require.NoError(t, err)
	require.Contains(t, b.pending, "obj-old")
	assert.Equal(t, 1, b.pending["obj-old"].Attempts)

	addPending(b, "obj-new", b.now)
	next, err := (&memUploads{b}).ListOlderThan(context.Background(), s.now().Add(-s.ttl), 1)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, "obj-new", next[0].BucketFileID)

	store.deleteErr = nil
	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, b.pending)
}

func TestSweep_LookupFailureKeepsRecord(t *testing.T) {
	s, b, store := newSweeperFixture(t)
	store.objects["obj-1"] = []byte("x")
	b.existsErr = errBoom{}
	addPending(b, "obj-1", b.now)

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, b.pending, "obj-1")
	assert.Equal(t, 1, b.pending["obj-1"].Attempts)
	assert.Empty(t, store.deletes)
}

func TestSweep_ListError(t *testing.T) {
	s, b, _ := newSweeperFixture(t)
	b.pendingListErr = errBoom{}

	_, err := s.Sweep(context.Background())
	assert.ErrorIs(t, err, errBoom{})
}

func TestRun_StopsOnCancel(t *testing.T) {
	s, _, _ := newSweeperFixture(t)
	s.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRun_DisabledInterval(t *testing.T) {
	s, _, _ := newSweeperFixture(t)
	s.interval = 0

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run with zero interval should return immediately")
	}
}
