package catalog

import (
	"context"
	"errors"
	"lecturebot/internal/models"
	"lecturebot/internal/testutil"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(raw string) (*Store, *testutil.MockBackend, *testutil.MockLogger) {
	backend := testutil.NewMockBackend(raw)
	logger := &testutil.MockLogger{}
	store := NewStore(backend, logger, testutil.NewMockMetrics()).(*Store)
	return store, backend, logger
}

func decodeStored(t *testing.T, backend *testutil.MockBackend) *models.Document {
	t.Helper()
	doc := models.NewDocument()
	require.NoError(t, json.Unmarshal([]byte(backend.Stored()), doc))
	return doc
}

func TestStore_LoadSeedsMissingCatalog(t *testing.T) {
	store, backend, _ := newTestStore("")

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(models.SeedSubjects), len(doc.SubjectNames()))
	assert.Equal(t, 1, backend.Writes, "seed is persisted immediately")

	stored := decodeStored(t, backend)
	assert.Equal(t, models.CurrentVersion, stored.Version)
	assert.ElementsMatch(t, models.SeedSubjects, stored.SubjectNames())
}

func TestStore_LoadMigratesAndPersists(t *testing.T) {
	store, backend, logger := newTestStore(`{"_stats":{"total_forwards":4},"A":{"thread_id":3,"lectures":{"x":1}}}`)

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Stats.TotalForwards)
	assert.Equal(t, 1, backend.Writes)
	assert.Equal(t, 1, logger.Count("warn"))

	stored := decodeStored(t, backend)
	assert.Equal(t, models.CurrentVersion, stored.Version)
	s, ok := stored.Subject("A")
	require.True(t, ok)
	assert.Equal(t, 1, s.DocumentLectures["x"])

	// A second load of the migrated blob writes nothing.
	_, err = store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, backend.Writes)
}

func TestStore_LoadVersionedKeepsLegacyLectures(t *testing.T) {
	store, backend, _ := newTestStore(`{"version":1,"stats":{"total_forwards":1},"subjects":{"A":{"lectures":{"Old":7},"document_lectures":{}}}}`)

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, backend.Writes)
	assert.Equal(t, 1, doc.EntryCount())

	s, ok := decodeStored(t, backend).Subject("A")
	require.True(t, ok)
	assert.Equal(t, map[string]int{"Old": 7}, s.DocumentLectures)
}

func TestStore_LoadCurrentDoesNotWrite(t *testing.T) {
	store, backend, _ := newTestStore(`{"version":2,"stats":{"total_forwards":0},"subjects":{"A":{"thread_id":null,"document_lectures":{},"media_lectures":{}}}}`)

	_, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, backend.Writes)
}

func TestStore_CorruptCatalog(t *testing.T) {
	store, _, _ := newTestStore(`{{{`)
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
}

func TestStore_ReadFailure(t *testing.T) {
	store, backend, _ := newTestStore("")
	backend.ReadErr = errors.New("disk gone")

	_, err := store.View(context.Background())
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
}

func TestStore_ViewReturnsCopy(t *testing.T) {
	store, _, _ := newTestStore("")
	ctx := context.Background()

	doc, err := store.View(ctx)
	require.NoError(t, err)
	delete(doc.Subjects, "Pharmacology")

	again, err := store.View(ctx)
	require.NoError(t, err)
	assert.Contains(t, again.Subjects, "Pharmacology")
}

func TestStore_UpdatePersists(t *testing.T) {
	store, backend, _ := newTestStore("")
	ctx := context.Background()

	updated, err := store.Update(ctx, func(doc *models.Document) error {
		doc.Subjects["Pharmacology"].DocumentLectures["Intro"] = 10
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.EntryCount())
	assert.Equal(t, 1, store.EntryCount())
	assert.Equal(t, len(models.SeedSubjects), store.SubjectCount())

	stored := decodeStored(t, backend)
	assert.Equal(t, 10, stored.Subjects["Pharmacology"].DocumentLectures["Intro"])
}

func TestStore_UpdateErrorKeepsState(t *testing.T) {
	store, backend, _ := newTestStore("")
	ctx := context.Background()
	_, err := store.Load(ctx)
	require.NoError(t, err)
	writes := backend.Writes
	rev := store.Revision()

	_, err = store.Update(ctx, func(doc *models.Document) error {
		delete(doc.Subjects, "Pharmacology")
		return models.ErrNotFound
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, writes, backend.Writes)
	assert.Equal(t, rev, store.Revision())

	doc, err := store.View(ctx)
	require.NoError(t, err)
	assert.Contains(t, doc.Subjects, "Pharmacology")
}

func TestStore_WriteFailureKeepsState(t *testing.T) {
	store, backend, logger := newTestStore("")
	ctx := context.Background()
	_, err := store.Load(ctx)
	require.NoError(t, err)
	before := backend.Stored()

	backend.SetWriteErr(errors.New("disk full"))
	_, err = store.Update(ctx, func(doc *models.Document) error {
		delete(doc.Subjects, "Pharmacology")
		return nil
	})
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	assert.Equal(t, before, backend.Stored())
	assert.Equal(t, 1, logger.Count("error"))

	doc, err := store.View(ctx)
	require.NoError(t, err)
	assert.Contains(t, doc.Subjects, "Pharmacology", "in-memory state is not ahead of storage")
}

func TestStore_ConcurrentUpdatesAreSerialized(t *testing.T) {
	store, backend, _ := newTestStore("")
	ctx := context.Background()

	const workers = 40
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, func(doc *models.Document) error {
				doc.Stats.TotalForwards++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, decodeStored(t, backend).Stats.TotalForwards)
}

func TestStore_ConcurrentDeletesBothLand(t *testing.T) {
	store, backend, _ := newTestStore("")
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, name := range []string{"Pharmacology", "Microbiology"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := store.Update(ctx, func(doc *models.Document) error {
				delete(doc.Subjects, name)
				return nil
			})
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	stored := decodeStored(t, backend)
	assert.NotContains(t, stored.Subjects, "Pharmacology")
	assert.NotContains(t, stored.Subjects, "Microbiology")
	assert.Len(t, stored.Subjects, len(models.SeedSubjects)-2)
}

func TestStore_SaveReplacesDocument(t *testing.T) {
	store, backend, _ := newTestStore("")
	ctx := context.Background()

	doc := models.NewDocument()
	doc.Subjects["Only"] = models.NewSubject()
	require.NoError(t, store.Save(ctx, doc))

	assert.Equal(t, []string{"Only"}, decodeStored(t, backend).SubjectNames())
	assert.Equal(t, 1, store.SubjectCount())
}

func TestStore_CountsBeforeLoad(t *testing.T) {
	store, _, _ := newTestStore("")
	assert.Equal(t, 0, store.SubjectCount())
	assert.Equal(t, 0, store.EntryCount())
	assert.Equal(t, uint64(0), store.Revision())
}
