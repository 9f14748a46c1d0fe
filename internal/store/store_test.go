package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"acqflow/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest(id string) *schema.AcquisitionRequest {
	return &schema.AcquisitionRequest{
		ID:        id,
		Title:     "Case management licenses",
		Requestor: "jdoe",
		Status:    schema.RequestIntake,
		Answers: schema.IntakeAnswer{
			NeedType:       schema.NeedNew,
			Situation:      schema.SituationNoSpecificVendor,
			BuyCategory:    schema.BuySoftware,
			EstimatedValue: 200000,
		},
		CreatedAt: time.Now().UTC(),
	}
}

// Both backends must satisfy the same contract.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestCreateAndGetRequest(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			req := testRequest("REQ-aaa")
			require.NoError(t, s.CreateRequest(req))
			assert.Equal(t, 0, req.Version)

			got, err := s.GetRequest("REQ-aaa")
			require.NoError(t, err)
			assert.Equal(t, "Case management licenses", got.Title)
			assert.Equal(t, schema.BuySoftware, got.Answers.BuyCategory)

			err = s.CreateRequest(testRequest("REQ-aaa"))
			var conflict *schema.ConflictError
			require.ErrorAs(t, err, &conflict)
		})
	}
}

func TestGetRequestNotFound(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.GetRequest("REQ-missing")
			var notFound *schema.NotFoundError
			require.ErrorAs(t, err, &notFound)
		})
	}
}

func TestUpdateRequestCompareAndSwap(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.CreateRequest(testRequest("REQ-aaa")))

			// Two readers at the same version: the first write wins, the
			// second fails with a conflict.
			first, err := s.GetRequest("REQ-aaa")
			require.NoError(t, err)
			second, err := s.GetRequest("REQ-aaa")
			require.NoError(t, err)

			first.Status = schema.RequestSubmitted
			require.NoError(t, s.UpdateRequest(first))
			assert.Equal(t, 1, first.Version)

			second.Status = schema.RequestCancelled
			err = s.UpdateRequest(second)
			var conflict *schema.ConflictError
			require.ErrorAs(t, err, &conflict)

			got, err := s.GetRequest("REQ-aaa")
			require.NoError(t, err)
			assert.Equal(t, schema.RequestSubmitted, got.Status)
			assert.Equal(t, 1, got.Version)
		})
	}
}

func TestReadsAreIsolated(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.CreateRequest(testRequest("REQ-aaa")))

			got, err := s.GetRequest("REQ-aaa")
			require.NoError(t, err)
			got.Title = "mutated locally"

			again, err := s.GetRequest("REQ-aaa")
			require.NoError(t, err)
			assert.Equal(t, "Case management licenses", again.Title)
		})
	}
}

func TestListRequests(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.CreateRequest(testRequest("REQ-bbb")))
			require.NoError(t, s.CreateRequest(testRequest("REQ-aaa")))

			all, err := s.ListRequests()
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "REQ-aaa", all[0].ID)
			assert.Equal(t, "REQ-bbb", all[1].ID)
		})
	}
}

func TestCLINRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			entry := schema.CLINLedgerEntry{
				ID:         "CLIN-0003",
				CLINNumber: "0003",
				Type:       schema.CLINODC,
				Ceiling:    800000,
				Obligated:  450000,
				Invoiced:   380000,
			}
			require.NoError(t, s.SaveCLIN(entry))

			got, err := s.GetCLIN("CLIN-0003")
			require.NoError(t, err)
			assert.InDelta(t, 70000, got.Available(), 0.001)

			_, err = s.GetCLIN("CLIN-9999")
			var notFound *schema.NotFoundError
			require.ErrorAs(t, err, &notFound)

			all, err := s.ListCLINs()
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	req := testRequest("REQ-aaa")
	require.NoError(t, s.CreateRequest(req))
	req.Status = schema.RequestSubmitted
	require.NoError(t, s.UpdateRequest(req))
	require.NoError(t, s.Close())

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.GetRequest("REQ-aaa")
	require.NoError(t, err)
	assert.Equal(t, schema.RequestSubmitted, got.Status)
	assert.Equal(t, 1, got.Version)
}

func TestFileStoreHoldsDirectoryLock(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	s, err := NewFileStore(dir)
	require.NoError(t, err)

	_, err = NewFileStore(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked by")

	require.NoError(t, s.Close())
	again, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestTxRollbackLeavesBaseUntouched(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.yaml"), []byte("keep: me\n"), 0o644))

	tx := NewTx(dir)
	require.NoError(t, tx.Begin())
	require.NoError(t, tx.WriteFile("new.yaml", []byte("discard: me\n")))
	require.NoError(t, tx.Rollback())

	_, err := os.Stat(filepath.Join(dir, "new.yaml"))
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(filepath.Join(dir, "existing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "keep: me\n", string(data))
}

func TestTxCommitSwapsAtomically(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("v: 1\n"), 0o644))

	tx := NewTx(dir)
	require.NoError(t, tx.Begin())
	require.NoError(t, tx.WriteFile("a.yaml", []byte("v: 2\n")))
	require.NoError(t, tx.WriteFile("b.yaml", []byte("v: 1\n")))
	require.NoError(t, tx.Commit())

	data, err := os.ReadFile(filepath.Join(dir, "a.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "v: 2\n", string(data))
	_, err = os.Stat(filepath.Join(dir, "b.yaml"))
	assert.NoError(t, err)

	// No temp or backup directories left behind.
	entries, err := os.ReadDir(filepath.Dir(dir))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(dir), entries[0].Name())
}

func TestFileLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockFileName)

	held := NewFileLock(path, "test")
	require.NoError(t, held.Acquire())

	contender := NewFileLock(path, "test")
	err := contender.Acquire()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked by")

	require.NoError(t, held.Release())
	require.NoError(t, contender.Acquire())
	require.NoError(t, contender.Release())
}
