package cardsets

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"cardvault-backend/lib/tcgapi"
	"cardvault-backend/lib/testutil"

	"github.com/stretchr/testify/require"
)

type stubApi struct {
	responses map[string]string
	calls     atomic.Int64
}

func (s *stubApi) SetCards(ctx context.Context, setID string) ([]byte, error) {
	s.calls.Add(1)
	return []byte(s.responses[setID]), nil
}

func TestFetchOne(t *testing.T) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "services/cardsets",
	})
	defer cleanup()

	dir := t.TempDir()
	api := &stubApi{responses: map[string]string{
		"base1": `{"data":[{"id":"base1-4","name":"Charizard"}]}`,
	}}
	service := NewService(api, dir)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	res, err := service.FetchOne(ctx, "base1")
	require.NoError(t, err)
	require.Equal(t, "base1", res.SetID)
	require.Equal(t, filepath.Join(dir, "base1.json"), res.Path)

	contents, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	require.Equal(t, `{"data":[{"id":"base1-4","name":"Charizard"}]}`, string(contents))
}

func TestFetchOneOverwritesWhole(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "base1.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data":[{"id":"stale","name":"a much longer stale payload than the fresh one"}]}`), 0644))

	api := &stubApi{responses: map[string]string{"base1": `{"data":[]}`}}
	service := NewService(api, dir)

	_, err := service.FetchOne(context.Background(), "base1")
	require.NoError(t, err)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `{"data":[]}`, string(contents))
}

func TestFetchOneEmptySetCode(t *testing.T) {
	dir := t.TempDir()
	api := &stubApi{responses: map[string]string{}}
	service := NewService(api, dir)

	_, err := service.FetchOne(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptySetCode)
	require.EqualValues(t, 0, api.calls.Load())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRefreshAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base1.json"), []byte("stale"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base4.json"), []byte("stale"), 0644))
	// non-matching files must survive untouched
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep me"), 0644))

	api := &stubApi{responses: map[string]string{
		"base1": `{"data":[]}`,
		"base4": `{"data":[{"id":"4"}]}`,
	}}
	service := NewService(api, dir)

	results, err := service.RefreshAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	// deterministic, sorted by set code
	require.Equal(t, "base1", results[0].SetID)
	require.Equal(t, "base4", results[1].SetID)

	contents, err := os.ReadFile(filepath.Join(dir, "base1.json"))
	require.NoError(t, err)
	require.Equal(t, `{"data":[]}`, string(contents))

	contents, err = os.ReadFile(filepath.Join(dir, "base4.json"))
	require.NoError(t, err)
	require.Equal(t, `{"data":[{"id":"4"}]}`, string(contents))

	contents, err = os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	require.Equal(t, "keep me", string(contents))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	// no invented identifiers
	require.Len(t, entries, 3)
}

func TestRefreshAllEmptyDir(t *testing.T) {
	api := &stubApi{responses: map[string]string{}}
	service := NewService(api, t.TempDir())

	results, err := service.RefreshAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, results)
	require.EqualValues(t, 0, api.calls.Load())
}

func TestRefreshAllIdempotent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base1.json"), []byte("stale"), 0644))

	api := &stubApi{responses: map[string]string{"base1": `{"data":[{"id":"base1-4"}]}`}}
	service := NewService(api, dir)

	_, err := service.RefreshAll(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, "base1.json"))
	require.NoError(t, err)

	_, err = service.RefreshAll(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "base1.json"))
	require.NoError(t, err)

	require.Equal(t, first, second)
}

// end-to-end through the real client against a stub server
func TestFetchOneThroughApiClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data":[],"q":%q}`, r.URL.Query().Get("q"))
	}))
	defer server.Close()

	dir := t.TempDir()
	service := NewService(tcgapi.NewClient(server.URL, nil), dir)

	_, err := service.FetchOne(context.Background(), "neo4")
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(dir, "neo4.json"))
	require.NoError(t, err)
	require.Equal(t, `{"data":[],"q":"set.id:neo4"}`, string(contents))
}
