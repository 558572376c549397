package inbox_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparse/internal/inbox"
)

func TestSupported(t *testing.T) {
	assert.True(t, inbox.Supported("/tmp/cv.PDF"))
	assert.True(t, inbox.Supported("cv.docx"))
	assert.True(t, inbox.Supported("notes.txt"))
	assert.False(t, inbox.Supported("photo.png"))
	assert.False(t, inbox.Supported("README"))
}

func TestWatch_InitialScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.png"), []byte("x"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	paths, err := inbox.Watch(ctx, inbox.Config{Dir: dir, InitialScan: true, Debounce: 20 * time.Millisecond})
	require.NoError(t, err)

	select {
	case p := <-paths:
		assert.Equal(t, filepath.Join(dir, "a.txt"), p)
	case <-time.After(2 * time.Second):
		t.Fatal("existing file not reported")
	}
}

func TestWatch_NewFileReportedOnce(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	paths, err := inbox.Watch(ctx, inbox.Config{Dir: dir, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)

	target := filepath.Join(dir, "cv.txt")
	f, err := os.Create(target)
	require.NoError(t, err)
	_, _ = f.WriteString("John Smith\n")
	_, _ = f.WriteString("john@x.com\n")
	require.NoError(t, f.Close())

	select {
	case p := <-paths:
		assert.Equal(t, target, p)
	case <-time.After(2 * time.Second):
		t.Fatal("new file not reported")
	}

	select {
	case p := <-paths:
		t.Fatalf("unexpected second report for %s", p)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	paths, err := inbox.Watch(ctx, inbox.Config{Dir: t.TempDir()})
	require.NoError(t, err)

	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-paths:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatch_MissingDir(t *testing.T) {
	_, err := inbox.Watch(context.Background(), inbox.Config{Dir: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}
