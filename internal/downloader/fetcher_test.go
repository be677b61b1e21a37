package downloader

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "galleryscraper/pkg/errors"
	"galleryscraper/pkg/gallery"
	"galleryscraper/pkg/logger"
)

// fakeWget writes a shell script standing in for wget. It copies its last
// argument (the URL) into the file following -O. It fails when the URL is
// not preceded by "--", when the URL contains "missing", or with a long
// multi-byte diagnostic when the URL contains "noisy".
func fakeWget(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	script := `#!/bin/sh
out=""
prev=""
sep=""
for a in "$@"; do
  if [ "$prev" = "-O" ]; then out="$a"; fi
  sep="$prev"
  prev="$a"
  url="$a"
done
if [ "$sep" != "--" ]; then echo "wget: unrecognized option '$url'" >&2; exit 2; fi
case "$url" in
  *missing*) echo "ERROR 404: Not Found." >&2; exit 8 ;;
  *noisy*)
    i=0
    while [ $i -lt 1500 ]; do printf 'é' >&2; i=$((i+1)); done
    echo " ERROR 500" >&2
    exit 8 ;;
esac
printf '%s' "$url" > "$out"
`
	path := filepath.Join(t.TempDir(), "wget")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func TestWgetFetcherArgs(t *testing.T) {
	w := NewWgetFetcher("")
	assert.Equal(t, "wget", w.Path)
	assert.Equal(t,
		[]string{"-P", "/out", "-O", "/out/a.png.part", "--", "https://cdn.example/a.png"},
		w.Args("https://cdn.example/a.png", "/out/a.png.part"))

	w.ExtraArgs = []string{"--user-agent", "galleryscraper/test"}
	assert.Equal(t, "--user-agent", w.Args("u", "/o/f")[0])
}

func TestWgetFetcherSuccess(t *testing.T) {
	w := NewWgetFetcher(fakeWget(t))
	dest := filepath.Join(t.TempDir(), "b.png.part")

	require.NoError(t, w.Fetch(context.Background(), "https://cdn.example/b.png", dest))

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/b.png", string(content))
}

func TestWgetFetcherFailureCarriesOutput(t *testing.T) {
	w := NewWgetFetcher(fakeWget(t))
	dest := filepath.Join(t.TempDir(), "gone.jpg.part")

	err := w.Fetch(context.Background(), "https://cdn.example/missing.jpg", dest)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrorTypeSubprocess))
	assert.Contains(t, err.Error(), "404: Not Found")
}

func TestWgetFetcherURLNeverParsedAsOption(t *testing.T) {
	w := NewWgetFetcher(fakeWget(t))
	args := w.Args("--execute=robots=off", "/out/x.part")
	assert.Equal(t, []string{"--", "--execute=robots=off"}, args[len(args)-2:])

	dest := filepath.Join(t.TempDir(), "dash.part")
	require.NoError(t, w.Fetch(context.Background(), "--version", dest))
	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "--version", string(content))
}

func TestWgetFetcherKeepsFullOutput(t *testing.T) {
	w := NewWgetFetcher(fakeWget(t))
	dest := filepath.Join(t.TempDir(), "noisy.part")

	err := w.Fetch(context.Background(), "https://cdn.example/noisy.jpg", dest)
	require.Error(t, err)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Equal(t, 1500, strings.Count(err.Error(), "é"))
	assert.Contains(t, err.Error(), "ERROR 500")
}

func TestWgetFetcherMissingBinary(t *testing.T) {
	w := NewWgetFetcher(filepath.Join(t.TempDir(), "no-such-wget"))
	err := w.Fetch(context.Background(), "https://cdn.example/a.jpg", filepath.Join(t.TempDir(), "a.part"))
	assert.True(t, errs.Is(err, errs.ErrorTypeSubprocess))
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "image-bytes")
	}))
	defer srv.Close()

	client := gallery.NewClient(gallery.ClientOptions{Logger: logger.NewNopLogger()})
	h := NewHTTPFetcher(client)
	dir := t.TempDir()

	dest := filepath.Join(dir, "a.jpg.part")
	require.NoError(t, h.Fetch(context.Background(), srv.URL+"/a.jpg", dest))
	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(content))

	err = h.Fetch(context.Background(), srv.URL+"/missing.jpg", filepath.Join(dir, "m.jpg.part"))
	assert.True(t, errs.Is(err, errs.ErrorTypeNotFound))
}

func TestHTTPFetcherOutlivesPageTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for i := 0; i < 6; i++ {
			fmt.Fprint(w, "frame")
			flusher.Flush()
			time.Sleep(100 * time.Millisecond)
		}
	}))
	defer srv.Close()

	client := gallery.NewClient(gallery.ClientOptions{
		Timeout: 300 * time.Millisecond,
		Logger:  logger.NewNopLogger(),
	})
	dest := filepath.Join(t.TempDir(), "clip.webm.part")

	require.NoError(t, NewHTTPFetcher(client).Fetch(context.Background(), srv.URL+"/clip.webm", dest))
	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("frame", 6), string(content))
}

func TestHTTPFetcherCancelledMidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for i := 0; i < 10; i++ {
			fmt.Fprint(w, "frame")
			flusher.Flush()
			time.Sleep(100 * time.Millisecond)
		}
	}))
	defer srv.Close()

	client := gallery.NewClient(gallery.ClientOptions{Logger: logger.NewNopLogger()})
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	dest := filepath.Join(t.TempDir(), "cut.webm.part")

	err := NewHTTPFetcher(client).Fetch(ctx, srv.URL+"/cut.webm", dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "partial body must be removed")
}
