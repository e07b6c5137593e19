package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type receiver struct {
	mu      sync.Mutex
	files   map[string]string
	uploads []string
}

func newReceiver(t *testing.T) (*receiver, *httptest.Server) {
	t.Helper()
	rcv := &receiver{files: map[string]string{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		var req uploadRequest
		if r.Method != http.MethodPost || json.NewDecoder(r.Body).Decode(&req) != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		rcv.mu.Lock()
		rcv.files[req.Path] = req.Content
		rcv.uploads = append(rcv.uploads, req.Path)
		rcv.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		var req downloadRequest
		if json.NewDecoder(r.Body).Decode(&req) != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		rcv.mu.Lock()
		content, ok := rcv.files[req.Path]
		rcv.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(content))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return rcv, srv
}

func TestHTTPUploadAndDownload(t *testing.T) {
	rcv, srv := newReceiver(t)
	h := NewHTTP(strings.TrimPrefix(srv.URL, "http://"), time.Second)
	ctx := context.Background()

	require.NoError(t, h.Upload(ctx, ".vimrc", "set number"))
	assert.Equal(t, "set number", rcv.files[".vimrc"])

	got, err := h.Download(ctx, ".vimrc")
	require.NoError(t, err)
	assert.Equal(t, "set number", got)
	assert.Equal(t, srv.URL, h.String())
	assert.NoError(t, h.Close())
}

func TestHTTPNonSuccessStatus(t *testing.T) {
	_, srv := newReceiver(t)
	h := NewHTTP(srv.URL, time.Second)

	_, err := h.Download(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRemote))
}

func TestHTTPTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	h := NewHTTP(srv.URL, 50*time.Millisecond)
	err := h.Upload(context.Background(), "a", "b")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRemoteTimeout))
}

func TestHTTPConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	h := NewHTTP(addr, time.Second)
	_, err := h.Download(context.Background(), "a")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRemote))
}

func TestNew(t *testing.T) {
	r, err := New(Options{Mode: ModeNone})
	require.NoError(t, err)
	assert.Nil(t, r)

	_, err = New(Options{Mode: ModeHTTP})
	assert.True(t, errors.IsErrorCode(err, errors.ErrEnvMissing))

	_, err = New(Options{Mode: ModeSCP, Host: "box"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrEnvMissing))

	_, err = New(Options{Mode: "ftp", Host: "box"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))

	r, err = New(Options{Mode: "HTTP", Host: "box:8080"})
	require.NoError(t, err)
	assert.Equal(t, "http://box:8080", r.String())
}
