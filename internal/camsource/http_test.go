package camsource_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/facewatch/attendance/internal/camsource"
)

func TestHTTPSource_NextFrame_ReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	src := camsource.NewHTTPSource(server.URL, time.Second)
	frame, err := src.NextFrame(t.Context())
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg-bytes"), frame)
	require.NoError(t, src.Close())
}

func TestHTTPSource_NextFrame_ErrorsOnNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	src := camsource.NewHTTPSource(server.URL, time.Second)
	_, err := src.NextFrame(t.Context())
	require.Error(t, err)
}
