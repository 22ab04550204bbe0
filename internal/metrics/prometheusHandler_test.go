package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHttpStatusRecorderCapturesStatus(t *testing.T) {
	inner := httptest.NewRecorder()
	rec := &HttpStatusRecorder{ResponseWriter: inner, Status: 200}

	// a handler only ever sees the http.ResponseWriter interface
	var w http.ResponseWriter = rec
	w.WriteHeader(http.StatusNotFound)

	if rec.Status != http.StatusNotFound {
		t.Errorf("recorder status = %d, want %d", rec.Status, http.StatusNotFound)
	}
	if inner.Code != http.StatusNotFound {
		t.Errorf("inner writer status = %d, want %d", inner.Code, http.StatusNotFound)
	}
}
