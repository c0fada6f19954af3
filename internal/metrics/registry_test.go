package metrics

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/agbru/mpbits/internal/wordstore"
)

func TestRegistryObservesStorage(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	a := wordstore.Instrument(&wordstore.Heap{MaxWords: 16}, r)

	words, err := a.Grow(nil, 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Grow(words, 17); err == nil {
		t.Fatal("expected allocation failure")
	}
	a.Release(words)

	if got := testutil.ToFloat64(r.grows); got != 1 {
		t.Errorf("grows = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.failures); got != 1 {
		t.Errorf("failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.releasedWords); got != float64(len(words)) {
		t.Errorf("released words = %v, want %d", got, len(words))
	}
}

func TestRegistryRecordOp(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.RecordOp("shl", nil)
	r.RecordOp("shl", nil)
	r.RecordOp("clrbit", errors.New("out of range"))

	if got := testutil.ToFloat64(r.operations.WithLabelValues("shl", "ok")); got != 2 {
		t.Errorf("shl ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.operations.WithLabelValues("clrbit", "error")); got != 1 {
		t.Errorf("clrbit error = %v, want 1", got)
	}
}

func TestRegistryWriteText(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.Grew(0, 8)
	r.RecordOp("setbit", nil)

	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"mpbits_storage_grows_total 1",
		"mpbits_storage_grow_words_bucket",
		`mpbits_operations_total{op="setbit",result="ok"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q", want)
		}
	}
}

func TestRegistryWritePrometheus(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.Failed(10, errors.New("limit"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	r.WritePrometheus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "mpbits_storage_allocation_failures_total 1") {
		t.Error("scrape should contain the failure counter")
	}
	if !strings.Contains(body, "go_") {
		t.Error("scrape should contain Go runtime metrics")
	}
}
