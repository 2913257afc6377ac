package log

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogFieldsBuilder(t *testing.T) {
	fields := NewFields().
		WithUser("u-1").
		WithOperation(OpEvaluate).
		WithError(errors.New("boom"))

	want := map[string]any{
		FieldUserID:    "u-1",
		FieldOperation: OpEvaluate,
		FieldError:     "boom",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%q] = %v, want %v", k, fields[k], v)
		}
	}

	slice := fields.ToSlice()
	if len(slice) != len(fields)*2 {
		t.Errorf("ToSlice() length = %d, want %d", len(slice), len(fields)*2)
	}
}

func TestLogFieldsNilErrorSkipped(t *testing.T) {
	fields := NewFields().WithError(nil)
	if _, ok := fields[FieldError]; ok {
		t.Error("WithError(nil) should not add an error field")
	}
}

func TestMiddlewareAttachesLogger(t *testing.T) {
	logger := New(DefaultConfig()).WithComponent(ComponentHTTP)

	var got *Logger
	handler := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != logger {
		t.Error("FromContext should return the logger attached by Middleware")
	}
}

func TestFromContextFallsBack(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil {
		t.Fatal("FromContext on a bare context should return a fallback logger")
	}
}
