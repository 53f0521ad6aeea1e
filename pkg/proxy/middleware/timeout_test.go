package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTimeoutMiddleware(t *testing.T) {
	t.Run("fast handler passes through", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test", "1")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		w := httptest.NewRecorder()
		TimeoutMiddleware(time.Second)(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if w.Code != http.StatusCreated {
			t.Errorf("status = %d, want 201", w.Code)
		}
		if w.Body.String() != `{"ok":true}` {
			t.Errorf("body = %q", w.Body.String())
		}
		if w.Header().Get("X-Test") != "1" {
			t.Error("handler header lost")
		}
	})

	t.Run("slow handler gets 504", func(t *testing.T) {
		unblock := make(chan struct{})
		release := make(chan error, 1)
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-unblock
			_, err := w.Write([]byte("late"))
			release <- err
		})

		w := httptest.NewRecorder()
		TimeoutMiddleware(20*time.Millisecond)(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		close(unblock)
		if err := <-release; err != http.ErrHandlerTimeout {
			t.Errorf("late Write() error = %v, want ErrHandlerTimeout", err)
		}

		if w.Code != http.StatusGatewayTimeout {
			t.Errorf("status = %d, want 504", w.Code)
		}
		if strings.Contains(w.Body.String(), "late") {
			t.Error("late write reached the client")
		}
		if !strings.Contains(w.Body.String(), `"error"`) {
			t.Errorf("body = %q", w.Body.String())
		}
	})

	t.Run("handler panic propagates", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})

		w := httptest.NewRecorder()
		RecoveryMiddleware(TimeoutMiddleware(time.Second)(handler)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
	})

	t.Run("zero disables", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
		if got := TimeoutMiddleware(0)(handler); got == nil {
			t.Error("nil handler")
		}
	})
}

func TestBodyLimitMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	wrapped := BodyLimitMiddleware(8)(handler)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "within limit", body: "12345678", want: http.StatusOK},
		{name: "over limit", body: "123456789", want: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}), mw("a"), mw("b"), mw("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "a,b,c" {
		t.Errorf("order = %v, want a,b,c", order)
	}
}
