package predict

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	config := DefaultConfig()
	config.Endpoint = url + "/predict"
	client, err := NewClient(config)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func TestClient_PredictSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("Expected path '/predict', got '%s'", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got '%s'", r.Method)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("Expected X-Request-ID header to be set")
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Failed to parse multipart form: %v", err)
		}
		if len(r.MultipartForm.File) != 1 {
			t.Errorf("Expected exactly one file part, got %d", len(r.MultipartForm.File))
		}

		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("Expected form file 'file': %v", err)
		}
		defer func() { _ = f.Close() }()

		if header.Filename != "sky.jpg" {
			t.Errorf("Expected filename 'sky.jpg', got '%s'", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("Expected part content type 'image/jpeg', got '%s'", ct)
		}
		data, _ := io.ReadAll(f)
		if string(data) != "jpeg-bytes" {
			t.Errorf("Unexpected payload %q", data)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predicted_class":"cirrus","confidence":0.8734}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Predict(context.Background(), NewFile("sky.jpg", []byte("jpeg-bytes")))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if result.PredictedClass != "cirrus" {
		t.Errorf("Expected class 'cirrus', got '%s'", result.PredictedClass)
	}
	if result.Confidence != 0.8734 {
		t.Errorf("Expected confidence 0.8734, got %v", result.Confidence)
	}
	if result.Percent() != "87.34%" {
		t.Errorf("Expected '87.34%%', got '%s'", result.Percent())
	}
}

func TestClient_PredictServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error field", http.StatusBadRequest, `{"error":"unsupported format"}`, "unsupported format"},
		{"no error field", http.StatusInternalServerError, `{}`, MsgSomethingWrong},
		{"empty error field", http.StatusBadGateway, `{"error":""}`, MsgSomethingWrong},
		{"backend missing part", http.StatusBadRequest, `{"error":"No file part in the request"}`, "No file part in the request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			result, err := client.Predict(context.Background(), NewFile("a.png", []byte("x")))
			if err == nil {
				t.Fatalf("Expected error, got result %+v", result)
			}
			if !IsServiceError(err) {
				t.Errorf("Expected service error, got %v", err)
			}
			if err.Error() != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, err.Error())
			}

			var pe *Error
			if !errors.As(err, &pe) || pe.StatusCode != tt.status {
				t.Errorf("Expected status code %d on error, got %+v", tt.status, pe)
			}
		})
	}
}

func TestClient_SuccessIgnoresErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predicted_class":"stratus","confidence":1.7,"error":"ignored"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Predict(context.Background(), NewFile("a.png", []byte("x")))
	if err != nil {
		t.Fatalf("Expected success for 2xx status, got %v", err)
	}
	// Confidence is not bounds-checked
	if result.Confidence != 1.7 {
		t.Errorf("Expected confidence 1.7, got %v", result.Confidence)
	}
}

func TestClient_MalformedJSONIsTransportError(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("<html>Internal Server Error</html>"))
		}))

		client := newTestClient(t, server.URL)
		_, err := client.Predict(context.Background(), NewFile("a.png", []byte("x")))
		server.Close()

		if !IsTransportError(err) {
			t.Errorf("status %d: expected transport error, got %v", status, err)
			continue
		}
		if !strings.Contains(err.Error(), "failed to decode response") {
			t.Errorf("status %d: expected decode failure text, got %q", status, err.Error())
		}
	}
}

func TestClient_NullBodyIsTransportError(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusBadRequest} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("null"))
		}))

		client := newTestClient(t, server.URL)
		result, err := client.Predict(context.Background(), NewFile("a.png", []byte("x")))
		server.Close()

		if result != nil {
			t.Errorf("status %d: expected no result, got %+v", status, result)
		}
		if !IsTransportError(err) {
			t.Errorf("status %d: expected transport error, got %v", status, err)
		}
	}
}

func TestClient_NonStringErrorField(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"number", `{"error": 123}`, "123"},
		{"object", `{"error": {"code": 7}}`, `{"code": 7}`},
		{"null", `{"error": null}`, MsgSomethingWrong},
		{"string", `{"error": "bad image"}`, "bad image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			_, err := client.Predict(context.Background(), NewFile("a.png", []byte("x")))
			if !IsServiceError(err) {
				t.Fatalf("Expected service error, got %v", err)
			}
			if got := AsError(err).Message; got != tt.expected {
				t.Errorf("Expected message %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(t, url)
	_, err := client.Predict(context.Background(), NewFile("a.png", []byte("x")))
	if !IsTransportError(err) {
		t.Fatalf("Expected transport error, got %v", err)
	}

	var pe *Error
	if !errors.As(err, &pe) || pe.Cause == nil {
		t.Fatalf("Expected transport error with cause, got %+v", err)
	}
	if err.Error() != pe.Cause.Error() {
		t.Errorf("Expected message to equal cause text, got %q vs %q", err.Error(), pe.Cause.Error())
	}
}

func TestClient_NilFileMakesNoRequest(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Predict(context.Background(), nil)
	if !IsValidationError(err) || err.Error() != MsgNoFile {
		t.Errorf("Expected validation error %q, got %v", MsgNoFile, err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("Expected no network calls, got %d", calls)
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	config := DefaultConfig()
	config.Endpoint = server.URL + "/predict"
	config.Timeout = 50 * time.Millisecond

	client, err := NewClient(config)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.Predict(context.Background(), NewFile("a.png", []byte("x")))
	if !IsTransportError(err) {
		t.Errorf("Expected transport error on timeout, got %v", err)
	}
}

func TestNewClient_InvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		timeout  time.Duration
	}{
		{"empty endpoint", "", 0},
		{"bad scheme", "ftp://127.0.0.1/predict", 0},
		{"no host", "http:///predict", 0},
		{"negative timeout", DefaultEndpoint, -time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(&Config{Endpoint: tt.endpoint, Timeout: tt.timeout})
			if err == nil {
				t.Error("Expected configuration error")
			}
		})
	}
}
