package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yildizm/CloudClassify/internal/logger"
)

// Predictor classifies a single file
type Predictor interface {
	Predict(ctx context.Context, file *File) (*Result, error)
}

// Client performs multipart predict requests against the prediction service
type Client struct {
	config *Config
	client *http.Client
	log    *logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l.WithComponent("predict")
	}
}

// NewClient creates a new prediction client
func NewClient(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		log: logger.NewWithCallback("predict", nil),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Endpoint returns the URL requests are sent to
func (c *Client) Endpoint() string {
	return c.config.Endpoint
}

// Predict uploads file and returns the classification. Every failure is an *Error.
// A nil file is rejected as a validation error without touching the network.
func (c *Client) Predict(ctx context.Context, file *File) (*Result, error) {
	if file == nil {
		return nil, NewValidationError(MsgNoFile)
	}

	requestID := uuid.NewString()
	startTime := time.Now()

	body, contentType, err := encodeMultipart(file)
	if err != nil {
		return nil, NewTransportError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, body)
	if err != nil {
		return nil, NewTransportError(err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}

	c.log.DebugWithFields("sending predict request", []logger.Field{
		logger.F("request_id", requestID),
		logger.F("file", file.Name),
		logger.F("bytes", file.Size()),
	})

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.log.DebugWithFields("predict request failed", []logger.Field{
			logger.F("request_id", requestID), logger.Error(err),
		})
		return nil, NewTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportError(err)
	}

	// The body is decoded before the status is inspected, so an unparseable
	// error page is a transport failure rather than a service failure.
	var decoded *predictResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, NewTransportError(fmt.Errorf("failed to decode response: %w", err))
	}
	if decoded == nil {
		return nil, NewTransportError(fmt.Errorf("failed to decode response: empty body"))
	}

	c.log.DebugWithFields("predict response received", []logger.Field{
		logger.F("request_id", requestID),
		logger.F("status", resp.StatusCode),
		logger.Duration(time.Since(startTime)),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewServiceError(resp.StatusCode, decoded.errorMessage())
	}

	return &Result{
		PredictedClass: decoded.PredictedClass,
		Confidence:     decoded.Confidence,
	}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart writes file as the single part of a multipart/form-data body
func encodeMultipart(file *File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FieldName, quoteEscaper.Replace(file.Name)))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write multipart part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
