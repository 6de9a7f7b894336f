package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
)

var tracer = otel.Tracer("membersel.catalog")

// maxResponseBytes bounds how much of a response body is decoded.
const maxResponseBytes = 16 << 20

// StatusError is returned for non-2xx catalog responses.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

// Error implements error.
func (e *StatusError) Error() string {
	msg := fmt.Sprintf("catalog request %s returned %d", e.URL, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap maps 404 responses to ErrNotFound.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// HTTPClient talks to a discover REST API:
//
//	GET {base}/discover/{cube}/dimensions/{dim}/hierarchies/{hier}/levels
//	GET {base}/discover/{cube}/dimensions/{dim}/hierarchies/{hier}/levels/{level}
//	GET {base}/discover/{cube}/member/{uniqueName}/children
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
	flight  singleflight.Group
}

// NewHTTPClient creates a client for the API rooted at baseURL. A zero
// timeout leaves requests bounded only by their context.
func NewHTTPClient(logger *slog.Logger, baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid catalog url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid catalog url %q: scheme must be http or https", baseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// Levels implements Client.
func (c *HTTPClient) Levels(ctx context.Context, coords olap.Coordinates) ([]olap.Level, error) {
	var levels []olap.Level
	err := c.get(ctx, "levels", &levels,
		"discover", coords.Cube, "dimensions", coords.Dimension, "hierarchies", coords.Hierarchy, "levels")
	return levels, err
}

// LevelMembers implements Client.
func (c *HTTPClient) LevelMembers(ctx context.Context, coords olap.Coordinates, level string) ([]olap.MemberRow, error) {
	var rows []olap.MemberRow
	err := c.get(ctx, "level_members", &rows,
		"discover", coords.Cube, "dimensions", coords.Dimension, "hierarchies", coords.Hierarchy, "levels", level)
	return rows, err
}

// ChildMembers implements Client.
func (c *HTTPClient) ChildMembers(ctx context.Context, cube, uniqueName string) ([]olap.MemberRow, error) {
	var rows []olap.MemberRow
	err := c.get(ctx, "child_members", &rows, "discover", cube, "member", uniqueName, "children")
	return rows, err
}

// endpoint joins escaped path segments onto the base URL.
func (c *HTTPClient) endpoint(segments ...string) string {
	u := *c.baseURL
	raw := u.EscapedPath()
	plain := u.Path
	for _, s := range segments {
		raw += "/" + url.PathEscape(s)
		plain += "/" + s
	}
	u.Path = plain
	u.RawPath = raw
	return u.String()
}

// get issues a GET, coalescing identical concurrent requests, and decodes
// the JSON body into out.
func (c *HTTPClient) get(ctx context.Context, op string, out any, segments ...string) error {
	endpoint := c.endpoint(segments...)

	ctx, span := tracer.Start(ctx, "catalog."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("http.url", endpoint))

	body, err, shared := c.flight.Do(endpoint, func() (any, error) {
		return c.fetch(ctx, endpoint)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.Bool("catalog.shared", shared))

	if err := json.Unmarshal(body.([]byte), out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode")
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	return nil
}

func (c *HTTPClient) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading catalog response: %w", err)
	}

	c.logger.Debug("Catalog request",
		"url", endpoint,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if len(body) == 0 {
		return []byte("null"), nil
	}
	return body, nil
}

// IsNotFound reports whether err means the requested object does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
