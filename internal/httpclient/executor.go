package httpclient

import (
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Result is the outcome of a single executed request.
type Result struct {
	Status int
	Body   []byte
	Header http.Header
}

// Executor handles single-attempt HTTP execution with latency logging.
// Each call is one request, one response: failures are returned to the caller
// for classification, never retried here.
type Executor struct {
	logger    *zap.Logger
	http      *http.Client
	vendorTag string
}

// New creates an Executor. vendorTag prefixes log event names (e.g. "actionkit").
func New(logger *zap.Logger, httpClient *http.Client, vendorTag string) *Executor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Executor{
		logger:    logger,
		http:      httpClient,
		vendorTag: vendorTag,
	}
}

// Do executes req and returns the response status, headers and fully-read body.
// Transport failures are returned as errors; any HTTP status, including 4xx
// and 5xx, is returned to the caller with a nil error.
func (e *Executor) Do(req *http.Request) (*Result, error) {
	start := time.Now()

	resp, err := e.http.Do(req)
	if err != nil {
		e.logger.Warn(e.vendorTag+".http_failed",
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		e.logger.Warn(e.vendorTag+".read_failed",
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return nil, err
	}

	if resp.StatusCode >= 400 {
		e.logger.Warn(e.vendorTag+".http_error",
			zap.Int("status", resp.StatusCode),
			zap.String("url", req.URL.String()),
			zap.Duration("latency", elapsed))
	} else {
		e.logger.Debug(e.vendorTag+".http_success",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", elapsed))
	}

	return &Result{
		Status: resp.StatusCode,
		Body:   body,
		Header: resp.Header,
	}, nil
}
