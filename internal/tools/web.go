package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/crystaldolphin/archbot/internal/schema"
	"github.com/crystaldolphin/archbot/internal/shared/stringutils"
)

const (
	webUserAgent      = "archbot/0.1 (+https://github.com/crystaldolphin/archbot)"
	defaultWebTimeout = 30 * time.Second
	defaultMaxBytes   = 1 << 20
	maxRedirects      = 5
	snippetLen        = 200
)

var httpParamSchema = schema.NewParameterSchema(
	schema.Field{Name: "url", Type: schema.TypeString, Required: true,
		Description: "Absolute URL, or a path resolved against the configured base URL"},
	schema.Field{Name: "method", Type: schema.TypeString, Default: http.MethodGet,
		Description: "HTTP method"},
	schema.Field{Name: "headers", Type: schema.TypeStringMap, Default: map[string]string{},
		Description: "Request headers as a JSON object"},
	schema.Field{Name: "body", Type: schema.TypeObject, Default: map[string]any{},
		Description: "JSON request body; omitted when empty"},
)

// HTTPParams is the typed form of the HTTP tool's parameters.
type HTTPParams struct {
	URL     string            `mapstructure:"url"`
	Method  string            `mapstructure:"method"`
	Headers map[string]string `mapstructure:"headers"`
	Body    map[string]any    `mapstructure:"body"`
}

// HTTPTool issues a single HTTP request and returns the decoded JSON reply.
type HTTPTool struct {
	baseURL    string
	maxBytes   int64
	httpClient *http.Client
}

// NewHTTPTool creates an HTTPTool. baseURL may be empty; timeout defaults
// to 30s and maxBytes to 1 MiB.
func NewHTTPTool(baseURL string, timeout time.Duration, maxBytes int64) *HTTPTool {
	if timeout <= 0 {
		timeout = defaultWebTimeout
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return &HTTPTool{baseURL: baseURL, maxBytes: maxBytes, httpClient: client}
}

func (t *HTTPTool) Schema() schema.ParameterSchema { return httpParamSchema }

func (t *HTTPTool) Capabilities() schema.Capabilities {
	return schema.Capabilities{
		schema.CapRequiresNetwork: true,
		schema.CapAsyncCompatible: true,
		schema.CapToolType:        "web_api",
	}
}

// HealthCheck passes when no base URL is configured, or when the base URL
// has both a scheme and a host.
func (t *HTTPTool) HealthCheck(_ context.Context) bool {
	if t.baseURL == "" {
		return true
	}
	return isAbsoluteURL(t.baseURL)
}

// Validate requires the (base-resolved) url to have a scheme and a host.
func (t *HTTPTool) Validate(_ context.Context, v schema.Values) (bool, error) {
	var p HTTPParams
	if err := httpParamSchema.Decode(v, &p); err != nil {
		return false, err
	}
	full, err := t.resolve(p.URL)
	if err != nil {
		slog.Debug("http tool: url does not parse", "url", p.URL, "err", err)
		return false, nil
	}
	return isAbsoluteURL(full), nil
}

// Execute sends the request. Every failure is returned as an ErrorResult.
// A 2xx reply with an empty body yields nil.
func (t *HTTPTool) Execute(ctx context.Context, v schema.Values) schema.Result {
	var p HTTPParams
	if err := httpParamSchema.Decode(v, &p); err != nil {
		return errorResult(CodeInvalidRequest, "%v", err)
	}
	full, err := t.resolve(p.URL)
	if err != nil {
		return errorResult(CodeInvalidRequest, "invalid url %q: %v", p.URL, err)
	}
	method := strings.ToUpper(strings.TrimSpace(p.Method))
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(p.Body) > 0 {
		data, err := json.Marshal(p.Body)
		if err != nil {
			return errorResult(CodeInvalidRequest, "encode body: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, full, body)
	if err != nil {
		return errorResult(CodeInvalidRequest, "build request: %v", err)
	}
	req.Header.Set("User-Agent", webUserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, val := range p.Headers {
		req.Header.Set(k, val)
	}

	slog.Info("http tool: request", "method", method, "url", full)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		slog.Error("http tool: request failed", "method", method, "url", full, "err", err)
		if isTimeout(err) {
			return errorResult(CodeTimeout, "request timed out: %v", err)
		}
		return errorResult(CodeTransportFailure, "request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBytes+1))
	if err != nil {
		return errorResult(CodeTransportFailure, "read response: %v", err)
	}
	if int64(len(raw)) > t.maxBytes {
		return errorResult(CodeDecodeFailure, "response exceeds %d bytes", t.maxBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("http tool: non-success status", "url", full, "status", resp.StatusCode)
		res := errorResult(CodeUpstreamFailure, "HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		res.Details = map[string]any{
			"status": resp.StatusCode,
			"body":   stringutils.Truncate(string(raw), snippetLen),
		}
		return res
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return decodeFailure(resp, raw, err)
	}
	return decoded
}

func (t *HTTPTool) resolve(raw string) (string, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if t.baseURL == "" {
		return ref.String(), nil
	}
	base, err := url.Parse(t.baseURL)
	if err != nil {
		return "", fmt.Errorf("base url: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// decodeFailure builds the error value for a 2xx reply that isn't JSON.
// HTML pages get their readable title and excerpt attached; anything else,
// or a page with nothing readable, gets a raw body snippet.
func decodeFailure(resp *http.Response, raw []byte, cause error) ErrorResult {
	ctype := resp.Header.Get("Content-Type")
	res := errorResult(CodeDecodeFailure, "response is not valid JSON: %v", cause)
	res.Details = map[string]any{"contentType": ctype}

	if looksLikeHTML(raw) {
		article, err := readability.FromReader(bytes.NewReader(raw), resp.Request.URL)
		if err == nil {
			excerpt := article.Excerpt
			if excerpt == "" {
				excerpt = strings.TrimSpace(article.TextContent)
			}
			if article.Title != "" || excerpt != "" {
				if article.Title != "" {
					res.Details["title"] = article.Title
				}
				if excerpt != "" {
					res.Details["excerpt"] = stringutils.Truncate(excerpt, snippetLen)
				}
				return res
			}
		}
	}
	res.Details["body"] = stringutils.Truncate(string(raw), snippetLen)
	return res
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// looksLikeHTML reports whether the body carries HTML markup. The
// Content-Type header alone is not trusted.
func looksLikeHTML(b []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(b[:min(1024, len(b))])))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		return true
	}
	return strings.Contains(head, "<head") || strings.Contains(head, "<body") || strings.Contains(head, "<title")
}
