package adapters

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depman/internal/ports"
	"depman/internal/shared"
	"depman/internal/types"
)

const versionsIndexFile = "versions.txt"

const defaultHTTPResolverRetries = 3
const defaultHTTPResolverRetryDelay = 200 * time.Millisecond
const defaultHTTPResolverTimeout = 60 * time.Second
const maxHTTPResolverRetryDelay = 2 * time.Second

// HTTPResolverAdapter talks to a plain HTTP repository that accepts PUT
// uploads under the same layout as FileResolverAdapter. Versions of a
// module are listed in <module>/versions.txt, one per line.
type HTTPResolverAdapter struct {
	ResolverName string
	BaseURL      string
	Username     string
	Password     string
	Versions     types.VersionScheme
	Timeout      time.Duration
	Retries      int
	RetryDelay   time.Duration
	Client       *http.Client
}

func NewHTTPResolverAdapter(endpoint types.ResolverEndpoint) HTTPResolverAdapter {
	scheme := endpoint.VersionScheme
	if scheme == "" {
		scheme = types.VersionSchemeSemver
	}
	return HTTPResolverAdapter{
		ResolverName: endpoint.Name,
		BaseURL:      strings.TrimRight(strings.TrimSpace(endpoint.URL), "/"),
		Username:     endpoint.Username,
		Password:     endpoint.Password,
		Versions:     scheme,
		Timeout:      normalizeHTTPTimeout(endpoint.TimeoutSec),
		Retries:      normalizeHTTPRetries(endpoint.Retries),
		RetryDelay:   normalizeHTTPRetryDelay(endpoint.RetryDelayMs),
	}
}

func (a HTTPResolverAdapter) Name() string {
	return a.ResolverName
}

func (a HTTPResolverAdapter) Scheme() types.VersionScheme {
	return a.Versions
}

func (a HTTPResolverAdapter) ListVersions(ctx context.Context, group string, module string) ([]string, error) {
	data, found, err := a.fetch(ctx, a.versionsURL(group, module))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("module %s:%s not found in %s", group, module, a.ResolverName))
	}
	return parseVersionsIndex(data), nil
}

func (a HTTPResolverAdapter) Get(ctx context.Context, ref types.ArtifactRef, dest string) error {
	data, found, err := a.fetch(ctx, a.artifactURL(ref))
	if err != nil {
		return err
	}
	if !found {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("artifact %s not found in %s", ref.Path(), a.ResolverName))
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create download directory").
			WithCause(err)
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write downloaded artifact").
			WithCause(err)
	}
	return nil
}

// Put uploads src. Publishing a descriptor also registers its version in
// the module's versions index.
func (a HTTPResolverAdapter) Put(ctx context.Context, ref types.ArtifactRef, src string, overwrite bool) error {
	target := a.artifactURL(ref)
	if !overwrite {
		exists, err := a.exists(ctx, target)
		if err != nil {
			return err
		}
		if exists {
			return errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("artifact %s already exists in %s", ref.Path(), a.ResolverName))
		}
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open artifact for upload").
			WithCause(err)
	}
	if err := a.upload(ctx, target, data); err != nil {
		return err
	}
	log.Ctx(ctx).Debug().
		Str("resolver", a.ResolverName).
		Str("artifact", ref.Path()).
		Msg("artifact uploaded")
	if ref.Type == types.DescriptorArtifactType && ref.Extension == types.DescriptorArtifactExtension {
		return a.registerVersion(ctx, ref.Group, ref.Module, ref.Version)
	}
	return nil
}

func (a HTTPResolverAdapter) registerVersion(ctx context.Context, group string, module string, version string) error {
	indexURL := a.versionsURL(group, module)
	data, _, err := a.fetch(ctx, indexURL)
	if err != nil {
		return err
	}
	versions := parseVersionsIndex(data)
	for _, existing := range versions {
		if existing == version {
			return nil
		}
	}
	versions = append(versions, version)
	var buf bytes.Buffer
	for _, v := range versions {
		buf.WriteString(v)
		buf.WriteByte('\n')
	}
	return a.upload(ctx, indexURL, buf.Bytes())
}

// fetch returns found=false on 404.
func (a HTTPResolverAdapter) fetch(ctx context.Context, target string) ([]byte, bool, error) {
	resp, err := a.send(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read http response").
			WithCause(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, a.statusError(resp.StatusCode, target, body)
	}
	return body, true, nil
}

func (a HTTPResolverAdapter) exists(ctx context.Context, target string) (bool, error) {
	resp, err := a.send(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	default:
		return false, a.statusError(resp.StatusCode, target, nil)
	}
}

func (a HTTPResolverAdapter) upload(ctx context.Context, target string, data []byte) error {
	resp, err := a.send(ctx, http.MethodPut, target, data)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return a.statusError(resp.StatusCode, target, body)
}

// send retries network failures, 5xx and 429 responses with a capped
// exponential backoff. Any other response is handed back to the caller.
func (a HTTPResolverAdapter) send(ctx context.Context, method string, target string, body []byte) (*http.Response, error) {
	if strings.TrimSpace(a.BaseURL) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("resolver %s has no url", a.ResolverName))
	}
	retries := normalizeHTTPRetries(a.Retries)
	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, reader)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create http request").
				WithCause(err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/octet-stream")
		}
		a.applyBasicAuth(req)
		resp, err := a.client().Do(req)
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}
		if err == nil {
			data, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = shared.HTTPStatusErrorWithBody(resp.StatusCode, target, strings.TrimSpace(string(data)))
		} else {
			lastErr = err
		}
		if attempt == retries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.retryDelay(attempt)):
		}
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("%s %s failed after %d attempts", method, target, retries)).
		WithCause(lastErr)
}

func (a HTTPResolverAdapter) statusError(status int, target string, body []byte) error {
	code := errbuilder.CodeInternal
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = errbuilder.CodePermissionDenied
	case http.StatusConflict:
		code = errbuilder.CodeAlreadyExists
	}
	var cause error
	if len(body) == 0 {
		cause = shared.HTTPStatusError(status, target)
	} else {
		cause = shared.HTTPStatusErrorWithBody(status, target, strings.TrimSpace(string(body)))
	}
	return errbuilder.New().
		WithCode(code).
		WithMsg(fmt.Sprintf("resolver %s rejected request", a.ResolverName)).
		WithCause(cause)
}

func (a HTTPResolverAdapter) applyBasicAuth(req *http.Request) {
	if strings.TrimSpace(a.Password) == "" {
		return
	}
	req.SetBasicAuth(strings.TrimSpace(a.Username), a.Password)
}

func (a HTTPResolverAdapter) client() *http.Client {
	if a.Client != nil {
		return a.Client
	}
	return &http.Client{Timeout: normalizeHTTPTimeoutDuration(a.Timeout)}
}

func (a HTTPResolverAdapter) retryDelay(attempt int) time.Duration {
	base := a.RetryDelay
	if base <= 0 {
		base = defaultHTTPResolverRetryDelay
	}
	delay := base
	for i := 0; i < attempt && delay < maxHTTPResolverRetryDelay; i++ {
		delay *= 2
	}
	if delay > maxHTTPResolverRetryDelay {
		delay = maxHTTPResolverRetryDelay
	}
	jitter := time.Duration(time.Now().UnixNano() % int64(delay/2+1))
	return delay + jitter
}

func (a HTTPResolverAdapter) artifactURL(ref types.ArtifactRef) string {
	return a.BaseURL + "/" + ref.Path()
}

func (a HTTPResolverAdapter) versionsURL(group string, module string) string {
	return fmt.Sprintf("%s/%s/%s/%s", a.BaseURL, group, module, versionsIndexFile)
}

func retryableStatus(status int) bool {
	return status >= http.StatusInternalServerError || status == http.StatusTooManyRequests
}

func parseVersionsIndex(data []byte) []string {
	var versions []string
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		versions = append(versions, line)
	}
	return versions
}

func normalizeHTTPTimeout(value int) time.Duration {
	return normalizeHTTPTimeoutDuration(time.Duration(value) * time.Second)
}

func normalizeHTTPTimeoutDuration(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return defaultHTTPResolverTimeout
	}
	return timeout
}

func normalizeHTTPRetries(value int) int {
	if value <= 0 {
		return defaultHTTPResolverRetries
	}
	return value
}

func normalizeHTTPRetryDelay(value int) time.Duration {
	delay := time.Duration(value) * time.Millisecond
	if delay <= 0 {
		return defaultHTTPResolverRetryDelay
	}
	return delay
}

var _ ports.ResolverPort = HTTPResolverAdapter{}
