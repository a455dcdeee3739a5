// Package source locates curriculum documents for a study program, either
// by downloading them into a local cache or by picking one out of a
// directory of previously collected files.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// DefaultUserAgent is sent with every request; some program sites reject
// the Go default.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

const maxDownloadBytes = 100 << 20

var programIDRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ErrInvalidProgramID is returned for ids that cannot be used as file names.
var ErrInvalidProgramID = errors.New("invalid program id")

// ValidateProgramID rejects ids containing anything besides letters,
// digits, '_' and '-'.
func ValidateProgramID(id string) error {
	if !programIDRe.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidProgramID, id)
	}
	return nil
}

// CachePath is where Fetch stores the curriculum of programID.
func CachePath(dir, programID string) string {
	return filepath.Join(dir, programID+"_curriculum.pdf")
}

// Fetcher downloads program pages and curriculum documents over HTTP.
type Fetcher struct {
	dir        string
	httpClient *http.Client
	userAgent  string
	log        *slog.Logger
	backoff    func(attempt int) time.Duration
}

func NewFetcher(dir string, timeout time.Duration, log *slog.Logger) *Fetcher {
	return &Fetcher{
		dir: dir,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: DefaultUserAgent,
		log:       log,
		backoff:   Backoff,
	}
}

// Dir returns the cache directory.
func (f *Fetcher) Dir() string {
	return f.dir
}

// Fetch returns the cached curriculum for programID, downloading it from
// url first if there is no cached copy.
func (f *Fetcher) Fetch(ctx context.Context, url, programID string) (path string, cached bool, err error) {
	if err := ValidateProgramID(programID); err != nil {
		return "", false, err
	}
	path = CachePath(f.dir, programID)
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		f.log.Debug("using cached document", "program_id", programID, "path", path)
		return path, true, nil
	}
	if err := f.Download(ctx, url, programID); err != nil {
		return "", false, err
	}
	return path, false, nil
}

// Download fetches url into the cache path of programID, replacing any
// cached copy. The file is written under a temporary name and renamed so a
// failed download never leaves a truncated document behind.
func (f *Fetcher) Download(ctx context.Context, url, programID string) error {
	if err := ValidateProgramID(programID); err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	path := CachePath(f.dir, programID)

	return f.withRetry(ctx, url, func(body io.Reader) error {
		tmp, err := os.CreateTemp(f.dir, ".download-*")
		if err != nil {
			return fmt.Errorf("create temp file: %w", err)
		}
		tmpPath := tmp.Name()
		n, err := io.Copy(tmp, io.LimitReader(body, maxDownloadBytes+1))
		if cerr := tmp.Close(); err == nil {
			err = cerr
		}
		if err == nil && n > maxDownloadBytes {
			err = fmt.Errorf("document exceeds %d bytes", maxDownloadBytes)
		}
		if err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("write document: %w", err)
		}
		if err := os.Rename(tmpPath, path); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("store document: %w", err)
		}
		f.log.Info("document downloaded", "program_id", programID, "path", path, "bytes", n)
		return nil
	})
}

// Get returns the body of url, retrying transient failures.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	err := f.withRetry(ctx, url, func(body io.Reader) error {
		var err error
		data, err = io.ReadAll(io.LimitReader(body, maxDownloadBytes))
		return err
	})
	return data, err
}

// withRetry issues a GET and hands a 200 body to consume. 429 and 5xx
// responses are retried up to MaxRetries times with backoff.
func (f *Fetcher) withRetry(ctx context.Context, url string, consume func(io.Reader) error) error {
	var lastErr error
	for attempt := range MaxRetries {
		lastErr = f.get(ctx, url, consume)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		f.log.Warn("retryable fetch error", "url", url, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(f.backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

func (f *Fetcher) get(ctx context.Context, url string, consume func(io.Reader) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &RetryableError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("get %s: status %d: %s", url, resp.StatusCode, truncate(string(body), 200))
	}
	return consume(resp.Body)
}

// Close releases idle connections.
func (f *Fetcher) Close() {
	f.httpClient.CloseIdleConnections()
}
