// Package fetch retrieves the raw text of a document from an HTTP(S) URL, a
// local file or stdin. It never decodes the body.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oakwood-commons/jsonpeek/pkg/logger"
)

// StdinAddress selects standard input as the source.
const StdinAddress = "-"

// DefaultMaxBytes bounds a body when Options.MaxBytes is zero.
const DefaultMaxBytes int64 = 32 << 20

var (
	// ErrEmptyAddress is returned for a blank address.
	ErrEmptyAddress = errors.New("please enter a URL")
	// ErrStatus is wrapped by every *StatusError.
	ErrStatus = errors.New("unexpected HTTP status")
	// ErrTooLarge is returned when a body exceeds the configured limit.
	ErrTooLarge = errors.New("document exceeds size limit")
	// ErrUnsupportedScheme is returned for schemes other than http, https
	// and file.
	ErrUnsupportedScheme = errors.New("unsupported address scheme")
)

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	Address string
	Code    int
	Status  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.Address, e.Status)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Source identifies where a Result came from.
type Source int

const (
	SourceHTTP Source = iota
	SourceFile
	SourceStdin
)

func (s Source) String() string {
	switch s {
	case SourceHTTP:
		return "http"
	case SourceFile:
		return "file"
	default:
		return "stdin"
	}
}

// Result is a fetched document body plus transfer metadata.
type Result struct {
	Address     string
	Source      Source
	Body        []byte
	StatusCode  int
	ContentType string
	Elapsed     time.Duration
}

// Text returns the body as a string.
func (r Result) Text() string { return string(r.Body) }

// Options configures a Fetcher.
type Options struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
	Headers   map[string]string
	// Stdin is read for the "-" address. Nil means os.Stdin.
	Stdin io.Reader
	// Client overrides the HTTP client; Timeout still applies per request.
	Client *http.Client
}

// Fetcher retrieves documents. It is safe for concurrent use.
type Fetcher struct {
	opts   Options
	client *http.Client
}

// New returns a Fetcher configured by opts.
func New(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	return &Fetcher{opts: opts, client: client}
}

// Fetch retrieves the document at address: http(s) URLs with GET, file://
// URLs and plain paths from disk, "-" from stdin.
func (f *Fetcher) Fetch(ctx context.Context, address string) (Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Result{}, ErrEmptyAddress
	}
	lgr := logger.FromContext(ctx).WithValues(logger.AddressKey, address)
	start := time.Now()

	var (
		res Result
		err error
	)
	switch {
	case address == StdinAddress:
		res, err = f.fetchStdin()
	case hasScheme(address, "http"), hasScheme(address, "https"):
		res, err = f.fetchHTTP(ctx, address)
	case hasScheme(address, "file"):
		var path string
		path, err = filePath(address)
		if err == nil {
			res, err = f.fetchFile(path)
		}
	case strings.Contains(address, "://"):
		err = fmt.Errorf("%w: %s", ErrUnsupportedScheme, address)
	default:
		res, err = f.fetchFile(address)
	}
	res.Address = address
	res.Elapsed = time.Since(start)
	if err != nil {
		lgr.V(1).Info("fetch failed", "error", err.Error(), logger.DurationKey, res.Elapsed.String())
		return res, err
	}
	lgr.V(1).Info("fetched", "source", res.Source.String(), logger.StatusKey, res.StatusCode,
		logger.BytesKey, len(res.Body), logger.DurationKey, res.Elapsed.String())
	return res, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, address string) (Result, error) {
	res := Result{Source: SourceHTTP}
	if f.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return res, fmt.Errorf("build request: %w", err)
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	for k, v := range f.opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return res, fmt.Errorf("GET %s: %w", address, err)
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	res.ContentType = resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return res, &StatusError{Address: address, Code: resp.StatusCode, Status: resp.Status}
	}
	res.Body, err = f.readLimited(resp.Body)
	if err != nil {
		return res, fmt.Errorf("read body of %s: %w", address, err)
	}
	return res, nil
}

func (f *Fetcher) fetchFile(path string) (Result, error) {
	res := Result{Source: SourceFile}
	fh, err := os.Open(path)
	if err != nil {
		return res, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()
	if st, err := fh.Stat(); err == nil && st.IsDir() {
		return res, fmt.Errorf("open %s: is a directory", path)
	}
	res.Body, err = f.readLimited(fh)
	if err != nil {
		return res, fmt.Errorf("read %s: %w", path, err)
	}
	return res, nil
}

func (f *Fetcher) fetchStdin() (Result, error) {
	res := Result{Source: SourceStdin}
	in := f.opts.Stdin
	if in == nil {
		in = os.Stdin
	}
	body, err := f.readLimited(in)
	if err != nil {
		return res, fmt.Errorf("read stdin: %w", err)
	}
	res.Body = body
	return res, nil
}

// readLimited reads r fully, failing with ErrTooLarge past MaxBytes.
func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, f.opts.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.opts.MaxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, f.opts.MaxBytes)
	}
	return body, nil
}

func hasScheme(address, scheme string) bool {
	return len(address) > len(scheme)+3 && strings.EqualFold(address[:len(scheme)+3], scheme+"://")
}

// filePath converts a file:// URL into a local path.
func filePath(address string) (string, error) {
	u, err := url.Parse(address)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", address, err)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("%w: remote file host %q", ErrUnsupportedScheme, u.Host)
	}
	return filepath.FromSlash(u.Path), nil
}
