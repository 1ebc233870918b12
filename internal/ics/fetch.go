package ics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	appLog "weekcal/internal/log"
	"weekcal/internal/model"
)

// Source is one subscribed ICS feed. Its ID becomes the CalendarID of the
// events it yields; Color applies to events without a COLOR of their own.
type Source struct {
	ID    string
	URL   string
	Color model.Color
}

// Feed is the body of one source, fresh or from the disk cache.
type Feed struct {
	Source    Source
	Body      []byte
	FromCache bool
}

var errNotModifiedNoCache = errors.New("304 Not Modified without a cached body")

// cacheMeta is stored next to each cached body as meta.json.
type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fetcher downloads feeds with conditional requests (ETag and
// Last-Modified) and falls back to the last good body when the server is
// unreachable or errors.
type Fetcher struct {
	client   *http.Client
	cacheDir string
}

// NewFetcher caches under cacheDir, one subdirectory per feed URL.
func NewFetcher(cacheDir string, timeout time.Duration) *Fetcher {
	if cacheDir == "" {
		cacheDir = "./var/ics-cache"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		cacheDir: cacheDir,
	}
}

// Load fetches and parses every source. A failing source is reported in
// the error slice and does not stop the others.
func (f *Fetcher) Load(ctx context.Context, sources []Source, loc *time.Location) ([]model.Event, []error) {
	var (
		events []model.Event
		errs   []error
	)
	for _, src := range sources {
		feed, err := f.Fetch(ctx, src)
		if err != nil {
			errs = append(errs, fmt.Errorf("fetch %s: %w", src.ID, err))
			continue
		}
		parsed, err := ParseIn(src.ID, feed.Body, loc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for i := range parsed {
			if parsed[i].Color == "" {
				parsed[i].Color = src.Color
			}
		}
		events = append(events, parsed...)
	}
	return events, errs
}

// Fetch retrieves one feed.
func (f *Fetcher) Fetch(ctx context.Context, src Source) (Feed, error) {
	if src.URL == "" {
		return Feed{}, errors.New("source URL is empty")
	}

	dir := f.cacheDirFor(src.URL)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return Feed{}, fmt.Errorf("create cache dir: %w", err)
	}
	meta, _ := readMeta(dir)
	cached, _ := os.ReadFile(filepath.Join(dir, "body.ics"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return Feed{}, err
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	fallback := func(reason error) (Feed, error) {
		if len(cached) == 0 {
			return Feed{}, reason
		}
		appLog.Warn("ics fetch failed, using cached body", "id", src.ID, "url", redactURL(src.URL), "reason", reason.Error())
		return Feed{Source: src, Body: cached, FromCache: true}, nil
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fallback(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fallback(err)
		}
		meta = cacheMeta{
			URL:          src.URL,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
		}
		if err := writeCache(dir, meta, body); err != nil {
			appLog.Error("ics cache save failed", err, "id", src.ID, "url", redactURL(src.URL))
		}
		appLog.Info("ics fetched", "id", src.ID, "url", redactURL(src.URL), "bytes", len(body))
		return Feed{Source: src, Body: body}, nil

	case http.StatusNotModified:
		if len(cached) == 0 {
			return Feed{}, errNotModifiedNoCache
		}
		appLog.Debug("ics not modified", "id", src.ID, "url", redactURL(src.URL))
		return Feed{Source: src, Body: cached, FromCache: true}, nil

	default:
		return fallback(fmt.Errorf("unexpected status %s", resp.Status))
	}
}

func (f *Fetcher) cacheDirFor(u string) string {
	sum := sha256.Sum256([]byte(u))
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:8]))
}

func readMeta(dir string) (cacheMeta, error) {
	var meta cacheMeta
	data, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		return meta, err
	}
	err = json.Unmarshal(data, &meta)
	return meta, err
}

// writeCache writes the body before the metadata so meta.json never
// describes a body that is not on disk.
func writeCache(dir string, meta cacheMeta, body []byte) error {
	if err := os.WriteFile(filepath.Join(dir, "body.ics"), body, 0o600); err != nil {
		return err
	}
	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "meta.json"), data, 0o600)
}

// redactURL keeps only scheme and host; feed paths often embed secrets.
func redactURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return "ics://...(redacted)"
	}
	return parsed.Scheme + "://" + parsed.Host + "/...(redacted)"
}
