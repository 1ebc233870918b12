package capture

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	appLog "weekcal/internal/log"
)

// Default capture parameters. They match the default view size in config.
const (
	DefaultWidth      = 1280
	DefaultHeight     = 800
	DefaultTimeoutSec = 30

	// ReadySelector is what /calendar renders once the grid is in place.
	ReadySelector = `[data-ready="true"]`
)

// Options defines parameters for a Chromium-based screenshot capture.
type Options struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/calendar".
	URL string

	// OutputPath is where the PNG is written. Empty means "return only".
	OutputPath string

	// Width and Height are the viewport dimensions in pixels.
	Width  int
	Height int

	// Timeout bounds the entire capture operation.
	Timeout time.Duration

	// Settle is an extra delay after the ready selector appears, for the
	// last paints.
	Settle time.Duration

	// NoSandbox starts Chromium with --no-sandbox (containers, root).
	NoSandbox bool
}

func (o *Options) normalize() error {
	if o.URL == "" {
		return errors.New("capture: URL is required")
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}
	if o.Settle < 0 {
		o.Settle = 0
	}
	return nil
}

// CalendarURL builds the /calendar address for base (e.g.
// "http://127.0.0.1:8080") and an optional YYYY-MM-DD date.
func CalendarURL(base, date string) (string, error) {
	if base == "" {
		return "", errors.New("capture: base URL is required")
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("capture: parse base URL: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/calendar"
	if date != "" {
		q := u.Query()
		q.Set("date", date)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// CalendarPNG launches a headless Chromium via chromedp, navigates to
// opts.URL (normally /calendar), waits for ReadySelector and captures a
// full-page PNG. When OutputPath is set the PNG is also written there.
func CalendarPNG(parentCtx context.Context, opts Options) ([]byte, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(parentCtx, allocOpts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(ReadySelector, chromedp.ByQuery),
	}
	if opts.Settle > 0 {
		tasks = append(tasks, chromedp.Sleep(opts.Settle))
	}
	tasks = append(tasks, chromedp.FullScreenshot(&png, 100))

	start := time.Now()
	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("capture: chromedp run failed: %w", err)
	}
	appLog.Info("calendar captured", "bytes", len(png), "elapsed", time.Since(start).String())

	if opts.OutputPath != "" {
		if err := writeFile(opts.OutputPath, png); err != nil {
			return png, err
		}
	}
	return png, nil
}

// writeFile replaces path atomically so /preview.png never serves a
// half-written image.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("capture: create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".preview-*.png")
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
