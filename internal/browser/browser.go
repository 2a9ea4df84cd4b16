package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ErrRenderFailed wraps navigation and selector-wait failures so callers can
// treat every render problem as one page-level condition.
var ErrRenderFailed = errors.New("render failed")

// Browser owns the process-wide playwright driver and launched Chromium
// instance. Every render opens its own isolated browsing context so cookies
// and storage never leak between fetches.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    *Options
	logger  *slog.Logger
}

type Options struct {
	Headless       bool
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	TimezoneID     string
	Locale         string
	ExtraHeaders   map[string]string
}

func DefaultOptions() *Options {
	return &Options{
		Headless:       true,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		AcceptLanguage: "pt-BR,pt;q=0.9,en;q=0.8",
		TimezoneID:     "America/Sao_Paulo",
		Locale:         "pt-BR",
		ExtraHeaders: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Encoding": "gzip, deflate, br",
			"DNT":             "1",
		},
	}
}

func New(opts *Options) (*Browser, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--window-size=1920,1080",
			"--user-agent=" + opts.UserAgent,
		},
	}

	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &Browser{
		pw:      pw,
		browser: browser,
		opts:    opts,
		logger:  slog.Default().With("component", "browser"),
	}, nil
}

// RenderResult carries the rendered HTML plus the document title, which the
// enumeration profile inspects for anti-bot challenge pages.
type RenderResult struct {
	HTML  string
	Title string
}

// Render loads url in a fresh browsing context, waits for waitSelector to
// appear, and returns the fully rendered HTML. The context and page are
// always closed before returning.
func (b *Browser) Render(ctx context.Context, url, waitSelector string, timeout time.Duration) (string, error) {
	res, err := b.RenderPage(ctx, url, waitSelector, timeout)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}

// RenderPage is Render plus the page title.
func (b *Browser) RenderPage(ctx context.Context, url, waitSelector string, timeout time.Duration) (*RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bctx, err := b.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:         &b.opts.UserAgent,
		AcceptDownloads:   playwright.Bool(false),
		JavaScriptEnabled: playwright.Bool(true),
		Locale:            &b.opts.Locale,
		TimezoneId:        &b.opts.TimezoneID,
		Viewport: &playwright.Size{
			Width:  b.opts.ViewportWidth,
			Height: b.opts.ViewportHeight,
		},
		ExtraHttpHeaders: b.opts.ExtraHeaders,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create context: %w", ErrRenderFailed, err)
	}
	defer bctx.Close()

	page, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create page: %w", ErrRenderFailed, err)
	}
	defer page.Close()

	timeoutMs := playwright.Float(float64(timeout.Milliseconds()))

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   timeoutMs,
	}); err != nil {
		return nil, fmt.Errorf("%w: navigation to %s: %w", ErrRenderFailed, url, err)
	}

	if waitSelector != "" {
		if _, err := page.WaitForSelector(waitSelector, playwright.PageWaitForSelectorOptions{
			Timeout: timeoutMs,
		}); err != nil {
			return nil, fmt.Errorf("%w: waiting for %q on %s: %w", ErrRenderFailed, waitSelector, url, err)
		}
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read page content: %w", ErrRenderFailed, err)
	}

	title, err := page.Title()
	if err != nil {
		b.logger.Warn("failed to read page title", "url", url, "error", err)
		title = ""
	}

	return &RenderResult{HTML: html, Title: title}, nil
}

func (b *Browser) Close() error {
	var errs []error

	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}

	return nil
}
