package report

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var chromeCandidates = []string{
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/snap/bin/chromium",
}

// DetectChromePath returns configured when it exists, otherwise the first
// well-known Chromium binary found, or "" to let chromedp search PATH.
func DetectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}
	for _, path := range chromeCandidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ChromiumEngine prints HTML to PDF with a local headless browser.
type ChromiumEngine struct {
	execPath string
	timeout  time.Duration
}

// NewChromiumEngine builds the engine. An empty execPath lets chromedp
// locate the browser.
func NewChromiumEngine(execPath string, timeout time.Duration) *ChromiumEngine {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromiumEngine{execPath: execPath, timeout: timeout}
}

// Name identifies the engine in logs and health output.
func (e *ChromiumEngine) Name() string {
	return EngineChromium
}

// Ping reports whether a browser binary is configured and present.
func (e *ChromiumEngine) Ping(ctx context.Context) error {
	if e.execPath == "" {
		return fmt.Errorf("%w: chromium binary not found", ErrEngineUnavailable)
	}
	if _, err := os.Stat(e.execPath); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	return nil
}

// RenderHTML loads html into a blank tab and prints it on A4 paper.
func (e *ChromiumEngine) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("enable-print-preview", true),
	)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdfBuf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return pdfBuf, nil
}
