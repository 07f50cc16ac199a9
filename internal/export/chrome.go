package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultTimeout bounds one browser operation.
const DefaultTimeout = 30 * time.Second

// pointsPerInch converts PDF points to the inches used by the print API.
const pointsPerInch = 72.0

// Chrome rasterizes HTML regions and builds PDFs with a headless Chrome instance.
// Each call starts its own browser process. Requires Chrome/Chromium on the system.
type Chrome struct {
	ExecPath string
	Timeout  time.Duration
}

func (c *Chrome) browser(ctx context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	return timeoutCtx, func() {
		cancelTimeout()
		cancelBrowser()
		cancelAlloc()
	}
}

// loadHTML replaces the blank page's document with html.
func loadHTML(html string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
	})
}

// Rasterize renders html and captures the element with the given id as a PNG at scale.
func (c *Chrome) Rasterize(ctx context.Context, html, elementID string, scale float64) ([]byte, error) {
	browserCtx, cancel := c.browser(ctx)
	defer cancel()

	selector := "#" + elementID
	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		loadHTML(html),
		chromedp.WaitVisible(selector, chromedp.ByID),
		chromedp.ScreenshotScale(selector, scale, &buf, chromedp.ByID),
	)
	if err != nil {
		return nil, fmt.Errorf("browser rasterization failed: %w", err)
	}
	return buf, nil
}

// BuildPDF prints a single A4 page holding the PNG at the given placement.
func (c *Chrome) BuildPDF(ctx context.Context, png []byte, at Placement) ([]byte, error) {
	browserCtx, cancel := c.browser(ctx)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		loadHTML(pageHTML(png, at)),
		chromedp.WaitReady("img", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPaperWidth(PageWidthPt / pointsPerInch).
				WithPaperHeight(PageHeightPt / pointsPerInch).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPrintBackground(true).
				WithPageRanges("1").
				Do(ctx)
			pdf = data
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("browser PDF printing failed: %w", err)
	}
	return pdf, nil
}

// pageHTML lays out one page with the image absolutely positioned in points.
func pageHTML(png []byte, at Placement) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>`)
	fmt.Fprintf(&sb, "@page { size: %.2fpt %.2fpt; margin: 0; }", PageWidthPt, PageHeightPt)
	fmt.Fprintf(&sb, "html, body { margin: 0; padding: 0; width: %.2fpt; height: %.2fpt; overflow: hidden; position: relative; }", PageWidthPt, PageHeightPt)
	fmt.Fprintf(&sb, "img { position: absolute; left: %.2fpt; top: %.2fpt; width: %.2fpt; height: %.2fpt; }", at.X, at.Y, at.Width, at.Height)
	sb.WriteString(`</style></head><body><img alt="" src="data:image/png;base64,`)
	sb.WriteString(base64.StdEncoding.EncodeToString(png))
	sb.WriteString(`"></body></html>`)
	return sb.String()
}
