package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const defaultPDFTimeout = 30 * time.Second

// ChromeRenderer prints HTML to PDF with a headless Chrome instance.
// Requires Chrome/Chromium to be installed on the system.
type ChromeRenderer struct {
	execPath string
	timeout  time.Duration
	logger   *zap.Logger
}

func NewChromeRenderer(execPath string, timeout time.Duration, logger *zap.Logger) *ChromeRenderer {
	if timeout <= 0 {
		timeout = defaultPDFTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromeRenderer{execPath: execPath, timeout: timeout, logger: logger}
}

func (r *ChromeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.timeout)
	defer cancel()

	r.logger.Debug("printing resume to pdf", zap.Int("html_bytes", len(html)))

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}

	r.logger.Debug("resume pdf printed", zap.Int("pdf_bytes", len(pdf)))

	return pdf, nil
}
