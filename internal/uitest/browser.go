package uitest

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// Options configures the UI test executor.
type Options struct {
	BaseURL    string
	ReportDir  string
	Headless   bool
	ChromePath string

	// Per-condition wait budget, 10s unless overridden
	WaitTimeout time.Duration
}

func (o Options) waitTimeout() time.Duration {
	if o.WaitTimeout > 0 {
		return o.WaitTimeout
	}
	return 10 * time.Second
}

// newBrowserContext builds a fresh Chrome allocator + tab for one test case.
// Every case gets its own browser so a crashed tab cannot leak into the next
// case; the returned cancel tears the whole stack down.
func newBrowserContext(parent context.Context, opts Options) (context.Context, context.CancelFunc) {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-plugins", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Headless)
	}
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)

	cancel := func() {
		ctxCancel()
		allocCancel()
	}
	return ctx, cancel
}
