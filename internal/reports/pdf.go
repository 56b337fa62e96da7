package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	applog "kitchenops/internal/log"
)

// ErrPDFUnavailable is returned when no renderer is configured.
var ErrPDFUnavailable = errors.New("reports: pdf rendering is not configured")

// PDFRenderer turns an HTML document into PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// ChromeRenderer prints HTML through a headless Chrome controlled by go-rod. The browser is
// started on first use and reused until Close.
type ChromeRenderer struct {
	bin        string
	controlURL string
	timeout    time.Duration

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// NewChromeRenderer configures a renderer. controlURL connects to a running browser; otherwise
// bin (or the launcher's default lookup) is started headless.
func NewChromeRenderer(bin, controlURL string, timeout time.Duration) *ChromeRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromeRenderer{bin: bin, controlURL: controlURL, timeout: timeout}
}

func (c *ChromeRenderer) connect(ctx context.Context) (*rod.Browser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser != nil {
		if _, err := c.browser.Version(); err == nil {
			return c.browser, nil
		}
		applog.Warn(ctx, "stale chrome connection, reconnecting")
		_ = c.browser.Close()
		c.browser = nil
	}

	controlURL := c.controlURL
	if controlURL == "" {
		l := launcher.New().Headless(true)
		if c.bin != "" {
			l = l.Bin(c.bin)
		}
		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		c.launcher = l
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	c.browser = browser
	applog.Debug(ctx, "chrome connected", "control_url", controlURL)
	return browser, nil
}

// Render loads html into a fresh page and prints it to A4 with backgrounds.
func (c *ChromeRenderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	browser, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := page.SetDocumentContent(string(html)); err != nil {
		return nil, fmt.Errorf("set document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for load: %w", err)
	}

	paperWidth, paperHeight := 8.27, 11.69
	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PaperWidth:        &paperWidth,
		PaperHeight:       &paperHeight,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return data, nil
}

// Close shuts the browser down and cleans up a launched process.
func (c *ChromeRenderer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.browser != nil {
		err = c.browser.Close()
		c.browser = nil
	}
	if c.launcher != nil {
		c.launcher.Kill()
		c.launcher.Cleanup()
		c.launcher = nil
	}
	return err
}

// RenderPDF renders component to HTML and prints it with renderer.
func RenderPDF(ctx context.Context, renderer PDFRenderer, component templ.Component) ([]byte, error) {
	if renderer == nil {
		return nil, ErrPDFUnavailable
	}
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return renderer.Render(ctx, buf.Bytes())
}
