package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/rs/zerolog/log"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"

// Options configures the shared browser process.
type Options struct {
	Headless  bool
	BinPath   string        // empty = download the default chromium build
	UserAgent string        // empty = defaultUserAgent
	PageWait  time.Duration // bound for navigation / load waits
}

// Browser wraps a single chromium process. Monitors share the process but
// each owns its own tab.
type Browser struct {
	browser  *rod.Browser
	ua       string
	pageWait time.Duration
}

// Launch starts a chromium instance with flags suited for containers and
// servers, matching how the monitoring host actually runs.
func Launch(ctx context.Context, opts Options) (*Browser, error) {
	bin := opts.BinPath
	if bin == "" {
		log.Info().Msg("No browser binary configured, downloading default")
		path, err := launcher.NewBrowser().Get()
		if err != nil {
			return nil, fmt.Errorf("download browser: %w", err)
		}
		bin = path
	}

	l := launcher.New().
		Headless(opts.Headless).
		Bin(bin).
		NoSandbox(true).
		Set("disable-dev-shm-usage", "true").
		Set("disable-gpu", "true").
		Set("window-size", "1920,1080")

	wsURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().Context(ctx).ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	pageWait := opts.PageWait
	if pageWait <= 0 {
		pageWait = 60 * time.Second
	}

	log.Info().Str("bin", bin).Bool("headless", opts.Headless).Msg("Browser started")
	return &Browser{browser: b, ua: ua, pageWait: pageWait}, nil
}

// SetCookies attaches session cookies to the browser, making every new tab
// authenticated. Session material is handed in already valid; no login or
// refresh logic lives here.
func (b *Browser) SetCookies(cookies []*proto.NetworkCookieParam) error {
	if len(cookies) == 0 {
		return nil
	}
	return b.browser.SetCookies(cookies)
}

// NewPage opens a dedicated tab with the stealth script applied.
func (b *Browser) NewPage(ctx context.Context) (Page, error) {
	p, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	if _, err := p.EvalOnNewDocument(stealth.JS); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("apply stealth script: %w", err)
	}
	if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.ua}); err != nil {
		log.Warn().Err(err).Msg("Set user agent failed")
	}
	return &rodPage{page: p, wait: b.pageWait}, nil
}

// Close shuts the browser process down.
func (b *Browser) Close() error {
	return b.browser.Close()
}

type rodPage struct {
	page *rod.Page
	wait time.Duration
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	pg := p.page.Context(ctx).Timeout(p.wait)
	if err := pg.Navigate(url); err != nil {
		return mapRodErr(fmt.Errorf("navigate %s: %w", url, err))
	}
	if err := pg.WaitLoad(); err != nil {
		return mapRodErr(fmt.Errorf("wait load %s: %w", url, err))
	}
	return nil
}

func (p *rodPage) Refresh(ctx context.Context) error {
	pg := p.page.Context(ctx).Timeout(p.wait)
	if err := pg.Reload(); err != nil {
		return mapRodErr(fmt.Errorf("reload: %w", err))
	}
	if err := pg.WaitLoad(); err != nil {
		return mapRodErr(fmt.Errorf("wait load after reload: %w", err))
	}
	return nil
}

func (p *rodPage) FindFirst(locators []Locator) (Element, int, error) {
	for i, loc := range locators {
		var (
			found bool
			el    *rod.Element
			err   error
		)
		switch loc.Kind {
		case LocatorXPath:
			found, el, err = p.page.HasX(loc.Expr)
		default:
			found, el, err = p.page.Has(loc.Expr)
		}
		if err != nil || !found {
			continue
		}
		return &rodElement{el: el}, i, nil
	}
	return nil, -1, ErrNotFound
}

func (p *rodPage) All(locator Locator) ([]Element, error) {
	var (
		els rod.Elements
		err error
	)
	switch locator.Kind {
	case LocatorXPath:
		els, err = p.page.ElementsX(locator.Expr)
	default:
		els, err = p.page.Elements(locator.Expr)
	}
	if err != nil {
		return nil, mapRodErr(err)
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out, nil
}

func (p *rodPage) CurrentURL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *rodPage) HTML() (string, error) {
	return p.page.HTML()
}

func (p *rodPage) Close() error {
	return p.page.Close()
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) Attribute(name string) (string, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", mapRodErr(err)
	}
	if v == nil {
		return "", ErrNotFound
	}
	return *v, nil
}

func (e *rodElement) Click() error {
	return mapRodErr(e.el.Click(proto.InputMouseButtonLeft, 1))
}

func (e *rodElement) FindFirst(locators []Locator) (Element, int, error) {
	for i, loc := range locators {
		var (
			found bool
			el    *rod.Element
			err   error
		)
		switch loc.Kind {
		case LocatorXPath:
			found, el, err = e.el.HasX(loc.Expr)
		default:
			found, el, err = e.el.Has(loc.Expr)
		}
		if err != nil || !found {
			continue
		}
		return &rodElement{el: el}, i, nil
	}
	return nil, -1, ErrNotFound
}

func (e *rodElement) All(locator Locator) ([]Element, error) {
	var (
		els rod.Elements
		err error
	)
	switch locator.Kind {
	case LocatorXPath:
		els, err = e.el.ElementsX(locator.Expr)
	default:
		els, err = e.el.Elements(locator.Expr)
	}
	if err != nil {
		return nil, mapRodErr(err)
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out, nil
}

// mapRodErr folds rod/context failures into the package taxonomy so callers
// can branch with errors.Is.
func mapRodErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
