package browse

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	pw "github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"
)

// Session is the narrow browser surface the fetch state machine needs. The
// production implementation wraps one isolated playwright browser context;
// tests substitute a fake.
type Session interface {
	// Navigate opens the URL and waits for the load cycle, bounded by timeout.
	Navigate(url string, timeout time.Duration) error
	// WaitVisible waits for the selector to become visible, bounded by timeout.
	WaitVisible(selector string, timeout time.Duration) bool
	// HasFrame reports whether the page embeds any child frame.
	HasFrame() bool
	// FrameHTML returns the markup of the named frame, or of the first frame
	// whose URL contains urlHint.
	FrameHTML(name, urlHint string) (string, bool)
	// HTML returns the top-level page markup.
	HTML() (string, error)
	// BodyText returns the raw rendered body text with no cleaning.
	BodyText() (string, error)
	// PDFLink returns the absolute URL of a PDF acquisition affordance.
	PDFLink() (string, bool)
	// TextViewLink returns the absolute URL of an alternate text-view page.
	TextViewLink() (string, bool)
	// Settle sleeps in page time, letting late scripts finish.
	Settle(d time.Duration)
	Close()
}

// A realistic desktop identity; the platform serves a degraded shell to
// clients it does not recognize.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// Browser owns one playwright process and browser shared across fetches.
// Each fetch gets its own context and page via NewSession.
type Browser struct {
	UserAgent string

	pw      *pw.Playwright
	browser pw.Browser
}

// Launch starts playwright and a headless Chromium instance.
func Launch(headless bool) (*Browser, error) {
	run, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	browser, err := run.Chromium.Launch(pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(headless),
	})
	if err != nil {
		_ = run.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	return &Browser{UserAgent: defaultUserAgent, pw: run, browser: browser}, nil
}

func (b *Browser) Close() error {
	var first error
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			first = err
		}
	}
	if b.pw != nil {
		if err := b.pw.Stop(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewSession opens an isolated browser context with its own page.
func (b *Browser) NewSession() (Session, error) {
	ua := b.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	bctx, err := b.browser.NewContext(pw.BrowserNewContextOptions{
		UserAgent: pw.String(ua),
		Viewport:  &pw.Size{Width: 1280, Height: 960},
	})
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}
	return &playwrightSession{bctx: bctx, page: page}, nil
}

type playwrightSession struct {
	bctx pw.BrowserContext
	page pw.Page
}

func (s *playwrightSession) Navigate(url string, timeout time.Duration) error {
	_, err := s.page.Goto(url, pw.PageGotoOptions{
		Timeout:   pw.Float(float64(timeout.Milliseconds())),
		WaitUntil: pw.WaitUntilStateDomcontentloaded,
	})
	return err
}

func (s *playwrightSession) WaitVisible(selector string, timeout time.Duration) bool {
	err := s.page.Locator(selector).First().WaitFor(pw.LocatorWaitForOptions{
		State:   pw.WaitForSelectorStateVisible,
		Timeout: pw.Float(float64(timeout.Milliseconds())),
	})
	return err == nil
}

func (s *playwrightSession) HasFrame() bool {
	return len(s.page.Frames()) > 1
}

func (s *playwrightSession) FrameHTML(name, urlHint string) (string, bool) {
	for _, fr := range s.page.Frames() {
		if fr.Name() == name {
			if html, err := fr.Content(); err == nil {
				return html, true
			}
		}
	}
	for _, fr := range s.page.Frames() {
		if urlHint != "" && strings.Contains(fr.URL(), urlHint) {
			if html, err := fr.Content(); err == nil {
				return html, true
			}
		}
	}
	return "", false
}

func (s *playwrightSession) HTML() (string, error) {
	return s.page.Content()
}

func (s *playwrightSession) BodyText() (string, error) {
	return s.page.Locator("body").InnerText()
}

var onclickPDFRe = regexp.MustCompile(`['"]([^'"]+\.[pP][dD][fF])['"]`)

func (s *playwrightSession) PDFLink() (string, bool) {
	anchors, err := s.page.Locator("a[href]").All()
	if err == nil {
		for _, a := range anchors {
			href, err := a.GetAttribute("href")
			if err != nil || href == "" {
				continue
			}
			if strings.Contains(strings.ToLower(href), ".pdf") {
				return resolveURL(s.page.URL(), href), true
			}
		}
	}
	// Some tenants open the PDF from a button handler instead of a link.
	buttons, err := s.page.Locator("[onclick]").All()
	if err == nil {
		for _, el := range buttons {
			onclick, err := el.GetAttribute("onclick")
			if err != nil {
				continue
			}
			if m := onclickPDFRe.FindStringSubmatch(onclick); m != nil {
				return resolveURL(s.page.URL(), m[1]), true
			}
		}
	}
	return "", false
}

func (s *playwrightSession) TextViewLink() (string, bool) {
	anchors, err := s.page.Locator("a[href]").All()
	if err != nil {
		return "", false
	}
	for _, a := range anchors {
		href, err := a.GetAttribute("href")
		if err != nil || href == "" {
			continue
		}
		text, _ := a.InnerText()
		if strings.Contains(text, "テキスト表示") || strings.Contains(href, "TextView") {
			return resolveURL(s.page.URL(), href), true
		}
	}
	return "", false
}

func (s *playwrightSession) Settle(d time.Duration) {
	s.page.WaitForTimeout(float64(d.Milliseconds()))
}

func (s *playwrightSession) Close() {
	if err := s.page.Close(); err != nil {
		log.Debug().Err(err).Msg("page close")
	}
	if err := s.bctx.Close(); err != nil {
		log.Debug().Err(err).Msg("browser context close")
	}
}
