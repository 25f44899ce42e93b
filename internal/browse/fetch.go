// Package browse drives a real browser through one minutes fetch. The fetch
// is a linear state machine with layered recovery: navigate, wait for dynamic
// content, short-circuit to a PDF when one is offered, otherwise extract from
// the page or its content frame, then degrade through raw-text and text-view
// recoveries before giving up.
package browse

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/civictext/gijiroku/internal/extract"
	"github.com/civictext/gijiroku/internal/jdate"
	"github.com/civictext/gijiroku/internal/minutes"
	"github.com/civictext/gijiroku/internal/pdftext"
	"github.com/civictext/gijiroku/internal/segment"
)

type state int

const (
	stateNavigate state = iota
	stateWaitContent
	statePDFCheck
	stateHTMLExtract
	stateRecoverRaw
	stateRecoverTextView
	stateDone
	stateFailed
)

// contentSelectors are probed in order after navigation; the first visible
// one ends the wait early.
var contentSelectors = []string{
	"#plain-minutes",
	"#honbun",
	`div[class*="minutes"]`,
	`div[class*="giji"]`,
	"dl",
}

const (
	contentFrameName = "honbun"
	frameURLHint     = "MinuteView"

	// Bodies shorter than this after extraction trigger the recovery steps.
	minAcceptableBodyRunes = 100
)

// dateSelectors locate a dedicated meeting-date element before falling back
// to a free-text scan.
var dateSelectors = []string{".meeting-date", ".date", "#date"}

// Fetcher runs browser-driven fetches against the minutes platform.
type Fetcher struct {
	Browser *Browser
	PDF     *pdftext.Handler

	// NewSession overrides Browser-based session creation; tests use it to
	// substitute a fake session.
	NewSession func() (Session, error)

	NavigationTimeout time.Duration
	SelectorTimeout   time.Duration
	SettleDelay       time.Duration
}

func (f *Fetcher) navigationTimeout() time.Duration {
	if f.NavigationTimeout > 0 {
		return f.NavigationTimeout
	}
	return 60 * time.Second
}

func (f *Fetcher) selectorTimeout() time.Duration {
	if f.SelectorTimeout > 0 {
		return f.SelectorTimeout
	}
	return 5 * time.Second
}

func (f *Fetcher) settleDelay() time.Duration {
	if f.SettleDelay > 0 {
		return f.SettleDelay
	}
	return 2 * time.Second
}

func (f *Fetcher) newSession() (Session, error) {
	if f.NewSession != nil {
		return f.NewSession()
	}
	if f.Browser == nil {
		return nil, fmt.Errorf("no browser configured")
	}
	return f.Browser.NewSession()
}

// FetchMinutes runs one complete fetch. All failures are contained here:
// the session is torn down on every path and errors come back as (nil, err)
// rather than propagating further.
func (f *Fetcher) FetchMinutes(ctx context.Context, url string) (doc *minutes.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("url", url).Msg("fetch panicked")
			doc, err = nil, fmt.Errorf("fetch %s: panic: %v", url, r)
		}
	}()

	sess, err := f.newSession()
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer sess.Close()

	r := &run{f: f, sess: sess, url: url, ids: ParsePlatformIDs(url)}
	for st := stateNavigate; st != stateDone; {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		switch st {
		case stateNavigate:
			st = r.navigate(ctx)
		case stateWaitContent:
			st = r.waitContent()
		case statePDFCheck:
			st = r.pdfCheck(ctx)
		case stateHTMLExtract:
			st = r.htmlExtract()
		case stateRecoverRaw:
			st = r.recoverRaw()
		case stateRecoverTextView:
			st = r.recoverTextView()
		case stateFailed:
			log.Error().Err(r.err).Str("url", url).Msg("fetch failed")
			return nil, r.err
		}
	}
	return r.document(), nil
}

// run accumulates the result of one fetch as the state machine advances.
type run struct {
	f    *Fetcher
	sess Session
	url  string
	ids  PlatformIDs
	err  error

	title    string
	date     *jdate.Date
	body     string
	segments []minutes.Segment
	pdfURL   string
	pdfPath  string
	source   string
}

func (r *run) navigate(_ context.Context) state {
	if err := r.sess.Navigate(r.url, r.f.navigationTimeout()); err != nil {
		r.err = fmt.Errorf("navigate %s: %w", r.url, err)
		return stateFailed
	}
	return stateWaitContent
}

func (r *run) waitContent() state {
	hit := false
	for _, sel := range contentSelectors {
		if r.sess.WaitVisible(sel, r.f.selectorTimeout()) {
			log.Debug().Str("selector", sel).Msg("content selector visible")
			hit = true
			break
		}
	}
	if !hit && r.sess.HasFrame() {
		// Diagnostic only; the HTML path resolves frames itself.
		log.Debug().Str("url", r.url).Msg("no content selector hit, page has frames")
	}
	r.sess.Settle(r.f.settleDelay())
	return statePDFCheck
}

func (r *run) pdfCheck(ctx context.Context) state {
	href, ok := r.sess.PDFLink()
	if !ok {
		return stateHTMLExtract
	}
	log.Debug().Str("pdf", href).Msg("pdf affordance found, skipping html extraction")
	r.pdfURL = href
	r.source = "pdf"
	path, text := r.f.PDF.DownloadAndExtract(ctx, href, r.ids.CouncilID, r.ids.ScheduleID)
	r.pdfPath = path
	r.body = text
	r.title = extract.DefaultTitle
	if html, err := r.sess.HTML(); err == nil {
		r.title = extract.Title(html)
		r.date = pageDate(html, "")
	}
	return stateDone
}

func (r *run) htmlExtract() state {
	markup := r.pageMarkup()
	r.source = "html"
	r.title = extract.Title(markup)
	r.body = extract.Body(markup)
	r.date = pageDate(markup, r.body)
	r.segments = segment.SplitStructured(markup)
	return stateRecoverRaw
}

// pageMarkup prefers the content frame when the page embeds one.
func (r *run) pageMarkup() string {
	if r.sess.HasFrame() {
		if html, ok := r.sess.FrameHTML(contentFrameName, frameURLHint); ok {
			return html
		}
	}
	html, err := r.sess.HTML()
	if err != nil {
		log.Warn().Err(err).Str("url", r.url).Msg("reading page markup failed")
		return ""
	}
	return html
}

func (r *run) recoverRaw() state {
	if utf8.RuneCountInString(r.body) >= minAcceptableBodyRunes {
		return stateDone
	}
	log.Debug().Str("url", r.url).Msg("body too short, taking raw body text")
	if raw, err := r.sess.BodyText(); err == nil && strings.TrimSpace(raw) != "" {
		r.body = strings.TrimSpace(raw)
		r.source = "html-raw"
	}
	return stateRecoverTextView
}

func (r *run) recoverTextView() state {
	if utf8.RuneCountInString(r.body) >= minAcceptableBodyRunes {
		return stateDone
	}
	href, ok := r.sess.TextViewLink()
	if !ok {
		return stateDone
	}
	log.Debug().Str("url", href).Msg("following text view affordance")
	if err := r.sess.Navigate(href, r.f.navigationTimeout()); err != nil {
		log.Warn().Err(err).Str("url", href).Msg("text view navigation failed")
		return stateDone
	}
	r.sess.Settle(r.f.settleDelay())
	markup := r.pageMarkup()
	if body := extract.Body(markup); body != "" {
		r.body = body
		r.segments = segment.SplitStructured(markup)
		r.source = "html-textview"
	} else if raw, err := r.sess.BodyText(); err == nil && strings.TrimSpace(raw) != "" {
		r.body = strings.TrimSpace(raw)
		r.source = "html-textview"
	}
	return stateDone
}

// document assembles whatever was accumulated. The body may be empty; the
// caller decides whether that counts as a failed fetch.
func (r *run) document() *minutes.Document {
	if len(r.segments) == 0 && r.body != "" {
		r.segments = segment.Split(r.body)
	}
	meta := map[string]string{"source": r.source}
	if r.ids.Tenant != "" {
		meta["tenant"] = r.ids.Tenant
	}
	if r.pdfPath != "" {
		meta["pdf_path"] = r.pdfPath
	}
	return &minutes.Document{
		CouncilID:   r.ids.CouncilID,
		ScheduleID:  r.ids.ScheduleID,
		Title:       r.title,
		MeetingDate: r.date,
		URL:         r.url,
		PDFURL:      r.pdfURL,
		Body:        r.body,
		Segments:    r.segments,
		CapturedAt:  time.Now().UTC(),
		Meta:        meta,
	}
}

// pageDate reads a dedicated date element from markup, then falls back to a
// free-text scan of the markup's title area and the extracted body.
func pageDate(markup, body string) *jdate.Date {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err == nil {
		for _, sel := range dateSelectors {
			if t := strings.TrimSpace(doc.Find(sel).First().Text()); t != "" {
				if d := jdate.Parse(t); d != nil {
					return d
				}
			}
		}
		if d := jdate.ExtractFromText(doc.Find("title, h1").Text()); d != nil {
			return d
		}
	}
	return jdate.ExtractFromText(body)
}
