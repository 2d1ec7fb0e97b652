package scrape

import (
	"context"

	"github.com/brushtyler/pricesdropbot/pkg/browser"
)

// fakeEl is an in-memory DOM node for tests. Lookups match locators by
// their raw expression, so tests wire nodes using the same locator tables
// production code scans.
type fakeEl struct {
	text     string
	attrs    map[string]string
	children map[string]*fakeEl
	lists    map[string][]*fakeEl

	clicked  int
	clickErr error
}

func (f *fakeEl) child(loc browser.Locator, el *fakeEl) *fakeEl {
	if f.children == nil {
		f.children = map[string]*fakeEl{}
	}
	f.children[loc.Expr] = el
	return f
}

func (f *fakeEl) Text() (string, error) { return f.text, nil }

func (f *fakeEl) Attribute(name string) (string, error) {
	if v, ok := f.attrs[name]; ok {
		return v, nil
	}
	return "", browser.ErrNotFound
}

func (f *fakeEl) Click() error {
	f.clicked++
	return f.clickErr
}

func (f *fakeEl) FindFirst(locators []browser.Locator) (browser.Element, int, error) {
	for i, loc := range locators {
		if el, ok := f.children[loc.Expr]; ok {
			return el, i, nil
		}
	}
	return nil, -1, browser.ErrNotFound
}

func (f *fakeEl) All(locator browser.Locator) ([]browser.Element, error) {
	els := f.lists[locator.Expr]
	out := make([]browser.Element, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out, nil
}

type fakePage struct {
	fakeEl
	url       string
	html      string
	navigated []string
	navErr    error
	refreshed int
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	if p.navErr != nil {
		return p.navErr
	}
	p.navigated = append(p.navigated, url)
	p.url = url
	return nil
}

func (p *fakePage) Refresh(context.Context) error {
	p.refreshed++
	return nil
}

func (p *fakePage) CurrentURL() string { return p.url }

func (p *fakePage) HTML() (string, error) { return p.html, nil }

func (p *fakePage) Close() error { return nil }

// recDiag records diagnostics captures for assertions.
type recDiag struct {
	captures []string // "context/asin"
}

func (r *recDiag) Capture(context, asin, _, _ string) {
	r.captures = append(r.captures, context+"/"+asin)
}

// offerBlock builds a secondary-offer node with the usual inner structure.
func offerBlock(condition, whole, fraction, soldBy string) *fakeEl {
	b := &fakeEl{}
	if condition != "" {
		b.child(offerConditionLocators[0], &fakeEl{text: condition})
	}
	if whole != "" {
		b.child(priceWholeLocators[0], &fakeEl{text: whole})
	}
	if fraction != "" {
		b.child(priceFractionLocators[0], &fakeEl{text: fraction})
	}
	if soldBy != "" {
		b.child(offerSoldByLocators[0], &fakeEl{text: soldBy})
	}
	return b
}
