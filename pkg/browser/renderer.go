package browser

import (
	"context"
	"errors"
)

// Renderer failure taxonomy. NotFound is an expected outcome handled by
// locator fallback; Timeout means a bounded wait elapsed and the cycle
// should be retried.
var (
	ErrNotFound = errors.New("browser: no locator resolved")
	ErrTimeout  = errors.New("browser: wait timed out")
)

// LocatorKind selects the query language of a Locator.
type LocatorKind int

const (
	LocatorCSS LocatorKind = iota
	LocatorXPath
)

// Locator is one typed selector candidate. Extraction code works with
// ordered lists of these instead of scattered try/catch lookups: the first
// locator that resolves wins.
type Locator struct {
	Kind LocatorKind
	Expr string
}

// CSS builds a css selector locator.
func CSS(expr string) Locator { return Locator{Kind: LocatorCSS, Expr: expr} }

// XPath builds an xpath locator.
func XPath(expr string) Locator { return Locator{Kind: LocatorXPath, Expr: expr} }

// Element is a resolved node of a rendered page.
type Element interface {
	// Text returns the visible text of the element.
	Text() (string, error)
	// Attribute returns the named attribute, or ErrNotFound when absent.
	Attribute(name string) (string, error)
	// Click performs a left click on the element.
	Click() error
	// FindFirst resolves the first matching locator scoped to this element.
	// Returns the element and the index of the locator that matched, or
	// ErrNotFound when none resolves.
	FindFirst(locators []Locator) (Element, int, error)
	// All returns every match of a single locator scoped to this element.
	All(locator Locator) ([]Element, error)
}

// Page is one rendered browser tab. A page is owned by exactly one monitor
// and is never shared: it carries navigation history and session cookies.
type Page interface {
	// Navigate loads url and waits for the load event within the page's
	// wait bound. Timeouts surface as ErrTimeout.
	Navigate(ctx context.Context, url string) error
	// Refresh reloads the current document.
	Refresh(ctx context.Context) error
	// FindFirst resolves the first matching locator on the whole document.
	FindFirst(locators []Locator) (Element, int, error)
	// All returns every match of a single locator on the whole document.
	All(locator Locator) ([]Element, error)
	// CurrentURL returns the page's current location.
	CurrentURL() string
	// HTML returns the full document source, for diagnostics capture.
	HTML() (string, error)
	// Close releases the tab.
	Close() error
}
