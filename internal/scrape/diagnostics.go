package scrape

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Diagnostics receives HTML captures on unexpected structural failures so
// stale locators can be fixed offline. Implementations must never fail the
// calling cycle.
type Diagnostics interface {
	Capture(context, asin, html, errDetail string)
}

// DirDiagnostics writes captures into a directory, one file per
// context+asin pair (later captures overwrite earlier ones for the same
// failure, keeping the directory bounded).
type DirDiagnostics struct {
	Dir string
}

// NewDirDiagnostics creates a file-based diagnostics sink.
func NewDirDiagnostics(dir string) *DirDiagnostics {
	return &DirDiagnostics{Dir: dir}
}

func (d *DirDiagnostics) Capture(context, asin, html, errDetail string) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", d.Dir).Msg("Failed to create diagnostics directory")
		return
	}
	name := fmt.Sprintf("debug_%s_not_found_%s.html", context, asin)
	path := filepath.Join(d.Dir, name)

	body := fmt.Sprintf("<!-- %s -->\n%s", errDetail, html)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to write diagnostics capture")
		return
	}
	log.Warn().
		Str("asin", asin).
		Str("context", context).
		Str("path", path).
		Str("error", errDetail).
		Msg("Page HTML captured for debugging")
}

// NopDiagnostics discards captures. Used in tests.
type NopDiagnostics struct{}

func (NopDiagnostics) Capture(_, _, _, _ string) {}
