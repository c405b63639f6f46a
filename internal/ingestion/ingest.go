package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/observability"
)

// Source names where a job description came from.
type Source string

const (
	SourceText Source = "text"
	SourceFile Source = "file"
	SourceURL  Source = "url"
)

// Document is an ingested job description.
type Document struct {
	Text     string
	Source   Source
	Origin   string
	Platform Platform
	Rendered bool
}

// Renderer renders a JavaScript page to HTML.
type Renderer func(ctx context.Context, rawURL string, timeout time.Duration) (string, error)

// URLOptions configures FromURL.
type URLOptions struct {
	Fetch *Options
	// UseBrowser enables the headless fallback for short pages.
	UseBrowser bool
	Render     Renderer
	Logger     *observability.Logger
}

// ErrEmptyDocument is returned when no text could be extracted.
var ErrEmptyDocument = errors.New("job description is empty")

// FromText cleans a job description passed inline.
func FromText(text string) (*Document, error) {
	cleaned := CleanText(text)
	if cleaned == "" {
		return nil, ErrEmptyDocument
	}
	return &Document{Text: cleaned, Source: SourceText}, nil
}

// FromFile reads and cleans a job description file.
func FromFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	doc, err := FromText(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Source = SourceFile
	doc.Origin = path
	return doc, nil
}

// FromURL fetches a job posting and extracts its text. When the page yields
// too little text and UseBrowser is set, it is rendered again headless.
func FromURL(ctx context.Context, rawURL string, opts URLOptions) (*Document, error) {
	log := observability.OrNop(opts.Logger)
	platform := DetectPlatform(rawURL)
	selectors := ContentSelectors(platform)

	page, err := Fetch(ctx, rawURL, opts.Fetch)
	if err != nil {
		return nil, err
	}
	log.Debug("fetched job page", "url", rawURL, "platform", string(platform), "bytes", len(page.HTML))

	text, err := ExtractText(page.HTML, selectors...)
	if err != nil {
		return nil, fmt.Errorf("failed to extract job description: %w", err)
	}

	doc := &Document{Text: text, Source: SourceURL, Origin: rawURL, Platform: platform}
	if opts.UseBrowser && NeedsBrowser(text) {
		render := opts.Render
		if render == nil {
			render = RenderWithBrowser
		}
		timeout := DefaultTimeout
		if opts.Fetch != nil && opts.Fetch.Timeout > 0 {
			timeout = opts.Fetch.Timeout
		}
		log.Info("page content is short, rendering with browser", "url", rawURL, "chars", len(text))

		html, err := render(ctx, rawURL, timeout)
		if err != nil {
			log.Warn("browser rendering failed, keeping fetched text", "url", rawURL, "error", err)
		} else if rendered, err := ExtractText(html, selectors...); err == nil && len(rendered) > len(text) {
			doc.Text = rendered
			doc.Rendered = true
		}
	}

	if strings.TrimSpace(doc.Text) == "" {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrEmptyDocument)
	}
	return doc, nil
}
