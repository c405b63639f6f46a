package ingestion

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Platform is a recognised job board.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformUnknown    Platform = "unknown"
)

const baseNoise = "nav, footer, header, script, style, noscript, iframe, svg, form, " +
	".cookie-banner, .cookie-consent, .gdpr-notice, .social-share, .share-buttons, " +
	".eeo-statement, .voluntary-disclosure, .apply-button-container"

// DetectPlatform identifies the job board from a URL host.
func DetectPlatform(rawURL string) Platform {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Host)
	switch {
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	case strings.Contains(host, "workday.com"), strings.Contains(host, "myworkdayjobs.com"):
		return PlatformWorkday
	default:
		return PlatformUnknown
	}
}

// ContentSelectors returns the selectors tried, in order, for the main
// job description of a platform.
func ContentSelectors(p Platform) []string {
	var specific []string
	switch p {
	case PlatformGreenhouse:
		specific = []string{".job__description", ".job-post-container"}
	case PlatformLever:
		specific = []string{".posting-page", ".posting-description"}
	case PlatformWorkday:
		specific = []string{"[data-automation-id='jobDescription']"}
	}
	return append(specific,
		".job-description",
		"#job-description",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		"#content",
	)
}

// ExtractText returns the readable text of html. Navigation, scripts, forms
// and similar noise are removed, and the first matching content selector wins
// over the whole body.
func ExtractText(html string, selectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(baseNoise).Remove()

	if len(selectors) == 0 {
		selectors = ContentSelectors(PlatformUnknown)
	}
	content := doc.Find("body")
	for _, sel := range selectors {
		if s := doc.Find(sel); s.Length() > 0 {
			content = s.First()
			break
		}
	}

	// block elements become line breaks so list items stay separate
	content.Find("br").ReplaceWithHtml("\n")
	content.Find("p, li, h1, h2, h3, h4, h5, h6, div, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	content.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})

	return CleanText(content.Text()), nil
}
