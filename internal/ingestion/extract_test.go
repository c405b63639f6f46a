package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobPage = `<html>
<head><title>Careers</title><style>body { color: red; }</style></head>
<body>
  <header>Acme Corp</header>
  <nav><a href="/">Home</a><a href="/jobs">Jobs</a></nav>
  <main>
    <h1>Senior Backend Engineer</h1>
    <p>We are looking for an engineer to build   payment services.</p>
    <ul>
      <li>5+ years of Go</li>
      <li>Experience with PostgreSQL</li>
    </ul>
    <form><input name="email"></form>
  </main>
  <script>trackPageView();</script>
  <footer>Copyright Acme</footer>
</body>
</html>`

func TestExtractText_PrefersMainContent(t *testing.T) {
	text, err := ExtractText(jobPage)
	require.NoError(t, err)

	assert.Contains(t, text, "Senior Backend Engineer")
	assert.Contains(t, text, "We are looking for an engineer to build payment services.")
	assert.Contains(t, text, "- 5+ years of Go")
	assert.Contains(t, text, "- Experience with PostgreSQL")
	for _, noise := range []string{"Acme Corp", "Home", "trackPageView", "color: red", "Copyright"} {
		assert.NotContains(t, text, noise)
	}
}

func TestExtractText_FallsBackToBody(t *testing.T) {
	text, err := ExtractText(`<html><body><div>Staff engineer role</div><script>x()</script></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Staff engineer role", text)
}

func TestExtractText_CustomSelectors(t *testing.T) {
	html := `<body><div class="job__description">Greenhouse body</div><main>Generic main</main></body>`
	text, err := ExtractText(html, ContentSelectors(PlatformGreenhouse)...)
	require.NoError(t, err)
	assert.Equal(t, "Greenhouse body", text)
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://boards.greenhouse.io/acme/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/acme/abc", PlatformLever},
		{"https://acme.wd5.myworkdayjobs.com/en-US/careers/job/1", PlatformWorkday},
		{"https://careers.acme.com/jobs/1", PlatformUnknown},
		{"::bad", PlatformUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestContentSelectors_EndWithGenericFallbacks(t *testing.T) {
	for _, p := range []Platform{PlatformGreenhouse, PlatformLever, PlatformWorkday, PlatformUnknown} {
		sel := ContentSelectors(p)
		assert.Equal(t, "#content", sel[len(sel)-1])
		assert.Contains(t, sel, "main")
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"crlf", "line one\r\nline two\rline three", "line one\nline two\nline three"},
		{"inline spaces", "  Go \t  and   Rust  ", "Go and Rust"},
		{"blank runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"empty bullet", "-\n- real item", "- real item"},
		{"non-breaking space", "remote\u00a0\u00a0friendly", "remote friendly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestNeedsBrowser(t *testing.T) {
	assert.True(t, NeedsBrowser("Loading..."))
	assert.True(t, NeedsBrowser(strings.Repeat("a", MinContentLength-1)))
	assert.False(t, NeedsBrowser(strings.Repeat("a", MinContentLength)))
}
