package process

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParsedPage is what the crawler needs from one HTML document.
type ParsedPage struct {
	Title string
	// Text is the raw block-separated body text, before cleaning.
	Text     string
	Outlinks []string
}

// ParsePage parses an HTML document fetched from pageURL. Outlinks are absolute
// and normalized but not yet filtered by host.
func ParsePage(body io.Reader, pageURL string) (*ParsedPage, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, err
	}

	page := &ParsedPage{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	if b := doc.Find("body").First(); b.Length() > 0 {
		page.Text = blockText(b.Get(0))
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if link := resolve(href, base); link != "" {
			page.Outlinks = append(page.Outlinks, link)
		}
	})

	return page, nil
}

func resolve(ref string, base *url.URL) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}

	abs := base.ResolveReference(u)

	scheme := strings.ToLower(abs.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}

	normalized, err := Normalize(abs.String())
	if err != nil {
		return ""
	}
	return normalized
}
