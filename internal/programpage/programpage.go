// Package programpage scrapes a study program's web page for its title and
// the link to its curriculum document.
package programpage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoCurriculumLink is returned when a page has no recognizable
// curriculum link.
var ErrNoCurriculumLink = errors.New("no curriculum link on page")

// TitleClassPrefix matches the CSS module class of the program title. The
// generated hash suffix changes between site builds, so only the prefix is
// compared.
const TitleClassPrefix = "Information_information__header"

// DefaultLinkPhrases identify the curriculum among a page's PDF links.
var DefaultLinkPhrases = []string{"учебный план", "curriculum", "study plan"}

// Link is an anchor pointing at a PDF.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Page is what a program page yields.
type Page struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	PDFLinks      []Link `json:"pdf_links"`
	CurriculumURL string `json:"curriculum_url,omitempty"`
}

// Getter fetches a URL body.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Scraper fetches and parses program pages.
type Scraper struct {
	getter  Getter
	phrases []string
	log     *slog.Logger
}

func NewScraper(getter Getter, phrases []string, log *slog.Logger) *Scraper {
	if len(phrases) == 0 {
		phrases = DefaultLinkPhrases
	}
	return &Scraper{getter: getter, phrases: phrases, log: log}
}

// Scrape fetches pageURL and parses it. A page without a curriculum link is
// still returned, together with ErrNoCurriculumLink.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (*Page, error) {
	body, err := s.getter.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch program page: %w", err)
	}
	page, err := Parse(bytes.NewReader(body), pageURL, s.phrases)
	if err != nil {
		return nil, err
	}
	s.log.Debug("program page scraped", "url", pageURL, "title", page.Title, "pdf_links", len(page.PDFLinks))
	if page.CurriculumURL == "" {
		return page, fmt.Errorf("%s: %w", pageURL, ErrNoCurriculumLink)
	}
	return page, nil
}

// Parse extracts the title and PDF links from an HTML page. Relative hrefs
// are resolved against pageURL.
func Parse(r io.Reader, pageURL string, phrases []string) (*Page, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	page := &Page{URL: pageURL, PDFLinks: []Link{}}
	title := doc.Find(`[class*="` + TitleClassPrefix + `"]`).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return hasClassPrefix(s, TitleClassPrefix)
	}).First()
	if title.Length() == 0 {
		title = doc.Find("h1").First()
	}
	page.Title = collapseSpace(title.Text())

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if u, ok := pdfHref(href, base); ok {
			page.PDFLinks = append(page.PDFLinks, Link{Text: collapseSpace(s.Text()), URL: u})
		}
	})

	page.CurriculumURL = CurriculumLink(page.PDFLinks, phrases)
	return page, nil
}

// CurriculumLink returns the URL of the first link whose text contains one
// of phrases, case-insensitively, or "".
func CurriculumLink(links []Link, phrases []string) string {
	for _, l := range links {
		text := strings.ToLower(l.Text)
		for _, p := range phrases {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" && strings.Contains(text, p) {
				return l.URL
			}
		}
	}
	return ""
}

func hasClassPrefix(s *goquery.Selection, prefix string) bool {
	class, _ := s.Attr("class")
	for _, c := range strings.Fields(class) {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// pdfHref resolves href against base when its path ends in .pdf. The query
// string is ignored.
func pdfHref(href string, base *url.URL) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil || !strings.EqualFold(path.Ext(ref.Path), ".pdf") {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
