package scraper

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"flats-scraper/config"
	"flats-scraper/models"
	"flats-scraper/utils"
)

// ErrMalformedListing is returned when the listing page lacks the expected
// table structure. The page layout is a precondition, not a recoverable case.
var ErrMalformedListing = errors.New("malformed listing page")

// ListingScraper turns the availability page into a table of units.
type ListingScraper struct {
	schema config.ListingSchema
	logger *utils.Logger
}

// NewListingScraper creates a ListingScraper for the given schema.
func NewListingScraper(schema config.ListingSchema, logger *utils.Logger) *ListingScraper {
	return &ListingScraper{schema: schema, logger: logger}
}

// Scrape parses the first table of the page. Column names are the header
// labels verbatim; the last cell of each row is replaced by the row's
// document link (resolved against pageURL) or Null when the row has none.
func (s *ListingScraper) Scrape(content []byte, pageURL string) (*models.Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("scraper: parsing HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("scraper: %w: no table element", ErrMalformedListing)
	}
	thead := table.Find("thead").First()
	if thead.Length() == 0 {
		return nil, fmt.Errorf("scraper: %w: table has no thead", ErrMalformedListing)
	}
	tbody := table.Find("tbody").First()
	if tbody.Length() == 0 {
		return nil, fmt.Errorf("scraper: %w: table has no tbody", ErrMalformedListing)
	}

	headers := make([]string, 0)
	seen := utils.NewKeySet()
	var dupErr error
	thead.Find("th").Each(func(_ int, th *goquery.Selection) {
		h := strings.TrimSpace(th.Text())
		if !seen.Add(h) && dupErr == nil {
			dupErr = fmt.Errorf("scraper: %w: duplicate header %q", ErrMalformedListing, h)
		}
		headers = append(headers, h)
	})
	if dupErr != nil {
		return nil, dupErr
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("scraper: %w: no header cells", ErrMalformedListing)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		s.logger.Warn("[listing] Cannot resolve document links against %q: %v", pageURL, err)
	}
	out := models.NewTable(headers...)

	var rowErr error
	tbody.ChildrenFiltered("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		var cells []string
		tr.ChildrenFiltered("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) != len(headers) {
			rowErr = fmt.Errorf("scraper: %w: row %d has %d cells, header has %d",
				ErrMalformedListing, i+1, len(cells), len(headers))
			return false
		}

		row := make(models.Row, len(headers))
		for j, h := range headers[:len(headers)-1] {
			row[h] = models.String(cells[j])
		}
		row[headers[len(headers)-1]] = s.documentLink(tr, base)
		out.Append(row)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	s.logger.Info("[listing] Scraped %d units with %d columns", out.Len(), len(headers))
	return out, nil
}

func (s *ListingScraper) documentLink(tr *goquery.Selection, base *url.URL) models.Value {
	link := tr.Find(s.schema.LinkSelector).First()
	href, ok := link.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return models.Null()
	}
	return models.String(resolveURL(strings.TrimSpace(href), base))
}

// resolveURL resolves a potentially relative URL against a base.
func resolveURL(href string, base *url.URL) string {
	if base == nil {
		return href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(parsed).String()
}
