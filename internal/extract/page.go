package extract

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Page is the raw text of one upstream page. The HTML document is parsed on
// first use and shared by every strategy that needs it.
type Page struct {
	Text string

	once sync.Once
	doc  *goquery.Document
	err  error
}

// NewPage wraps raw page text.
func NewPage(text string) *Page {
	return &Page{Text: text}
}

// Document returns the parsed HTML document.
func (p *Page) Document() (*goquery.Document, error) {
	p.once.Do(func() {
		p.doc, p.err = goquery.NewDocumentFromReader(strings.NewReader(p.Text))
		if p.err != nil {
			p.err = fmt.Errorf("parsing HTML: %w", p.err)
		}
	})
	return p.doc, p.err
}
