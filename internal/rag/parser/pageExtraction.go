package parser

import (
	"errors"
	"fmt"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

func (e *fileEngine) extractPDF(path string) ([]Page, error) {
	f, err := pdf.Open(path)
	if err != nil {
		e.logger.Error("failed opening of pdf file", "path", path)
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []Page
	numPages := f.NumPage()
	e.logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(e, page)
		if err != nil {
			// Log warning but continue with other pages
			e.logger.Error("Error parsing page content", "page", i, "Error", err)
			continue
		}

		pages = append(pages, Page{
			Number:  i,
			Content: content,
		})
	}
	return pages, nil
}

// extractPlain reads a .odt, .docx, .rtf or plaintext file. Those formats
// carry no page boundaries so everything goes on one page.
func (e *fileEngine) extractPlain(path string) ([]Page, error) {
	text, err := cat.File(path)
	if err != nil {
		e.logger.Error("Error extracting content from doc", "path", path)
		return nil, fmt.Errorf("failed to extract document text: %w", err)
	}

	return []Page{
		{
			Number:  1,
			Content: text,
		},
	}, nil
}

func protectExtract(e *fileEngine, page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		e.logger.Error("pageExtract", "timeout", true)
		return "", errors.New("timeout")
	}
}
