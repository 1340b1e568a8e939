package pdfpoems

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPages returns the text of each PDF page, reassembled row by row so
// verse lines keep their breaks. Pages that fail to decode become empty
// strings rather than aborting the document. The library panics on some
// malformed files, so the whole extraction is wrapped in a recover.
func extractPages(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf text extraction panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	total := reader.NumPage()
	pages = make([]string, 0, total)
	for number := 1; number <= total; number++ {
		page := reader.Page(number)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, pageText(page))
	}
	return pages, nil
}

func pageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}
	var b strings.Builder
	for _, row := range rows {
		for _, text := range row.Content {
			b.WriteString(text.S)
		}
		b.WriteString("\n")
	}
	return b.String()
}
