// Package extraction converts statement PDFs into the canonical ledger:
// decryption, table recovery, and normalization against a bank profile.
package extraction

import (
	"bytes"
	"errors"

	"github.com/ledongthuc/pdf"

	"github.com/spendify/spendify/internal/statement"
)

// Document is a decrypted, opened statement PDF. Opening never modifies the
// input bytes.
type Document struct {
	reader *pdf.Reader
	pages  int
}

// Open parses the PDF, decrypting it with password when the document is
// protected. The password is ignored for unprotected documents. A protected
// document with a missing or wrong password fails with the decryption error
// kind; anything else unreadable fails with the extraction kind.
func Open(data []byte, password string) (*Document, error) {
	attempts := 0
	reader, err := pdf.NewReaderEncrypted(bytes.NewReader(data), int64(len(data)), func() string {
		attempts++
		if attempts > 1 || password == "" {
			return "" // stop the password loop
		}
		return password
	})
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, statement.Errorf(statement.ErrDecryption,
				"statement is password-protected and the supplied password is missing or wrong")
		}
		return nil, statement.WrapError(statement.ErrExtraction, err, "open PDF")
	}

	pages := reader.NumPage()
	if pages < 1 {
		return nil, statement.Errorf(statement.ErrExtraction, "PDF contains no pages")
	}
	return &Document{reader: reader, pages: pages}, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.pages
}
