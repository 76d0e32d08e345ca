package extract

import (
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

var disableConfigDir sync.Once

// PDFPageCounter counts pages with pdfcpu.
type PDFPageCounter struct{}

// NewPDFPageCounter returns a page counter that never touches pdfcpu's
// on-disk configuration directory.
func NewPDFPageCounter() *PDFPageCounter {
	disableConfigDir.Do(api.DisableConfigDir)
	return &PDFPageCounter{}
}

// CountPages returns the page count of the PDF at path.
// A malformed file that makes the parser panic is reported as an extraction
// error.
func (c *PDFPageCounter) CountPages(path string) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = 0
			err = newError(MetricPages, path, fmt.Errorf("parser panic: %v", r))
		}
	}()

	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, newError(MetricPages, path, err)
	}
	if n < 0 {
		return 0, newError(MetricPages, path, fmt.Errorf("negative page count %d", n))
	}
	return n, nil
}
