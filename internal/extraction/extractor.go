package extraction

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/spendify/spendify/internal/bank"
	"github.com/spendify/spendify/internal/statement"
)

const (
	// scannedThreshold is chars per page below which the PDF is treated as
	// a scanned image with no embedded text.
	scannedThreshold = 50

	// minTableColumns is the narrowest header row worth treating as a
	// transaction table.
	minTableColumns = 4

	// cellGap is the horizontal whitespace (in points) that separates two
	// header cells, as opposed to word spacing inside one cell.
	cellGap = 8.0

	// wordGap is the spacing above which two fragments in the same cell
	// get a space between them.
	wordGap = 0.5

	// columnSlack tolerates fragments starting slightly left of their
	// column's header.
	columnSlack = 2.0
)

// ExtractTable recovers the transaction table from the document. It walks
// every page in order, so tables spanning page boundaries keep their row
// order; repeated header rows on later pages are dropped and wrapped
// narration lines are folded into the preceding row. Extraction is
// best-effort; normalization is the safety net.
func (d *Document) ExtractTable() (table *statement.RawTable, err error) {
	// The pdf library panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			table = nil
			err = statement.Errorf(statement.ErrExtraction, "PDF content not readable: %v", r)
		}
	}()

	rows, totalChars := d.textRows()
	if len(rows) == 0 {
		if totalChars/d.pages < scannedThreshold {
			return nil, statement.Errorf(statement.ErrExtraction,
				"no embedded text found; the statement appears to be a scanned image")
		}
		return nil, statement.Errorf(statement.ErrExtraction, "no tabular structure found")
	}
	return assembleTable(rows)
}

// textRows flattens the document into per-row text fragments, pages in
// order, rows top to bottom within each page.
func (d *Document) textRows() ([][]pdf.Text, int) {
	var rows [][]pdf.Text
	totalChars := 0

	for pageNum := 1; pageNum <= d.pages; pageNum++ {
		page := d.reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageRows, err := page.GetTextByRow()
		if err != nil {
			continue // tolerate unreadable pages, downstream validates
		}

		// Top of page first. PDF y grows upward.
		sort.Slice(pageRows, func(i, j int) bool {
			return pageRows[i].Position > pageRows[j].Position
		})

		for _, row := range pageRows {
			if len(row.Content) == 0 {
				continue
			}
			frags := make([]pdf.Text, len(row.Content))
			copy(frags, row.Content)
			sort.Slice(frags, func(i, j int) bool { return frags[i].X < frags[j].X })
			for _, t := range frags {
				totalChars += len(t.S)
			}
			rows = append(rows, frags)
		}
	}
	return rows, totalChars
}

// columnLayout is the geometry of the transaction table, fixed by its
// header row and reused for every page.
type columnLayout struct {
	header []string
	norm   []string
	starts []float64 // left edge of each column
	date   int       // date column index
	narr   int       // narration/description column index
}

// assembleTable locates the header row, derives the column geometry, and
// assigns every following row's fragments to columns. Blank cells stay as
// empty strings so the normalizer can apply its blank-means-zero rule.
func assembleTable(rows [][]pdf.Text) (*statement.RawTable, error) {
	layout, headerIdx := findHeader(rows)
	if layout == nil {
		return nil, statement.Errorf(statement.ErrExtraction, "no tabular structure found")
	}

	table := &statement.RawTable{Rows: [][]string{layout.header}}
	for _, frags := range rows[headerIdx+1:] {
		cells := layout.assign(frags)
		switch {
		case headerEqual(bank.NormalizeHeader(cells), layout.norm):
			// Header repeated on a later page.
		case cells[layout.date] != "":
			table.Rows = append(table.Rows, cells)
		case onlyColumnSet(cells, layout.narr) && len(table.Rows) > 1:
			// Wrapped narration continuing the previous transaction.
			prev := table.Rows[len(table.Rows)-1]
			prev[layout.narr] = strings.TrimSpace(prev[layout.narr] + " " + cells[layout.narr])
		default:
			// Footer, totals, or preamble noise. Skip.
		}
	}

	if len(table.Rows) < 2 {
		return nil, statement.Errorf(statement.ErrExtraction,
			"transaction table header found but no transaction rows followed it")
	}
	return table, nil
}

// findHeader returns the layout of the first row that looks like a
// transaction table header: wide enough and naming a date column.
func findHeader(rows [][]pdf.Text) (*columnLayout, int) {
	for i, frags := range rows {
		cells, starts := clusterCells(frags)
		if len(cells) < minTableColumns {
			continue
		}
		date := columnContaining(cells, "date")
		if date == -1 {
			continue
		}
		narr := columnContaining(cells, "narration")
		if narr == -1 {
			narr = columnContaining(cells, "description")
		}
		if narr == -1 {
			narr = widestColumn(cells)
		}
		return &columnLayout{
			header: cells,
			norm:   bank.NormalizeHeader(cells),
			starts: starts,
			date:   date,
			narr:   narr,
		}, i
	}
	return nil, -1
}

// assign distributes one row's fragments across the table columns by x
// position. Always returns exactly one cell per column.
func (l *columnLayout) assign(frags []pdf.Text) []string {
	cells := make([]string, len(l.starts))
	for _, t := range frags {
		col := 0
		for j := len(l.starts) - 1; j > 0; j-- {
			if t.X >= l.starts[j]-columnSlack {
				col = j
				break
			}
		}
		if cells[col] == "" {
			cells[col] = t.S
		} else {
			cells[col] += " " + t.S
		}
	}
	for i, c := range cells {
		cells[i] = strings.Join(strings.Fields(c), " ")
	}
	return cells
}

// clusterCells groups a row's sorted fragments into cells by the horizontal
// gaps between them, returning each cell's text and left edge.
func clusterCells(frags []pdf.Text) ([]string, []float64) {
	if len(frags) == 0 {
		return nil, nil
	}

	var cells []string
	var starts []float64
	var current strings.Builder
	start := frags[0].X
	prevEnd := frags[0].X

	flush := func(nextStart float64) {
		cell := strings.TrimSpace(current.String())
		current.Reset()
		if cell != "" {
			cells = append(cells, cell)
			starts = append(starts, start)
		}
		start = nextStart
	}

	for i, t := range frags {
		if i > 0 {
			gap := t.X - prevEnd
			switch {
			case gap > cellGap:
				flush(t.X)
			case gap > wordGap:
				current.WriteByte(' ')
			}
		}
		current.WriteString(t.S)
		if end := t.X + t.W; end > prevEnd {
			prevEnd = end
		}
	}
	flush(0)
	return cells, starts
}

func columnContaining(cells []string, substr string) int {
	for i, c := range cells {
		if strings.Contains(strings.ToLower(c), substr) {
			return i
		}
	}
	return -1
}

func widestColumn(cells []string) int {
	widest := 0
	for i := range cells {
		if len(cells[i]) > len(cells[widest]) {
			widest = i
		}
	}
	return widest
}

func onlyColumnSet(cells []string, col int) bool {
	if cells[col] == "" {
		return false
	}
	for i, c := range cells {
		if i != col && c != "" {
			return false
		}
	}
	return true
}

func headerEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
