package extraction

import (
	"reflect"
	"testing"

	"github.com/ledongthuc/pdf"

	"github.com/spendify/spendify/internal/statement"
)

func frag(x, w float64, s string) pdf.Text {
	return pdf.Text{X: x, W: w, S: s}
}

// hdfcHeaderFrags lays the HDFC header out at fixed column positions used
// by the row fixtures below.
func hdfcHeaderFrags() []pdf.Text {
	return []pdf.Text{
		frag(40, 30, "Date"),
		frag(90, 55, "Narration"),
		frag(210, 60, "Chq./Ref.No."),
		frag(280, 45, "Value Dt"),
		frag(340, 70, "Withdrawal Amt."),
		frag(420, 60, "Deposit Amt."),
		frag(500, 75, "Closing Balance"),
	}
}

func TestClusterCells(t *testing.T) {
	tests := []struct {
		name       string
		frags      []pdf.Text
		wantCells  []string
		wantStarts []float64
	}{
		{
			name:       "empty row",
			frags:      nil,
			wantCells:  nil,
			wantStarts: nil,
		},
		{
			name:       "single cell",
			frags:      []pdf.Text{frag(40, 30, "Date")},
			wantCells:  []string{"Date"},
			wantStarts: []float64{40},
		},
		{
			name: "word gap stays one cell",
			frags: []pdf.Text{
				frag(40, 20, "Value"),
				frag(61, 10, "Dt"),
			},
			wantCells:  []string{"Value Dt"},
			wantStarts: []float64{40},
		},
		{
			name: "cell gap splits",
			frags: []pdf.Text{
				frag(40, 30, "Date"),
				frag(90, 55, "Narration"),
			},
			wantCells:  []string{"Date", "Narration"},
			wantStarts: []float64{40, 90},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells, starts := clusterCells(tt.frags)
			if !reflect.DeepEqual(cells, tt.wantCells) {
				t.Errorf("cells = %v, want %v", cells, tt.wantCells)
			}
			if !reflect.DeepEqual(starts, tt.wantStarts) {
				t.Errorf("starts = %v, want %v", starts, tt.wantStarts)
			}
		})
	}
}

func TestAssignBlankCells(t *testing.T) {
	layout, idx := findHeader([][]pdf.Text{hdfcHeaderFrags()})
	if layout == nil || idx != 0 {
		t.Fatal("header fixture not recognized")
	}

	// Withdrawal-only row: the deposit cell emits no fragments and must
	// come back as an empty string, not be dropped.
	cells := layout.assign([]pdf.Text{
		frag(40, 38, "01/04/24"),
		frag(90, 100, "UPI-SWIGGY-30412345"),
		frag(340, 30, "250.00"),
		frag(500, 40, "9,750.00"),
	})

	want := []string{"01/04/24", "UPI-SWIGGY-30412345", "", "", "250.00", "", "9,750.00"}
	if !reflect.DeepEqual(cells, want) {
		t.Errorf("assign() = %v, want %v", cells, want)
	}
}

func TestAssembleTable(t *testing.T) {
	rows := [][]pdf.Text{
		// Statement preamble above the table.
		{frag(40, 200, "Account Statement for APR 2024")},
		hdfcHeaderFrags(),
		{
			frag(40, 38, "01/04/24"),
			frag(90, 100, "UPI-SWIGGY-30412345"),
			frag(340, 30, "250.00"),
			frag(500, 40, "9,750.00"),
		},
		// Wrapped narration continuing the row above.
		{frag(90, 80, "PAYMENT APR")},
		// Header repeated at the top of page two.
		hdfcHeaderFrags(),
		{
			frag(40, 38, "03/04/24"),
			frag(90, 60, "NEFT-SALARY"),
			frag(420, 50, "50,000.00"),
			frag(500, 45, "59,750.00"),
		},
		// Totals footer.
		{frag(340, 30, "Total"), frag(420, 50, "50,250.00")},
	}

	table, err := assembleTable(rows)
	if err != nil {
		t.Fatalf("assembleTable() unexpected error: %v", err)
	}

	want := [][]string{
		{"Date", "Narration", "Chq./Ref.No.", "Value Dt", "Withdrawal Amt.", "Deposit Amt.", "Closing Balance"},
		{"01/04/24", "UPI-SWIGGY-30412345 PAYMENT APR", "", "", "250.00", "", "9,750.00"},
		{"03/04/24", "NEFT-SALARY", "", "", "", "50,000.00", "59,750.00"},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("table rows = %v, want %v", table.Rows, want)
	}
}

func TestAssembleTableErrors(t *testing.T) {
	t.Run("no header", func(t *testing.T) {
		rows := [][]pdf.Text{
			{frag(40, 200, "Account Statement for APR 2024")},
			{frag(40, 100, "Branch: MG Road")},
		}
		_, err := assembleTable(rows)
		if !statement.IsKind(err, statement.ErrExtraction) {
			t.Fatalf("error = %v, want kind %s", err, statement.ErrExtraction)
		}
	})

	t.Run("header without transactions", func(t *testing.T) {
		_, err := assembleTable([][]pdf.Text{hdfcHeaderFrags()})
		if !statement.IsKind(err, statement.ErrExtraction) {
			t.Fatalf("error = %v, want kind %s", err, statement.ErrExtraction)
		}
	})
}

func TestOpenRejectsGarbage(t *testing.T) {
	_, err := Open([]byte("not a pdf at all"), "")
	if !statement.IsKind(err, statement.ErrExtraction) {
		t.Fatalf("error = %v, want kind %s", err, statement.ErrExtraction)
	}
}
