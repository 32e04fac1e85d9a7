package extraction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spendify/spendify/internal/statement"
)

// The fixtures are one-page statements; protected.pdf carries standard
// RC4-40 security with user password "stmt2024".
func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestOpenProtected(t *testing.T) {
	data := fixture(t, "protected.pdf")

	tests := []struct {
		name     string
		password string
		wantErr  statement.ErrorKind
	}{
		{name: "correct password", password: "stmt2024"},
		{name: "wrong password", password: "hunter2", wantErr: statement.ErrDecryption},
		{name: "empty password", password: "", wantErr: statement.ErrDecryption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Open(data, tt.password)
			if tt.wantErr != "" {
				if !statement.IsKind(err, tt.wantErr) {
					t.Fatalf("Open() error = %v, want kind %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() unexpected error: %v", err)
			}
			if doc.PageCount() != 1 {
				t.Errorf("PageCount() = %d, want 1", doc.PageCount())
			}
		})
	}
}

func TestOpenUnprotected(t *testing.T) {
	data := fixture(t, "unprotected.pdf")

	// The password is ignored for documents that carry no encryption.
	for _, password := range []string{"", "stray-password"} {
		doc, err := Open(data, password)
		if err != nil {
			t.Fatalf("Open(password=%q) unexpected error: %v", password, err)
		}
		if doc.PageCount() != 1 {
			t.Errorf("PageCount() = %d, want 1", doc.PageCount())
		}
	}
}
