package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncateName checks that truncation never grows a name or breaks UTF-8.
func FuzzTruncateName(f *testing.F) {
	f.Add("Samuel L. Jackson", 10)
	f.Add("Zoë Kravitz", 5)
	f.Add("", 0)
	f.Add("李连杰", 4)

	f.Fuzz(func(t *testing.T, name string, width int) {
		if !utf8.ValidString(name) {
			return
		}
		got := TruncateName(name, width)
		if !utf8.ValidString(got) {
			t.Fatalf("invalid utf8 from %q", name)
		}
		if width > 3 && utf8.RuneCountInString(got) > width {
			t.Fatalf("TruncateName(%q, %d) = %q exceeds width", name, width, got)
		}
	})
}
