package whatsapp

import (
	"strings"
	"testing"
)

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "Rp0"},
		{500, "Rp500"},
		{1000, "Rp1.000"},
		{399000, "Rp399.000"},
		{21499000, "Rp21.499.000"},
		{1234567890, "Rp1.234.567.890"},
		{-1500, "-Rp1.500"},
	}
	for _, c := range cases {
		if got := FormatRupiah(c.in); got != c.want {
			t.Errorf("FormatRupiah(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestComposeOrder(t *testing.T) {
	lines := []OrderLine{
		{Name: "Macbook Air M4", Price: 21499000, Quantity: 1},
		{Name: "AirPods Max", Price: 9499000, Quantity: 2},
	}
	msg := ComposeOrder(lines, 21499000+2*9499000)

	if !strings.HasPrefix(msg, "Halo, saya ingin memesan/booking:\n") {
		t.Errorf("unexpected greeting: %q", msg)
	}
	if !strings.Contains(msg, "- Macbook Air M4 (Rp21.499.000 x 1) = Rp21.499.000") {
		t.Errorf("missing first line: %q", msg)
	}
	if !strings.Contains(msg, "- AirPods Max (Rp9.499.000 x 2) = Rp18.998.000") {
		t.Errorf("missing second line: %q", msg)
	}
	if !strings.HasSuffix(msg, "Total: Rp40.497.000") {
		t.Errorf("missing total: %q", msg)
	}
}

func TestLink(t *testing.T) {
	got := Link("6287783273575", "Halo, total: Rp1.000 & ok")
	if !strings.HasPrefix(got, "https://wa.me/6287783273575?text=") {
		t.Fatalf("unexpected link: %q", got)
	}
	// spasi dan & harus ter-escape
	if strings.ContainsAny(strings.TrimPrefix(got, "https://wa.me/6287783273575?text="), " &") {
		t.Errorf("text not escaped: %q", got)
	}
	if !strings.Contains(got, "Halo%2C+total%3A+Rp1.000+%26+ok") {
		t.Errorf("unexpected escaping: %q", got)
	}
}
