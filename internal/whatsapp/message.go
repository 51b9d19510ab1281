// Package whatsapp menyusun pesan order dan deep link wa.me. Ini kanal satu
// arah: sistem tidak pernah tahu apakah pesan benar-benar terkirim, makanya
// alur checkout meminta konfirmasi manusia setelah link dibuka.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

type OrderLine struct {
	Name     string
	Price    int64
	Quantity int
}

// ComposeOrder merangkai ringkasan pesanan: rincian per item (nama, harga
// satuan, jumlah, subtotal) lalu grand total.
func ComposeOrder(lines []OrderLine, total int64) string {
	var b strings.Builder
	b.WriteString("Halo, saya ingin memesan/booking:\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "- %s (%s x %d) = %s\n",
			l.Name, FormatRupiah(l.Price), l.Quantity, FormatRupiah(l.Price*int64(l.Quantity)))
	}
	fmt.Fprintf(&b, "Total: %s", FormatRupiah(total))
	return b.String()
}

// Link membangun deep link wa.me dengan teks ter-escape.
func Link(number, text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(text))
}

// FormatRupiah memformat harga gaya id-ID: Rp21.499.000
func FormatRupiah(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := "Rp" + strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out
}
