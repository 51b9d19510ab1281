package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptySelection  = errors.New("checkout: no items selected")
	ErrSessionNotFound = errors.New("checkout: session not found")
	// ErrProcessing dikembalikan saat confirm/cancel dipanggil ulang ketika
	// pengurangan stok sedang berjalan (guard terhadap double-click).
	ErrProcessing = errors.New("checkout: confirmation already in progress")
)

// StockShortfall menjelaskan item mana yang gagal validasi dan selisihnya.
type StockShortfall struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// ValidationError berarti seluruh batch ditolak sebelum ada efek samping
// apa pun. Selalu bisa dipulihkan secara lokal.
type ValidationError struct {
	Shortfalls []StockShortfall
}

func (e *ValidationError) Error() string {
	var parts []string
	for _, s := range e.Shortfalls {
		if s.Available <= 0 {
			parts = append(parts, fmt.Sprintf("%s: stok kosong", s.Name))
		} else {
			parts = append(parts, fmt.Sprintf("%s: diminta %d, tersedia %d", s.Name, s.Requested, s.Available))
		}
	}
	return "checkout rejected: " + strings.Join(parts, "; ")
}

// PartialFailure adalah kegagalan di tengah loop pengurangan stok: item yang
// sudah terpotong tetap terpotong (remote store tidak punya transaksi, tidak
// ada rollback), pesan WhatsApp sudah terlanjur dikirim. User harus
// merekonsiliasi manual.
type PartialFailure struct {
	CartID    string
	Committed []Item // item yang stoknya sudah berhasil dikurangi
	FailedID  string // product id tempat loop berhenti
	Err       error
}

func (e *PartialFailure) Error() string {
	ids := make([]string, 0, len(e.Committed))
	for _, it := range e.Committed {
		ids = append(ids, it.ProductID)
	}
	return fmt.Sprintf("checkout partially failed at product %s (committed: [%s]): %v",
		e.FailedID, strings.Join(ids, " "), e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }
