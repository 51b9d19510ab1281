package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderID membuat kode referensi order untuk ditampilkan ke pembeli:
// komponen waktu + komponen acak. Unik dengan probabilitas tinggi; tidak ada
// pengecekan histori karena ini bukan key, cuma referensi display.
func GenerateOrderID() string {
	rand := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), rand)
}
