package redisx

import "time"

const (
	// Keranjang per client: cart:{cart_id} -> JSON Cart.
	// Tanpa TTL — keranjang harus selamat dari reload.
	KeyCart = "cart:%s"

	// Sesi admin: admin_session:{token} -> JSON user.
	KeyAdminSession = "admin_session:%s"

	// Dedup event di notifier: dedup:notifier:{event_id}
	KeyNotifierDedup = "dedup:notifier:%s"
)

var (
	TTLAdminSession  = 12 * time.Hour
	TTLNotifierDedup = 48 * time.Hour
)
