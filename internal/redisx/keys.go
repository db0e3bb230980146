package redisx

import "time"

const (
	// Idempotent placement: idem:order:place:{idempotency_key} -> order_id
	KeyIdemOrderPlace = "idem:order:place:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
)
