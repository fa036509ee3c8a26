// Package commerce covers enrollment, favourites, payment callbacks and revenue figures.
package commerce

import (
	"context"
	"time"
)

// Notifier sends transactional mail. Implementations deliver asynchronously.
type Notifier interface {
	SendEnrollmentEmail(email, name, courseTitle string)
	SendPaymentReceiptEmail(email, name, courseTitle, orderID string, amount float64)
}

// Deduper claims a key once within ttl. Claim reports false when the key was already taken.
// Release frees a claim whose work failed so a retry can take it again.
type Deduper interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
