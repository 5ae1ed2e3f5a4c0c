package repositories

import "context"

// ReportCache stores computed report payloads until the ledger changes.
type ReportCache interface {
	// FetchJSON fills dest from the cache, or from loader on a miss and stores the result.
	FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error

	// Invalidate drops every cached report.
	Invalidate(ctx context.Context) error
}

// IdempotencyStore remembers which transaction an idempotency key produced.
type IdempotencyStore interface {
	// Reserve claims key. If the key already completed, it returns the stored transaction ID.
	// reserved is false when another request holds or completed the key.
	Reserve(ctx context.Context, key string) (transactionID string, reserved bool, err error)

	// Complete records the transaction produced under key.
	Complete(ctx context.Context, key string, transactionID string) error

	// Release frees a reserved key after a failed request.
	Release(ctx context.Context, key string) error
}
