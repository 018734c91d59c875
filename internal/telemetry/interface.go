package telemetry

import "context"

type ITelemetry interface {
	// BackfillEthereumDeposits scans the trailing block window and seeds the
	// poll cursor.
	BackfillEthereumDeposits(ctx context.Context) error
	// BackfillEthereumRange scans [from, to] without touching the poll cursor.
	BackfillEthereumRange(ctx context.Context, from, to uint64) error
	IndexEthereumDeposits(ctx context.Context) error
	IndexCasperEvents(ctx context.Context) error
	ProcessPendingSwaps(ctx context.Context) error
}
