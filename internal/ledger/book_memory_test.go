package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBook_HoldAndPayout(t *testing.T) {
	ctx := context.Background()
	book := NewInMemoryBook()

	require.NoError(t, book.Hold(ctx, 1, 100))
	require.NoError(t, book.Hold(ctx, 2, 40))
	assert.Equal(t, int64(140), book.EscrowTotal())
	assert.Equal(t, int64(100), book.HeldFor(1))

	require.NoError(t, book.Payout(ctx, "dr-1", 100))
	assert.Equal(t, int64(40), book.EscrowTotal())
	assert.Equal(t, int64(100), book.PaidTo("dr-1"))
}

func TestInMemoryBook_Rejections(t *testing.T) {
	ctx := context.Background()
	book := NewInMemoryBook()

	assert.ErrorIs(t, book.Hold(ctx, 1, 0), ErrNonPositiveAmount)
	assert.ErrorIs(t, book.Payout(ctx, "dr-1", -1), ErrNonPositiveAmount)

	require.NoError(t, book.Hold(ctx, 1, 50))
	assert.ErrorIs(t, book.Payout(ctx, "dr-1", 60), ErrEscrowUnderflow)

	// A failed payout must not move anything.
	assert.Equal(t, int64(50), book.EscrowTotal())
	assert.Equal(t, int64(0), book.PaidTo("dr-1"))
}
