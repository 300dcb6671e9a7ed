package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billdesk/internal/domain"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\x`, escapeLike(`c:\x`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestBillFilterWhere_Empty(t *testing.T) {
	sql, args, err := psql.Select("b.id").From("bills b").Where(billFilterWhere(domain.BillFilter{})).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "ILIKE")
	assert.Empty(t, args)
}

func TestBillFilterWhere_AllFilters(t *testing.T) {
	sid := uuid.New()
	pid := uuid.New()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	sql, args, err := psql.Select("b.id").From("bills b").Where(billFilterWhere(domain.BillFilter{
		Query:         "acme_1",
		PaymentStatus: domain.PaymentUnpaid,
		SupplierID:    &sid,
		PartyID:       &pid,
		From:          &from,
		To:            &to,
	})).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "b.bill_number ILIKE $1")
	assert.Contains(t, sql, "s.name ILIKE $2")
	assert.Contains(t, sql, "p.name ILIKE $3")
	assert.Contains(t, sql, "b.payment_status = $4")
	assert.Contains(t, sql, "b.bill_date >= $7")
	assert.Contains(t, sql, "b.bill_date <= $8")
	require.Len(t, args, 8)
	assert.Equal(t, `%acme\_1%`, args[0])
	assert.Equal(t, "2024-01-01", args[6])
	assert.Equal(t, "2024-03-31", args[7])
}

func TestUniqueIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{a, b}, uniqueIDs([]uuid.UUID{a, b, a, b, a}))
}
