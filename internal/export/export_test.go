package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"billdesk/internal/domain"
)

func sampleBills() []domain.Bill {
	return []domain.Bill{
		{
			ID:                uuid.New(),
			BillNumber:        "INV-001",
			BillDate:          time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			Location:          "Pune",
			TotalBilledAmount: decimal.RequireFromString("250"),
			PaymentStatus:     domain.PaymentPaid,
			Supplier:          &domain.Contact{Name: "Acme Traders", GSTIN: "27AAPFU0939F1ZV"},
			Party:             &domain.Contact{Name: "Shree Stores", GSTIN: "29ABCDE1234F1Z5"},
			CreatedAt:         time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC),
			Items: []domain.BillItem{
				{Name: "Bolt", HSN: "7318", Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(20), Amount: decimal.NewFromInt(200)},
				{Name: "Nut", HSN: "7318", Quantity: decimal.NewFromInt(5), Rate: decimal.NewFromInt(10), Amount: decimal.NewFromInt(50)},
			},
		},
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteBills(sampleBills()))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bill Number", rows[0][0])
	assert.Equal(t, []string{
		"INV-001", "2024-03-05", "Pune", "paid", "250.00",
		"Acme Traders", "27AAPFU0939F1ZV", "Shree Stores", "29ABCDE1234F1Z5",
		"2", "2024-03-06T10:00:00Z",
	}, rows[1])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleBills()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{billsSheet, itemsSheet}, f.GetSheetList())

	bills, err := f.GetRows(billsSheet)
	require.NoError(t, err)
	require.Len(t, bills, 2)
	assert.Equal(t, "INV-001", bills[1][0])
	assert.Equal(t, "250.00", bills[1][4])

	items, err := f.GetRows(itemsSheet)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"INV-001", "2024-03-05", "1", "Bolt", "7318", "10", "20.00", "200.00"}, items[1])
	assert.Equal(t, "Nut", items[2][3])
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(billsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Bills_March_2024", SanitizeFilename("Bills / March  2024"))
	assert.Equal(t, "a-b_c", SanitizeFilename("__a-b c__"))
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "bills_2024-04-01.xlsx", BuildFilename("bills", "xlsx", now))
}
