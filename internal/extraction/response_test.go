package extraction

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billdesk/internal/config"
	"billdesk/internal/domain"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", "  {\"a\":1}  ", `{"a":1}`},
		{"leading only", "```json{\"a\":1}", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestParseBillData_Fenced(t *testing.T) {
	text := "```json\n" + `{
		"bill_number": "INV-42",
		"bill_date": "2024-02-10",
		"location": "Pune",
		"total_billed_amount": 1180.5,
		"supplier": {"name": "Acme Traders", "gstin": "27AAPFU0939F1ZV",
			"address": {"city": "Pune", "state": "Maharashtra", "pincode": "411001"},
			"phone": {"office": [], "mobile": ["9876543210"]}},
		"party": null,
		"items": [{"name": "Bolt", "hsn": "7318", "quantity": 10, "rate": 118.05, "amount": 1180.5}]
	}` + "\n```"

	data, err := ParseBillData(text)
	require.NoError(t, err)
	assert.Equal(t, "INV-42", data.BillNumber)
	assert.Equal(t, "2024-02-10", data.BillDate)
	require.NotNil(t, data.TotalBilledAmount)
	assert.True(t, decimal.RequireFromString("1180.5").Equal(*data.TotalBilledAmount))
	require.NotNil(t, data.Supplier)
	assert.Equal(t, "Acme Traders", data.Supplier.Name)
	assert.Equal(t, []string{"9876543210"}, data.Supplier.Phone.Mobile)
	assert.Nil(t, data.Party)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "Bolt", data.Items[0].Name)
}

func TestParseBillData_MissingItemsBecomesEmpty(t *testing.T) {
	data, err := ParseBillData(`{"bill_number":"X"}`)
	require.NoError(t, err)
	assert.NotNil(t, data.Items)
	assert.Empty(t, data.Items)
}

func TestParseBillData_LooseValues(t *testing.T) {
	dec := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, data *domain.BillData)
	}{
		{"empty total", `{"total_billed_amount": ""}`, func(t *testing.T, data *domain.BillData) {
			assert.Nil(t, data.TotalBilledAmount)
		}},
		{"grouped total", `{"total_billed_amount": "1,180.50"}`, func(t *testing.T, data *domain.BillData) {
			assert.Equal(t, dec("1180.50").String(), data.TotalBilledAmount.String())
		}},
		{"currency prefix", `{"total_billed_amount": "₹ 2,500"}`, func(t *testing.T, data *domain.BillData) {
			assert.Equal(t, "2500", data.TotalBilledAmount.String())
		}},
		{"unreadable total", `{"total_billed_amount": "N/A"}`, func(t *testing.T, data *domain.BillData) {
			assert.Nil(t, data.TotalBilledAmount)
		}},
		{"numeric pincode", `{"supplier": {"name": "Acme", "address": {"pincode": 400001}}}`, func(t *testing.T, data *domain.BillData) {
			require.NotNil(t, data.Supplier)
			assert.Equal(t, "400001", data.Supplier.Address.Pincode)
		}},
		{"single line address", `{"party": {"name": "Beta", "address": "5 Park St, Kolkata"}}`, func(t *testing.T, data *domain.BillData) {
			require.NotNil(t, data.Party)
			assert.Equal(t, "5 Park St, Kolkata", data.Party.Address.Street)
		}},
		{"phone as string", `{"supplier": {"phone": {"office": "", "mobile": "9876543210"}}}`, func(t *testing.T, data *domain.BillData) {
			assert.Nil(t, data.Supplier.Phone.Office)
			assert.Equal(t, []string{"9876543210"}, data.Supplier.Phone.Mobile)
		}},
		{"numeric phones", `{"supplier": {"phone": {"mobile": [9876543210, ""]}}}`, func(t *testing.T, data *domain.BillData) {
			assert.Equal(t, []string{"9876543210"}, data.Supplier.Phone.Mobile)
		}},
		{"blank item values", `{"items": [{"name": "Nut", "hsn": 7318, "quantity": "", "rate": null, "amount": "1,000"}]}`, func(t *testing.T, data *domain.BillData) {
			require.Len(t, data.Items, 1)
			it := data.Items[0]
			assert.Equal(t, "7318", it.HSN)
			assert.Nil(t, it.Quantity)
			assert.Nil(t, it.Rate)
			assert.Equal(t, "1000", it.Amount.String())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ParseBillData(tt.text)
			require.NoError(t, err)
			tt.check(t, data)
		})
	}
}

func TestParseBillData_Invalid(t *testing.T) {
	for _, text := range []string{"", "```json\n```", "Sorry, I cannot read this bill.", `{"bill_number": }`, `{"items": "none"}`} {
		_, err := ParseBillData(text)
		assert.ErrorIs(t, err, domain.ErrParseFailed, text)
	}
}

func TestDetectImageType(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	webp := []byte("RIFF\x00\x00\x00\x00WEBPVP8 ")

	ct, ext, err := DetectImageType(jpeg)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)
	assert.Equal(t, domain.ImageType("jpg"), ext)

	ct, _, err = DetectImageType(png)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	ct, _, err = DetectImageType(webp)
	require.NoError(t, err)
	assert.Equal(t, "image/webp", ct)

	_, _, err = DetectImageType([]byte("%PDF-1.4 not an image"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedImage)
}

func TestNewExtractor_UnknownProvider(t *testing.T) {
	_, err := NewExtractor(&config.ExtractionConfig{Provider: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown extraction provider")
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, ParseRetryAfterHeader(""))
	assert.Equal(t, 0, ParseRetryAfterHeader("soon"))
	assert.Equal(t, 12, ParseRetryAfterHeader("12"))
}
