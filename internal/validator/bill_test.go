package validator

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billdesk/internal/domain"
)

func newContactPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":  "Acme Traders",
		"gstin": "27AAPFU0939F1ZV",
		"address": map[string]interface{}{
			"street":  "12 MG Road",
			"city":    "Pune",
			"state":   "Maharashtra",
			"pincode": "411001",
		},
		"phone": map[string]interface{}{
			"office": []interface{}{},
			"mobile": []interface{}{"9876543210"},
		},
	}
}

func validBillPayload() map[string]interface{} {
	return map[string]interface{}{
		"bill_number":         "INV-001",
		"bill_date":           "2024-01-15",
		"location":            "Pune",
		"total_billed_amount": 1000,
		"payment_status":      "unpaid",
		"supplierId":          uuid.New().String(),
		"newParty":            newContactPayload(),
		"items": []interface{}{
			map[string]interface{}{"name": "Widget", "hsn": "8471", "quantity": 10, "rate": 100, "amount": 1000},
		},
	}
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestValidateBill_Valid(t *testing.T) {
	payload := validBillPayload()
	sub, errs := ValidateBill(mustJSON(t, payload))
	require.Empty(t, errs)
	require.NotNil(t, sub)

	assert.Equal(t, "INV-001", sub.BillNumber)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), sub.BillDate)
	assert.Equal(t, domain.PaymentUnpaid, sub.PaymentStatus)
	require.NotNil(t, sub.SupplierID)
	assert.Equal(t, payload["supplierId"], sub.SupplierID.String())
	assert.Nil(t, sub.NewSupplier)
	assert.Nil(t, sub.PartyID)
	require.NotNil(t, sub.NewParty)
	assert.Equal(t, "27AAPFU0939F1ZV", sub.NewParty.GSTIN)
	assert.Equal(t, []string{"9876543210"}, sub.NewParty.Phone.Mobile)
	assert.Equal(t, []string{}, sub.NewParty.Phone.Office)
	require.Len(t, sub.Items, 1)
	assert.Equal(t, "1000", sub.Items[0].Amount.String())
}

func TestValidateBill_NormalisesPaymentStatus(t *testing.T) {
	payload := validBillPayload()
	payload["payment_status"] = "PAID"
	sub, errs := ValidateBill(mustJSON(t, payload))
	require.Empty(t, errs)
	assert.Equal(t, domain.PaymentPaid, sub.PaymentStatus)
}

func TestValidateBill_DateLayouts(t *testing.T) {
	for _, d := range []string{"2024-01-15", "2024-01-15T10:30:00Z", "15-01-2024", "15/01/2024"} {
		payload := validBillPayload()
		payload["bill_date"] = d
		sub, errs := ValidateBill(mustJSON(t, payload))
		require.Empty(t, errs, d)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), sub.BillDate, d)
	}
}

func TestValidateBill_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p map[string]interface{})
		path   string
	}{
		{"missing bill number", func(p map[string]interface{}) { delete(p, "bill_number") }, "bill_number"},
		{"bad date", func(p map[string]interface{}) { p["bill_date"] = "not-a-date" }, "bill_date"},
		{"empty location", func(p map[string]interface{}) { p["location"] = "" }, "location"},
		{"zero total", func(p map[string]interface{}) { p["total_billed_amount"] = 0 }, "total_billed_amount"},
		{"negative total", func(p map[string]interface{}) { p["total_billed_amount"] = -5 }, "total_billed_amount"},
		{"unknown payment status", func(p map[string]interface{}) { p["payment_status"] = "partial" }, "payment_status"},
		{"bill number wrong type", func(p map[string]interface{}) { p["bill_number"] = 42 }, "bill_number"},
		{"total wrong type", func(p map[string]interface{}) { p["total_billed_amount"] = true }, "total_billed_amount"},
		{"items missing", func(p map[string]interface{}) { delete(p, "items") }, "items"},
		{"items empty", func(p map[string]interface{}) { p["items"] = []interface{}{} }, "items"},
		{"items not array", func(p map[string]interface{}) { p["items"] = "x" }, "items"},
		{"item rate zero", func(p map[string]interface{}) {
			p["items"] = []interface{}{map[string]interface{}{"name": "W", "hsn": "1", "quantity": 1, "rate": 0, "amount": 1}}
		}, "items[0].rate"},
		{"item missing hsn", func(p map[string]interface{}) {
			p["items"] = []interface{}{map[string]interface{}{"name": "W", "quantity": 1, "rate": 1, "amount": 1}}
		}, "items[0].hsn"},
		{"item amount mismatch", func(p map[string]interface{}) {
			p["items"] = []interface{}{map[string]interface{}{"name": "W", "hsn": "1", "quantity": 2, "rate": 10, "amount": 25}}
		}, "items[0].amount"},
		{"supplier id not uuid", func(p map[string]interface{}) { p["supplierId"] = "abc" }, "supplierId"},
		{"new party short gstin", func(p map[string]interface{}) {
			p["newParty"].(map[string]interface{})["gstin"] = "27AAPFU"
		}, "newParty.gstin"},
		{"new party malformed gstin", func(p map[string]interface{}) {
			p["newParty"].(map[string]interface{})["gstin"] = "AAAAAAAAAAAAAAA"
		}, "newParty.gstin"},
		{"new party bad pincode", func(p map[string]interface{}) {
			p["newParty"].(map[string]interface{})["address"].(map[string]interface{})["pincode"] = "41100"
		}, "newParty.address.pincode"},
		{"new party missing state", func(p map[string]interface{}) {
			delete(p["newParty"].(map[string]interface{})["address"].(map[string]interface{}), "state")
		}, "newParty.address.state"},
		{"new party no mobile", func(p map[string]interface{}) {
			p["newParty"].(map[string]interface{})["phone"].(map[string]interface{})["mobile"] = []interface{}{}
		}, "newParty.phone.mobile"},
		{"new party bad mobile", func(p map[string]interface{}) {
			p["newParty"].(map[string]interface{})["phone"].(map[string]interface{})["mobile"] = []interface{}{"12345"}
		}, "newParty.phone.mobile[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validBillPayload()
			tt.mutate(payload)
			sub, errs := ValidateBill(mustJSON(t, payload))
			assert.Nil(t, sub)
			assert.Contains(t, errs, tt.path, "errors: %v", errs)
		})
	}
}

func TestValidateBill_ExactlyOneContact(t *testing.T) {
	t.Run("neither supplier", func(t *testing.T) {
		payload := validBillPayload()
		delete(payload, "supplierId")
		_, errs := ValidateBill(mustJSON(t, payload))
		assert.Contains(t, errs, "supplier")
	})
	t.Run("both party", func(t *testing.T) {
		payload := validBillPayload()
		payload["partyId"] = uuid.New().String()
		_, errs := ValidateBill(mustJSON(t, payload))
		assert.Contains(t, errs, "party")
	})
	t.Run("neither party", func(t *testing.T) {
		payload := validBillPayload()
		delete(payload, "newParty")
		_, errs := ValidateBill(mustJSON(t, payload))
		assert.Contains(t, errs, "party")
		assert.NotContains(t, errs, "supplier")
	})
}

func TestValidateBill_AmountWithinTolerance(t *testing.T) {
	payload := validBillPayload()
	payload["items"] = []interface{}{
		map[string]interface{}{"name": "W", "hsn": "1", "quantity": 3, "rate": 33.33, "amount": 100.5},
	}
	_, errs := ValidateBill(mustJSON(t, payload))
	assert.Contains(t, errs, "items[0].amount")

	payload["items"] = []interface{}{
		map[string]interface{}{"name": "W", "hsn": "1", "quantity": 3, "rate": 33.33, "amount": 100},
	}
	_, errs = ValidateBill(mustJSON(t, payload))
	assert.Empty(t, errs)
}

func TestValidateBill_StoragePrecision(t *testing.T) {
	tests := []struct {
		name  string
		total interface{}
		item  map[string]interface{}
		path  string
		msg   string
	}{
		{"total rounds to zero", "0.004", nil, "total_billed_amount", "must have at most 2 decimal places"},
		{"total too large", "1000000000000", nil, "total_billed_amount", "must be less than 1000000000000"},
		{"quantity rounds to zero", nil,
			map[string]interface{}{"name": "W", "hsn": "1", "quantity": "0.0001", "rate": 100, "amount": 0.01},
			"items[0].quantity", "must have at most 3 decimal places"},
		{"rate would be rounded", nil,
			map[string]interface{}{"name": "W", "hsn": "1", "quantity": 2, "rate": "10.555", "amount": 21.11},
			"items[0].rate", "must have at most 2 decimal places"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validBillPayload()
			if tt.total != nil {
				payload["total_billed_amount"] = tt.total
			}
			if tt.item != nil {
				payload["items"] = []interface{}{tt.item}
			}
			sub, errs := ValidateBill(mustJSON(t, payload))
			assert.Nil(t, sub)
			assert.Equal(t, tt.msg, errs[tt.path])
		})
	}

	t.Run("three place quantity accepted", func(t *testing.T) {
		payload := validBillPayload()
		payload["items"] = []interface{}{
			map[string]interface{}{"name": "W", "hsn": "1", "quantity": "2.125", "rate": 8, "amount": 17},
		}
		payload["total_billed_amount"] = "17.00"
		_, errs := ValidateBill(mustJSON(t, payload))
		assert.Empty(t, errs)
	})
}

func TestValidateBill_NumericStringsAccepted(t *testing.T) {
	payload := validBillPayload()
	payload["total_billed_amount"] = "1000.00"
	payload["items"] = []interface{}{
		map[string]interface{}{"name": "W", "hsn": "1", "quantity": "10", "rate": "100", "amount": "1000"},
	}
	_, errs := ValidateBill(mustJSON(t, payload))
	assert.Empty(t, errs)
}

func TestValidateBill_InvalidJSON(t *testing.T) {
	_, errs := ValidateBill([]byte(`{"bill_number":`))
	assert.Contains(t, errs, "body")

	_, errs = ValidateBill([]byte(`[1,2]`))
	assert.Contains(t, errs, "body")
}

func TestValidateBill_NoPartialAcceptance(t *testing.T) {
	payload := validBillPayload()
	payload["location"] = ""
	payload["payment_status"] = "maybe"
	sub, errs := ValidateBill(mustJSON(t, payload))
	assert.Nil(t, sub)
	assert.Len(t, errs, 2)
}

func TestFieldErrors_IsInvalidInput(t *testing.T) {
	var err error = FieldErrors{"a": "is required"}
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "a: is required")
}

func TestValidateBillUpdate(t *testing.T) {
	t.Run("partial header", func(t *testing.T) {
		upd, errs := ValidateBillUpdate([]byte(`{"payment_status":"Paid","location":"Mumbai"}`))
		require.Empty(t, errs)
		require.NotNil(t, upd.PaymentStatus)
		assert.Equal(t, domain.PaymentPaid, *upd.PaymentStatus)
		assert.Equal(t, "Mumbai", *upd.Location)
		assert.Nil(t, upd.BillNumber)
		assert.Nil(t, upd.Items)
	})
	t.Run("items replaced", func(t *testing.T) {
		upd, errs := ValidateBillUpdate([]byte(`{"items":[{"name":"A","hsn":"1","quantity":2,"rate":5,"amount":10}]}`))
		require.Empty(t, errs)
		require.Len(t, upd.Items, 1)
	})
	t.Run("invalid values", func(t *testing.T) {
		_, errs := ValidateBillUpdate([]byte(`{"bill_date":"x","payment_status":"later","supplierId":"nope","items":[]}`))
		assert.Contains(t, errs, "bill_date")
		assert.Contains(t, errs, "payment_status")
		assert.Contains(t, errs, "supplierId")
		assert.Contains(t, errs, "items")
	})
	t.Run("precision", func(t *testing.T) {
		_, errs := ValidateBillUpdate([]byte(`{"total_billed_amount":"0.004","items":[{"name":"A","hsn":"1","quantity":2,"rate":"10.555","amount":21.11}]}`))
		assert.Equal(t, "must have at most 2 decimal places", errs["total_billed_amount"])
		assert.Equal(t, "must have at most 2 decimal places", errs["items[0].rate"])
	})
	t.Run("empty bill number", func(t *testing.T) {
		_, errs := ValidateBillUpdate([]byte(`{"bill_number":""}`))
		assert.Contains(t, errs, "bill_number")
	})
}
