package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Model output is loosely typed: amounts arrive as "1,180.50" or "", codes
// and pincodes as bare numbers, phone lists as a single string. The types
// below absorb those shapes so that a readable bill never fails to decode.

var amountNoise = strings.NewReplacer(",", "", "₹", "", "Rs.", "", "Rs", "", "INR", "", " ", "")

type flexDecimal struct{ v *decimal.Decimal }

func (f *flexDecimal) UnmarshalJSON(b []byte) error {
	f.v = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = amountNoise.Replace(s)
	}
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		// unreadable amounts are left blank for the reviewer to fill in
		return nil
	}
	f.v = &d
	return nil
}

type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")), b[0] == '{', b[0] == '[':
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		*f = flexString(b)
	}
	return nil
}

type flexStrings []string

func (f *flexStrings) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = nil
		return nil
	}
	if b[0] != '[' {
		var s flexString
		if err := s.UnmarshalJSON(b); err != nil {
			return err
		}
		*f = nil
		if s != "" {
			*f = flexStrings{string(s)}
		}
		return nil
	}
	var elems []flexString
	if err := json.Unmarshal(b, &elems); err != nil {
		return err
	}
	out := make(flexStrings, 0, len(elems))
	for _, e := range elems {
		if e != "" {
			out = append(out, string(e))
		}
	}
	*f = out
	return nil
}

func (d *BillData) UnmarshalJSON(b []byte) error {
	type plain BillData
	aux := struct {
		*plain
		BillNumber        flexString  `json:"bill_number"`
		BillDate          flexString  `json:"bill_date"`
		Location          flexString  `json:"location"`
		TotalBilledAmount flexDecimal `json:"total_billed_amount"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	d.BillNumber = string(aux.BillNumber)
	d.BillDate = string(aux.BillDate)
	d.Location = string(aux.Location)
	d.TotalBilledAmount = aux.TotalBilledAmount.v
	return nil
}

func (p *ExtractedParty) UnmarshalJSON(b []byte) error {
	type plain ExtractedParty
	aux := struct {
		*plain
		Name  flexString `json:"name"`
		GSTIN flexString `json:"gstin"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.Name = string(aux.Name)
	p.GSTIN = string(aux.GSTIN)
	return nil
}

func (a *ExtractedAddress) UnmarshalJSON(b []byte) error {
	var aux struct {
		Street  flexString `json:"street"`
		City    flexString `json:"city"`
		State   flexString `json:"state"`
		Pincode flexString `json:"pincode"`
	}
	if bytes.HasPrefix(bytes.TrimSpace(b), []byte("\"")) {
		// a single-line address
		var s flexString
		if err := s.UnmarshalJSON(b); err != nil {
			return err
		}
		*a = ExtractedAddress{Street: string(s)}
		return nil
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*a = ExtractedAddress{
		Street:  string(aux.Street),
		City:    string(aux.City),
		State:   string(aux.State),
		Pincode: string(aux.Pincode),
	}
	return nil
}

func (p *ExtractedPhone) UnmarshalJSON(b []byte) error {
	var aux struct {
		Office flexStrings `json:"office"`
		Mobile flexStrings `json:"mobile"`
	}
	if t := bytes.TrimSpace(b); len(t) > 0 && t[0] != '{' {
		// a bare number or list is taken as mobile
		if err := aux.Mobile.UnmarshalJSON(t); err != nil {
			return err
		}
		*p = ExtractedPhone{Mobile: []string(aux.Mobile)}
		return nil
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.Office = []string(aux.Office)
	p.Mobile = []string(aux.Mobile)
	return nil
}

func (it *ExtractedItem) UnmarshalJSON(b []byte) error {
	var aux struct {
		Name     flexString  `json:"name"`
		HSN      flexString  `json:"hsn"`
		Quantity flexDecimal `json:"quantity"`
		Rate     flexDecimal `json:"rate"`
		Amount   flexDecimal `json:"amount"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*it = ExtractedItem{
		Name:     string(aux.Name),
		HSN:      string(aux.HSN),
		Quantity: aux.Quantity.v,
		Rate:     aux.Rate.v,
		Amount:   aux.Amount.v,
	}
	return nil
}
