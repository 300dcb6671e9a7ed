package validator

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"billdesk/internal/domain"
)

type billForm struct {
	BillNumber        string          `json:"bill_number" validate:"required"`
	BillDate          string          `json:"bill_date" validate:"required,billdate"`
	Location          string          `json:"location" validate:"required"`
	TotalBilledAmount decimal.Decimal `json:"total_billed_amount" validate:"gt=0"`
	PaymentStatus     string          `json:"payment_status" validate:"required,paymentstatus"`
	SupplierID        string          `json:"supplierId" validate:"omitempty,uuid"`
	PartyID           string          `json:"partyId" validate:"omitempty,uuid"`
	NewSupplier       *contactForm    `json:"newSupplier"`
	NewParty          *contactForm    `json:"newParty"`
	Items             []itemForm      `json:"items" validate:"required,min=1,dive"`
}

type itemForm struct {
	Name     string          `json:"name" validate:"required"`
	HSN      string          `json:"hsn" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
	Rate     decimal.Decimal `json:"rate" validate:"gt=0"`
	Amount   decimal.Decimal `json:"amount" validate:"gt=0"`
}

type itemsForm struct {
	Items []itemForm `json:"items" validate:"required,min=1,dive"`
}

// ValidateBill checks a bill submission and converts it into a
// BillSubmission. It never touches the store. The returned FieldErrors is
// non-empty exactly when the submission is rejected.
func ValidateBill(raw []byte) (*domain.BillSubmission, FieldErrors) {
	errs := FieldErrors{}
	m, err := decodeObject(raw)
	if err != nil {
		errs.add("body", err.Error())
		return nil, errs
	}

	r := &reader{errs: errs}
	form := billForm{
		BillNumber:        r.str(m, "bill_number", ""),
		BillDate:          r.str(m, "bill_date", ""),
		Location:          r.str(m, "location", ""),
		TotalBilledAmount: r.dec(m, "total_billed_amount", ""),
		PaymentStatus:     r.str(m, "payment_status", ""),
		SupplierID:        r.str(m, "supplierId", ""),
		PartyID:           r.str(m, "partyId", ""),
		NewSupplier:       readContact(r, m, "newSupplier", ""),
		NewParty:          readContact(r, m, "newParty", ""),
	}
	if rawItems, ok := r.objSlice(m, "items", ""); ok {
		form.Items = readItems(r, rawItems)
	}

	structErrors(&form, "", errs)
	checkExactlyOne(form.SupplierID, form.NewSupplier, domain.KindSupplier, errs)
	checkExactlyOne(form.PartyID, form.NewParty, domain.KindParty, errs)
	checkPrecision(errs, "total_billed_amount", form.TotalBilledAmount, moneyPlaces, moneyLimit)
	checkItemPrecision(form.Items, errs)
	checkItemAmounts(form.Items, errs)

	if len(errs) > 0 {
		return nil, errs
	}

	sub := &domain.BillSubmission{
		BillNumber:        form.BillNumber,
		Location:          form.Location,
		TotalBilledAmount: form.TotalBilledAmount,
		Items:             toItemInputs(form.Items),
	}
	sub.BillDate, _ = ParseDate(form.BillDate)
	sub.PaymentStatus, _ = domain.ParsePaymentStatus(form.PaymentStatus)
	if form.SupplierID != "" {
		id := uuid.MustParse(form.SupplierID)
		sub.SupplierID = &id
	} else {
		sub.NewSupplier = form.NewSupplier.toDomain()
	}
	if form.PartyID != "" {
		id := uuid.MustParse(form.PartyID)
		sub.PartyID = &id
	} else {
		sub.NewParty = form.NewParty.toDomain()
	}
	return sub, nil
}

func checkExactlyOne(id string, newContact *contactForm, kind domain.ContactKind, errs FieldErrors) {
	label := string(kind)
	switch {
	case id == "" && newContact == nil:
		errs.add(label, fmt.Sprintf("Either select an existing %s or add a new one", label))
	case id != "" && newContact != nil:
		errs.add(label, fmt.Sprintf("Provide either an existing %s id or a new %s, not both", label, label))
	}
}

func readItems(r *reader, rawItems []map[string]interface{}) []itemForm {
	items := make([]itemForm, len(rawItems))
	for i, it := range rawItems {
		p := fmt.Sprintf("items[%d]", i)
		items[i] = itemForm{
			Name:     r.str(it, "name", p),
			HSN:      r.str(it, "hsn", p),
			Quantity: r.dec(it, "quantity", p),
			Rate:     r.dec(it, "rate", p),
			Amount:   r.dec(it, "amount", p),
		}
	}
	return items
}

func toItemInputs(items []itemForm) []domain.ItemInput {
	out := make([]domain.ItemInput, len(items))
	for i, it := range items {
		out[i] = domain.ItemInput{
			Name:     it.Name,
			HSN:      it.HSN,
			Quantity: it.Quantity,
			Rate:     it.Rate,
			Amount:   it.Amount,
		}
	}
	return out
}

// ValidateBillUpdate checks a partial bill update. Only keys present in the
// body are validated; "items", when present, replaces all line items and must
// satisfy the same rules as a new bill.
func ValidateBillUpdate(raw []byte) (*domain.BillUpdate, FieldErrors) {
	errs := FieldErrors{}
	m, err := decodeObject(raw)
	if err != nil {
		errs.add("body", err.Error())
		return nil, errs
	}
	r := &reader{errs: errs}
	upd := &domain.BillUpdate{}

	if r.has(m, "bill_number") {
		s := r.str(m, "bill_number", "")
		checkVar(errs, "bill_number", s, "required")
		upd.BillNumber = &s
	}
	if r.has(m, "bill_date") {
		s := r.str(m, "bill_date", "")
		if checkVar(errs, "bill_date", s, "required,billdate") {
			d, _ := ParseDate(s)
			upd.BillDate = &d
		}
	}
	if r.has(m, "location") {
		s := r.str(m, "location", "")
		checkVar(errs, "location", s, "required")
		upd.Location = &s
	}
	if r.has(m, "total_billed_amount") {
		d := r.dec(m, "total_billed_amount", "")
		if checkVar(errs, "total_billed_amount", d, "gt=0") {
			checkPrecision(errs, "total_billed_amount", d, moneyPlaces, moneyLimit)
		}
		upd.TotalBilledAmount = &d
	}
	if r.has(m, "payment_status") {
		s := r.str(m, "payment_status", "")
		if checkVar(errs, "payment_status", s, "required,paymentstatus") {
			ps, _ := domain.ParsePaymentStatus(s)
			upd.PaymentStatus = &ps
		}
	}
	upd.SupplierID = readUUID(r, m, "supplierId", errs)
	upd.PartyID = readUUID(r, m, "partyId", errs)

	if rawItems, ok := r.objSlice(m, "items", ""); ok {
		form := itemsForm{Items: readItems(r, rawItems)}
		structErrors(&form, "", errs)
		checkItemPrecision(form.Items, errs)
		checkItemAmounts(form.Items, errs)
		upd.Items = toItemInputs(form.Items)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return upd, nil
}

func readUUID(r *reader, m map[string]interface{}, key string, errs FieldErrors) *uuid.UUID {
	if !r.has(m, key) {
		return nil
	}
	s := r.str(m, key, "")
	if !checkVar(errs, key, s, "required,uuid") {
		return nil
	}
	id := uuid.MustParse(s)
	return &id
}

// checkVar validates a single value against tag and records the first failure at path.
func checkVar(errs FieldErrors, path string, value interface{}, tag string) bool {
	if _, exists := errs[path]; exists {
		return false
	}
	if err := validate.Var(value, tag); err != nil {
		errs.add(path, varMessage(err))
		return false
	}
	return true
}
