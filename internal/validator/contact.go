package validator

import (
	"strings"

	"billdesk/internal/domain"
)

type contactForm struct {
	Name    string      `json:"name" validate:"required"`
	GSTIN   string      `json:"gstin" validate:"required,len=15,gstin"`
	Address addressForm `json:"address"`
	Phone   phoneForm   `json:"phone"`
}

type addressForm struct {
	Street   *string `json:"street"`
	City     *string `json:"city"`
	Post     *string `json:"post"`
	District *string `json:"district"`
	State    string  `json:"state" validate:"required"`
	Pincode  string  `json:"pincode" validate:"required,pincode"`
	StCode   *string `json:"st_code"`
}

type phoneForm struct {
	Office []string `json:"office"`
	Mobile []string `json:"mobile" validate:"required,min=1,dive,mobile"`
}

func readContact(r *reader, m map[string]interface{}, key, prefix string) *contactForm {
	o := r.obj(m, key, prefix)
	if o == nil {
		return nil
	}
	p := joinPath(prefix, key)
	return readContactFields(r, o, p)
}

func readContactFields(r *reader, o map[string]interface{}, p string) *contactForm {
	form := &contactForm{
		Name:  r.str(o, "name", p),
		GSTIN: strings.ToUpper(r.str(o, "gstin", p)),
	}
	if a := r.obj(o, "address", p); a != nil {
		form.Address = readAddress(r, a, joinPath(p, "address"))
	}
	if ph := r.obj(o, "phone", p); ph != nil {
		form.Phone = readPhone(r, ph, joinPath(p, "phone"))
	}
	return form
}

func readAddress(r *reader, a map[string]interface{}, p string) addressForm {
	return addressForm{
		Street:   r.optStr(a, "street", p),
		City:     r.optStr(a, "city", p),
		Post:     r.optStr(a, "post", p),
		District: r.optStr(a, "district", p),
		State:    r.str(a, "state", p),
		Pincode:  r.str(a, "pincode", p),
		StCode:   r.optStr(a, "st_code", p),
	}
}

func readPhone(r *reader, ph map[string]interface{}, p string) phoneForm {
	return phoneForm{
		Office: r.strSlice(ph, "office", p),
		Mobile: r.strSlice(ph, "mobile", p),
	}
}

func (f *contactForm) toDomain() *domain.NewContact {
	if f == nil {
		return nil
	}
	office := f.Phone.Office
	if office == nil {
		office = []string{}
	}
	return &domain.NewContact{
		Name:  f.Name,
		GSTIN: f.GSTIN,
		Address: domain.AddressInput{
			Street:   f.Address.Street,
			City:     f.Address.City,
			Post:     f.Address.Post,
			District: f.Address.District,
			State:    f.Address.State,
			Pincode:  f.Address.Pincode,
			StCode:   f.Address.StCode,
		},
		Phone: domain.PhoneInput{Office: office, Mobile: f.Phone.Mobile},
	}
}

// ValidateContact checks the body of a standalone supplier or party create.
func ValidateContact(raw []byte) (*domain.NewContact, FieldErrors) {
	errs := FieldErrors{}
	m, err := decodeObject(raw)
	if err != nil {
		errs.add("body", err.Error())
		return nil, errs
	}
	r := &reader{errs: errs}
	form := readContactFields(r, m, "")
	structErrors(form, "", errs)
	if len(errs) > 0 {
		return nil, errs
	}
	return form.toDomain(), nil
}

// ValidateContactUpdate checks a partial supplier or party update. A present
// address or phone object replaces the stored one and is validated in full.
func ValidateContactUpdate(raw []byte) (*domain.ContactUpdate, FieldErrors) {
	errs := FieldErrors{}
	m, err := decodeObject(raw)
	if err != nil {
		errs.add("body", err.Error())
		return nil, errs
	}
	r := &reader{errs: errs}
	upd := &domain.ContactUpdate{}

	if r.has(m, "name") {
		s := r.str(m, "name", "")
		checkVar(errs, "name", s, "required")
		upd.Name = &s
	}
	if r.has(m, "gstin") {
		s := strings.ToUpper(r.str(m, "gstin", ""))
		checkVar(errs, "gstin", s, "required,len=15,gstin")
		upd.GSTIN = &s
	}
	if a := r.obj(m, "address", ""); a != nil {
		form := readAddress(r, a, "address")
		structErrors(&form, "address", errs)
		upd.Address = &domain.AddressInput{
			Street: form.Street, City: form.City, Post: form.Post, District: form.District,
			State: form.State, Pincode: form.Pincode, StCode: form.StCode,
		}
	}
	if ph := r.obj(m, "phone", ""); ph != nil {
		form := readPhone(r, ph, "phone")
		structErrors(&form, "phone", errs)
		office := form.Office
		if office == nil {
			office = []string{}
		}
		upd.Phone = &domain.PhoneInput{Office: office, Mobile: form.Mobile}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return upd, nil
}
