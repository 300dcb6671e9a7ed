package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"billdesk/internal/domain"
	"billdesk/internal/port"
)

// memStore is an in-memory store with all-or-nothing transactions. WithinTx
// works on a copy of the state and publishes it only when fn succeeds.
type memStore struct {
	mu    sync.Mutex
	state *memState
	fail  map[string]error
}

type memState struct {
	addresses map[uuid.UUID]domain.Address
	phones    map[uuid.UUID]domain.Phone
	contacts  map[domain.ContactKind]map[uuid.UUID]domain.Contact
	bills     map[uuid.UUID]domain.Bill
}

func newMemStore() *memStore {
	return &memStore{
		state: &memState{
			addresses: map[uuid.UUID]domain.Address{},
			phones:    map[uuid.UUID]domain.Phone{},
			contacts: map[domain.ContactKind]map[uuid.UUID]domain.Contact{
				domain.KindSupplier: {},
				domain.KindParty:    {},
			},
			bills: map[uuid.UUID]domain.Bill{},
		},
		fail: map[string]error{},
	}
}

func (st *memState) clone() *memState {
	out := &memState{
		addresses: make(map[uuid.UUID]domain.Address, len(st.addresses)),
		phones:    make(map[uuid.UUID]domain.Phone, len(st.phones)),
		contacts:  make(map[domain.ContactKind]map[uuid.UUID]domain.Contact, 2),
		bills:     make(map[uuid.UUID]domain.Bill, len(st.bills)),
	}
	for k, v := range st.addresses {
		out.addresses[k] = v
	}
	for k, v := range st.phones {
		out.phones[k] = v
	}
	for kind, m := range st.contacts {
		cm := make(map[uuid.UUID]domain.Contact, len(m))
		for k, v := range m {
			cm[k] = v
		}
		out.contacts[kind] = cm
	}
	for k, v := range st.bills {
		v.Items = append([]domain.BillItem(nil), v.Items...)
		out.bills[k] = v
	}
	return out
}

// counts returns the number of rows per table.
func (s *memStore) counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := 0
	for _, b := range s.state.bills {
		items += len(b.Items)
	}
	return map[string]int{
		"addresses": len(s.state.addresses),
		"phones":    len(s.state.phones),
		"suppliers": len(s.state.contacts[domain.KindSupplier]),
		"parties":   len(s.state.contacts[domain.KindParty]),
		"bills":     len(s.state.bills),
		"items":     items,
	}
}

func (s *memStore) WithinTx(_ context.Context, fn func(repos port.RepositoryFactory) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	working := s.state.clone()
	if err := fn(&memFactory{st: working, fail: s.fail}); err != nil {
		return err
	}
	*s.state = *working
	return nil
}

// Contacts and Bills return repositories over the committed state, for
// reads outside a transaction.
func (s *memStore) Contacts() port.ContactRepository {
	return &memContacts{st: s.state, fail: s.fail}
}

func (s *memStore) Bills() port.BillRepository {
	return &memBills{st: s.state, fail: s.fail}
}

type memFactory struct {
	st   *memState
	fail map[string]error
}

func (f *memFactory) Addresses() port.AddressRepository { return &memAddresses{st: f.st, fail: f.fail} }
func (f *memFactory) Phones() port.PhoneRepository { return &memPhones{st: f.st, fail: f.fail} }
func (f *memFactory) Contacts() port.ContactRepository { return &memContacts{st: f.st, fail: f.fail} }
func (f *memFactory) Bills() port.BillRepository { return &memBills{st: f.st, fail: f.fail} }

type memAddresses struct {
	st   *memState
	fail map[string]error
}

func (r *memAddresses) Create(_ context.Context, addr *domain.Address) error {
	if err := r.fail["Addresses.Create"]; err != nil {
		return err
	}
	addr.ID = uuid.New()
	r.st.addresses[addr.ID] = *addr
	return nil
}

func (r *memAddresses) GetByID(_ context.Context, id uuid.UUID) (*domain.Address, error) {
	a, ok := r.st.addresses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (r *memAddresses) Update(_ context.Context, addr *domain.Address) error {
	if _, ok := r.st.addresses[addr.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.addresses[addr.ID] = *addr
	return nil
}

func (r *memAddresses) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.st.addresses[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.addresses, id)
	return nil
}

type memPhones struct {
	st   *memState
	fail map[string]error
}

func (r *memPhones) Create(_ context.Context, phone *domain.Phone) error {
	if err := r.fail["Phones.Create"]; err != nil {
		return err
	}
	phone.ID = uuid.New()
	r.st.phones[phone.ID] = *phone
	return nil
}

func (r *memPhones) GetByID(_ context.Context, id uuid.UUID) (*domain.Phone, error) {
	p, ok := r.st.phones[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memPhones) Update(_ context.Context, phone *domain.Phone) error {
	if _, ok := r.st.phones[phone.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.phones[phone.ID] = *phone
	return nil
}

func (r *memPhones) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.st.phones[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.phones, id)
	return nil
}

type memContacts struct {
	st   *memState
	fail map[string]error
}

func (r *memContacts) hydrate(c domain.Contact) *domain.Contact {
	if a, ok := r.st.addresses[c.AddressID]; ok {
		c.Address = &a
	}
	if p, ok := r.st.phones[c.PhoneID]; ok {
		c.Phone = &p
	}
	return &c
}

func (r *memContacts) Create(_ context.Context, c *domain.Contact) error {
	if err := r.fail["Contacts.Create"]; err != nil {
		return err
	}
	for _, other := range r.st.contacts[c.Kind] {
		if other.GSTIN == c.GSTIN {
			return domain.ErrDuplicateGSTIN
		}
	}
	c.ID = uuid.New()
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	stored := *c
	stored.Address, stored.Phone, stored.BillCount = nil, nil, nil
	r.st.contacts[c.Kind][c.ID] = stored
	return nil
}

func (r *memContacts) GetByID(_ context.Context, kind domain.ContactKind, id uuid.UUID) (*domain.Contact, error) {
	c, ok := r.st.contacts[kind][id]
	if !ok {
		return nil, domain.ContactNotFound(kind)
	}
	return r.hydrate(c), nil
}

func (r *memContacts) GetByGSTIN(_ context.Context, kind domain.ContactKind, gstin string) (*domain.Contact, error) {
	for _, c := range r.st.contacts[kind] {
		if c.GSTIN == gstin {
			return r.hydrate(c), nil
		}
	}
	return nil, domain.ContactNotFound(kind)
}

func (r *memContacts) sorted(kind domain.ContactKind) []domain.Contact {
	out := make([]domain.Contact, 0, len(r.st.contacts[kind]))
	for _, c := range r.st.contacts[kind] {
		out = append(out, *r.hydrate(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *memContacts) List(ctx context.Context, kind domain.ContactKind, offset, limit int) ([]domain.Contact, int, error) {
	all := r.sorted(kind)
	for i := range all {
		n, _ := r.CountBills(ctx, kind, all[i].ID)
		all[i].BillCount = &n
	}
	return page(all, offset, limit), len(all), nil
}

func (r *memContacts) Search(_ context.Context, kind domain.ContactKind, name, gstin string, limit int) ([]domain.Contact, error) {
	out := []domain.Contact{}
	for _, c := range r.sorted(kind) {
		nameHit := name != "" && strings.Contains(strings.ToLower(c.Name), strings.ToLower(name))
		gstinHit := gstin != "" && c.GSTIN == gstin
		if nameHit || gstinHit {
			out = append(out, c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memContacts) Update(_ context.Context, c *domain.Contact) error {
	if _, ok := r.st.contacts[c.Kind][c.ID]; !ok {
		return domain.ContactNotFound(c.Kind)
	}
	stored := *c
	stored.Address, stored.Phone, stored.BillCount = nil, nil, nil
	r.st.contacts[c.Kind][c.ID] = stored
	return nil
}

func (r *memContacts) Delete(ctx context.Context, kind domain.ContactKind, id uuid.UUID) error {
	if _, ok := r.st.contacts[kind][id]; !ok {
		return domain.ContactNotFound(kind)
	}
	if n, _ := r.CountBills(ctx, kind, id); n > 0 {
		return domain.ErrContactInUse
	}
	delete(r.st.contacts[kind], id)
	return nil
}

func (r *memContacts) CountBills(_ context.Context, kind domain.ContactKind, id uuid.UUID) (int, error) {
	n := 0
	for _, b := range r.st.bills {
		if (kind == domain.KindSupplier && b.SupplierID == id) || (kind == domain.KindParty && b.PartyID == id) {
			n++
		}
	}
	return n, nil
}

type memBills struct {
	st   *memState
	fail map[string]error
}

func (r *memBills) hydrate(b domain.Bill) *domain.Bill {
	contacts := &memContacts{st: r.st}
	b.Items = append([]domain.BillItem{}, b.Items...)
	if s, ok := r.st.contacts[domain.KindSupplier][b.SupplierID]; ok {
		b.Supplier = contacts.hydrate(s)
	}
	if p, ok := r.st.contacts[domain.KindParty][b.PartyID]; ok {
		b.Party = contacts.hydrate(p)
	}
	return &b
}

func (r *memBills) Create(_ context.Context, bill *domain.Bill) error {
	if err := r.fail["Bills.Create"]; err != nil {
		return err
	}
	for _, other := range r.st.bills {
		if other.BillNumber == bill.BillNumber && other.BillDate.Equal(bill.BillDate) {
			return domain.ErrDuplicateBill
		}
	}
	if _, ok := r.st.contacts[domain.KindSupplier][bill.SupplierID]; !ok {
		return domain.ErrSupplierNotFound
	}
	if _, ok := r.st.contacts[domain.KindParty][bill.PartyID]; !ok {
		return domain.ErrPartyNotFound
	}
	bill.ID = uuid.New()
	now := time.Now().UTC()
	bill.CreatedAt, bill.UpdatedAt = now, now
	r.setItems(bill.ID, bill.Items)
	stored := *bill
	stored.Supplier, stored.Party = nil, nil
	stored.Items = append([]domain.BillItem(nil), bill.Items...)
	r.st.bills[bill.ID] = stored
	return nil
}

func (r *memBills) setItems(billID uuid.UUID, items []domain.BillItem) {
	for i := range items {
		items[i].ID = uuid.New()
		items[i].BillID = billID
		items[i].Position = i
	}
}

func (r *memBills) GetByID(_ context.Context, id uuid.UUID) (*domain.Bill, error) {
	b, ok := r.st.bills[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.hydrate(b), nil
}

func (r *memBills) FindByNumberAndDate(_ context.Context, number string, date time.Time) (*domain.Bill, error) {
	for _, b := range r.st.bills {
		if b.BillNumber == number && b.BillDate.Equal(date) {
			return r.hydrate(b), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memBills) List(_ context.Context, f domain.BillFilter) ([]domain.Bill, int, error) {
	if err := r.fail["Bills.List"]; err != nil {
		return nil, 0, err
	}
	var out []domain.Bill
	for _, b := range r.st.bills {
		if f.SupplierID != nil && b.SupplierID != *f.SupplierID {
			continue
		}
		if f.PartyID != nil && b.PartyID != *f.PartyID {
			continue
		}
		if f.PaymentStatus != "" && b.PaymentStatus != f.PaymentStatus {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(b.BillNumber), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, *r.hydrate(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BillDate.Equal(out[j].BillDate) {
			return out[i].BillDate.After(out[j].BillDate)
		}
		return out[i].BillNumber < out[j].BillNumber
	})
	if out == nil {
		out = []domain.Bill{}
	}
	return page(out, f.Offset, f.Limit), len(out), nil
}

func (r *memBills) Update(_ context.Context, bill *domain.Bill) error {
	old, ok := r.st.bills[bill.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.st.bills {
		if other.ID != bill.ID && other.BillNumber == bill.BillNumber && other.BillDate.Equal(bill.BillDate) {
			return domain.ErrDuplicateBill
		}
	}
	stored := *bill
	stored.Supplier, stored.Party = nil, nil
	stored.Items = old.Items
	stored.UpdatedAt = time.Now().UTC()
	r.st.bills[bill.ID] = stored
	return nil
}

func (r *memBills) ReplaceItems(_ context.Context, billID uuid.UUID, items []domain.BillItem) error {
	b, ok := r.st.bills[billID]
	if !ok {
		return domain.ErrNotFound
	}
	r.setItems(billID, items)
	b.Items = append([]domain.BillItem(nil), items...)
	r.st.bills[billID] = b
	return nil
}

func (r *memBills) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.st.bills[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.bills, id)
	return nil
}

func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
