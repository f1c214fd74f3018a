package kakeibo

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-process Repository backed by a Ledger. It serializes
// all access with a single mutex, which is plenty for a CLI session and for
// tests; the sqlite adapter is the durable alternative.
type MemoryStore struct {
	mu     sync.Mutex
	ledger *Ledger
}

// NewMemoryStore wraps a ledger in the repository ports. A nil ledger
// starts empty.
func NewMemoryStore(ledger *Ledger) *MemoryStore {
	if ledger == nil {
		ledger = NewLedger()
	}
	return &MemoryStore{ledger: ledger}
}

// Ledger exposes the backing ledger, for encoding and reports.
func (s *MemoryStore) Ledger() *Ledger { return s.ledger }

func (s *MemoryStore) Methods() MethodRepository     { return (*memoryMethods)(s) }
func (s *MemoryStore) Entries() EntryRepository      { return (*memoryEntries)(s) }
func (s *MemoryStore) Debts() DebtRepository         { return (*memoryDebts)(s) }
func (s *MemoryStore) Transfers() TransferRepository { return (*memoryTransfers)(s) }

// paginate applies offset/limit to an already sorted slice.
func paginate[T any](items []T, p Page) []T {
	if p.Offset > 0 {
		if p.Offset >= len(items) {
			return nil
		}
		items = items[p.Offset:]
	}
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}

// reverseIf flips the slice for descending listings.
func reverseIf[T any](items []T, p Page) {
	if p.Direction != SortDesc {
		return
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

// --- methods ---

type memoryMethods MemoryStore

func (s *memoryMethods) FindByID(_ context.Context, id ID) (Method, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Method(id)
}

func (s *memoryMethods) FindAll(_ context.Context, includeArchived bool) ([]Method, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ms []Method
	for m := range s.ledger.Methods(includeArchived) {
		ms = append(ms, m)
	}
	return ms, nil
}

func (s *memoryMethods) FindByOptions(_ context.Context, filter MethodFilter) ([]Method, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ms []Method
	for m := range s.ledger.Methods(filter.IncludeArchived) {
		if filter.Name != "" && !strings.Contains(m.Name, filter.Name) {
			continue
		}
		ms = append(ms, m)
	}
	reverseIf(ms, filter.Page)
	return paginate(ms, filter.Page), nil
}

func (s *memoryMethods) Create(_ context.Context, m Method) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.AddMethod(m)
}

func (s *memoryMethods) Update(_ context.Context, m Method) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.UpdateMethod(m)
}

func (s *memoryMethods) SetArchiveStatus(_ context.Context, id ID, archived bool) (Method, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.ledger.Method(id)
	if err != nil {
		return Method{}, err
	}
	m = m.SetArchived(archived)
	if err := s.ledger.UpdateMethod(m); err != nil {
		return Method{}, err
	}
	return m, nil
}

func (s *memoryMethods) Delete(_ context.Context, id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.DeleteMethod(id)
}

// --- entries ---

type memoryEntries MemoryStore

func (s *memoryEntries) FindByID(_ context.Context, id ID) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Entry(id)
}

func (s *memoryEntries) FindByOptions(_ context.Context, filter EntryFilter) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	filters := []func(Entry) bool{InRange(Range{From: filter.From, To: filter.To})}
	if len(filter.Types) > 0 {
		filters = append(filters, ByType(filter.Types...))
	}
	if len(filter.MethodIDs) > 0 {
		methods := filter.MethodIDs
		filters = append(filters, func(e Entry) bool {
			for _, id := range methods {
				if e.MethodID == id {
					return true
				}
			}
			return false
		})
	}
	if len(filter.CategoryIDs) > 0 {
		categories := filter.CategoryIDs
		filters = append(filters, func(e Entry) bool {
			for _, id := range categories {
				if e.CategoryID == id {
					return true
				}
			}
			return false
		})
	}
	if !filter.DebtID.IsZero() {
		debt := filter.DebtID
		filters = append(filters, func(e Entry) bool { return e.DebtID == debt })
	}
	if !filter.IncludePrivate {
		filters = append(filters, Public)
	}
	var es []Entry
	for _, e := range s.ledger.Entries(filters...) {
		es = append(es, e)
	}
	sortEntries(es, filter.Page)
	reverseIf(es, filter.Page)
	return paginate(es, filter.Page), nil
}

// sortEntries re-orders a chronological listing by the requested field.
func sortEntries(es []Entry, p Page) {
	switch p.SortBy {
	case "", "date":
		// already chronological
	case "amount":
		sort.SliceStable(es, func(i, j int) bool { return es[i].Amount.LessThan(es[j].Amount) })
	case "createdAt":
		sort.SliceStable(es, func(i, j int) bool { return es[i].CreatedAt.Before(es[j].CreatedAt) })
	}
}

func (s *memoryEntries) FindByMethodID(ctx context.Context, method ID) ([]Entry, error) {
	return s.FindByOptions(ctx, EntryFilter{MethodIDs: []ID{method}, IncludePrivate: true})
}

func (s *memoryEntries) FindByCategoryID(ctx context.Context, category ID) ([]Entry, error) {
	return s.FindByOptions(ctx, EntryFilter{CategoryIDs: []ID{category}, IncludePrivate: true})
}

func (s *memoryEntries) FindByDebtID(ctx context.Context, debt ID) ([]Entry, error) {
	return s.FindByOptions(ctx, EntryFilter{DebtID: debt, IncludePrivate: true})
}

func (s *memoryEntries) Create(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Append(e)
}

func (s *memoryEntries) CreateWithDebt(_ context.Context, e Entry, d Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.AddDebtEntry(e, d)
}

func (s *memoryEntries) CreateWithTransfer(_ context.Context, e Entry, t Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.AddTransferEntry(e, t)
}

func (s *memoryEntries) Update(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.ReplaceEntry(e)
}

func (s *memoryEntries) Delete(_ context.Context, id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.DeleteEntry(id)
}

func (s *memoryEntries) CalculateBalance(_ context.Context, method ID, start, end Date) (Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.CalculateBalance(method, start, end)
}

// --- debts ---

type memoryDebts MemoryStore

func (s *memoryDebts) FindByID(_ context.Context, id ID) (Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Debt(id)
}

func (s *memoryDebts) FindByRootEntryID(_ context.Context, rootEntry ID) (Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.DebtByRootEntry(rootEntry)
}

func (s *memoryDebts) FindByOptions(_ context.Context, filter DebtFilter) ([]Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := Range{From: filter.From, To: filter.To}
	var ds []Debt
	for d := range s.ledger.Debts(filter.OutstandingOnly) {
		if filter.Type != "" && d.Type != filter.Type {
			continue
		}
		if filter.Counterpart != "" && !strings.Contains(d.Counterpart, filter.Counterpart) {
			continue
		}
		if !r.Contains(d.Date) {
			continue
		}
		ds = append(ds, d)
	}
	reverseIf(ds, filter.Page)
	return paginate(ds, filter.Page), nil
}

func (s *memoryDebts) FindOutstandingDebts(ctx context.Context, debtType DebtType) ([]Debt, error) {
	return s.FindByOptions(ctx, DebtFilter{Type: debtType, OutstandingOnly: true})
}

func (s *memoryDebts) Create(_ context.Context, d Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := d.Check(); err != nil {
		return err
	}
	if _, ok := s.ledger.debts[d.ID]; ok {
		return Errv(CodeInvalidInput, "id", "debt %q already exists", d.ID)
	}
	s.ledger.debts[d.ID] = d
	return nil
}

func (s *memoryDebts) Update(_ context.Context, d Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.UpdateDebt(d)
}

func (s *memoryDebts) MarkAsRepaid(_ context.Context, id ID, on Date) (Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.MarkDebtRepaid(id, on)
}

func (s *memoryDebts) Delete(_ context.Context, id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.DeleteDebt(id)
}

// --- transfers ---

type memoryTransfers MemoryStore

func (s *memoryTransfers) FindByID(_ context.Context, id ID) (Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Transfer(id)
}

func (s *memoryTransfers) FindByRootEntryID(_ context.Context, rootEntry ID) (Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.TransferByRootEntry(rootEntry)
}

func (s *memoryTransfers) FindByOptions(_ context.Context, filter TransferFilter) ([]Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := Range{From: filter.From, To: filter.To}
	var ts []Transfer
	for t := range s.ledger.Transfers(filter.MethodID) {
		if !r.Contains(t.Date) {
			continue
		}
		ts = append(ts, t)
	}
	reverseIf(ts, filter.Page)
	return paginate(ts, filter.Page), nil
}

func (s *memoryTransfers) FindByMethodID(ctx context.Context, method ID) ([]Transfer, error) {
	return s.FindByOptions(ctx, TransferFilter{MethodID: method})
}

func (s *memoryTransfers) Create(_ context.Context, t Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := t.Check(); err != nil {
		return err
	}
	if _, ok := s.ledger.transfers[t.ID]; ok {
		return Errv(CodeInvalidInput, "id", "transfer %q already exists", t.ID)
	}
	s.ledger.transfers[t.ID] = t
	return nil
}

func (s *memoryTransfers) Update(_ context.Context, t Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.UpdateTransfer(t)
}

func (s *memoryTransfers) Delete(_ context.Context, id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.DeleteTransfer(id)
}
