// Package testutil provee dobles en memoria de los puertos de persistencia
// para los tests de casos de uso. Los fakes clonan al leer y al escribir, como
// haría un scan de base de datos, y el runner de transacciones restaura un
// snapshot cuando el callback falla para imitar el Rollback real.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/libreria-stock/internal/domain"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
	"github.com/tu-usuario/libreria-stock/internal/domain/repository"
)

var (
	_ repository.BookRepository            = (*FakeBookRepo)(nil)
	_ repository.StoreRepository           = (*FakeStoreRepo)(nil)
	_ repository.InventoryRecordRepository = (*FakeRecordRepo)(nil)
	_ repository.MovementRepository        = (*FakeMovementRepo)(nil)
	_ repository.StatusHistoryRepository   = (*FakeHistoryRepo)(nil)
	_ repository.UserRepository            = (*FakeUserRepo)(nil)
)

// Fixture agrupa todos los fakes sobre un estado compartido.
type Fixture struct {
	mu sync.Mutex

	books     []*entity.Book
	stores    []*entity.Store
	records   []*entity.InventoryRecord
	movements []*entity.Movement
	history   []*entity.StatusChange
	users     []*entity.User

	Books   *FakeBookRepo
	Stores  *FakeStoreRepo
	Records *FakeRecordRepo
	Moves   *FakeMovementRepo
	History *FakeHistoryRepo
	Users   *FakeUserRepo
	Tx      *FakeTxRunner
}

// NewFixture crea el estado compartido y todos los fakes atados a él.
func NewFixture() *Fixture {
	f := &Fixture{}
	f.Books = &FakeBookRepo{f: f}
	f.Stores = &FakeStoreRepo{f: f}
	f.Records = &FakeRecordRepo{f: f}
	f.Moves = &FakeMovementRepo{f: f}
	f.History = &FakeHistoryRepo{f: f}
	f.Users = &FakeUserRepo{f: f}
	f.Tx = &FakeTxRunner{f: f}
	return f
}

// SeedStore agrega una tienda activa y la devuelve.
func (f *Fixture) SeedStore(name string) *entity.Store {
	store := &entity.Store{
		ID:        uuid.New().String(),
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	// Separar los created_at para que el orden de distribución sea estable.
	store.CreatedAt = store.CreatedAt.Add(time.Duration(len(f.stores)) * time.Millisecond)
	f.stores = append(f.stores, store)
	return store
}

// SeedBook agrega un libro activo con caché de stock dada.
func (f *Fixture) SeedBook(title string, cachedStock int) *entity.Book {
	book := &entity.Book{
		ID:          uuid.New().String(),
		Title:       title,
		CachedStock: cachedStock,
		Active:      true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.books = append(f.books, book)
	return book
}

// SeedRecord agrega un registro ya consistente para un par libro+tienda.
func (f *Fixture) SeedRecord(bookID, storeID string, available, reserved, threshold int) *entity.InventoryRecord {
	now := time.Now().Add(time.Duration(len(f.records)) * time.Millisecond)
	rec := &entity.InventoryRecord{
		ID:             uuid.New().String(),
		BookID:         bookID,
		StoreID:        storeID,
		StockTotal:     available + reserved,
		StockAvailable: available,
		StockReserved:  reserved,
		ThresholdAlert: threshold,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	rec.Status = entity.StatusFor(rec.StockTotal, rec.StockAvailable, rec.ThresholdAlert)
	f.records = append(f.records, rec)
	return rec
}

// Movements devuelve una copia del libro mayor completo (inspección en tests).
func (f *Fixture) Movements() []*entity.Movement {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Movement, len(f.movements))
	copy(out, f.movements)
	return out
}

// StatusChanges devuelve una copia del historial de transiciones.
func (f *Fixture) StatusChanges() []*entity.StatusChange {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.StatusChange, len(f.history))
	copy(out, f.history)
	return out
}

// ── FakeTxRunner ──────────────────────────────────────────────────────────────

// FakeTxRunner serializa las "transacciones" con un mutex y restaura un
// snapshot del estado cuando el callback devuelve error.
type FakeTxRunner struct {
	f *Fixture
}

func (r *FakeTxRunner) Run(_ context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	movementRepo repository.MovementRepository,
	historyRepo repository.StatusHistoryRepository,
	bookRepo repository.BookRepository,
) error) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	snapBooks := cloneBooks(r.f.books)
	snapRecords := cloneRecords(r.f.records)
	snapMoves := len(r.f.movements)
	snapHistory := len(r.f.history)

	// Los repos del callback operan sin tomar el mutex (ya lo tiene la tx).
	err := fn(
		&FakeRecordRepo{f: r.f, inTx: true},
		&FakeMovementRepo{f: r.f, inTx: true},
		&FakeHistoryRepo{f: r.f, inTx: true},
		&FakeBookRepo{f: r.f, inTx: true},
	)
	if err != nil {
		r.f.books = snapBooks
		r.f.records = snapRecords
		r.f.movements = r.f.movements[:snapMoves]
		r.f.history = r.f.history[:snapHistory]
		return err
	}
	return nil
}

// ── FakeBookRepo ──────────────────────────────────────────────────────────────

type FakeBookRepo struct {
	f    *Fixture
	inTx bool
}

func (r *FakeBookRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.f.mu.Lock()
	return r.f.mu.Unlock
}

func (r *FakeBookRepo) Create(book *entity.Book) error {
	defer r.lock()()
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	for _, b := range r.f.books {
		if b.ID == book.ID || (book.ISBN != "" && b.ISBN == book.ISBN) {
			return domain.ErrDuplicate
		}
	}
	r.f.books = append(r.f.books, cloneBook(book))
	return nil
}

func (r *FakeBookRepo) GetByID(id string) (*entity.Book, error) {
	defer r.lock()()
	for _, b := range r.f.books {
		if b.ID == id {
			return cloneBook(b), nil
		}
	}
	return nil, nil
}

func (r *FakeBookRepo) Update(book *entity.Book) error {
	defer r.lock()()
	for i, b := range r.f.books {
		if b.ID == book.ID {
			r.f.books[i] = cloneBook(book)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *FakeBookRepo) UpdateCachedStock(id string, stock int) error {
	defer r.lock()()
	for _, b := range r.f.books {
		if b.ID == id {
			b.CachedStock = stock
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *FakeBookRepo) ListActive(limit, offset int) ([]*entity.Book, error) {
	defer r.lock()()
	var out []*entity.Book
	for _, b := range r.f.books {
		if b.Active {
			out = append(out, cloneBook(b))
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *FakeBookRepo) List(limit, offset int) ([]*entity.Book, error) {
	defer r.lock()()
	return paginate(cloneBooks(r.f.books), limit, offset), nil
}

func (r *FakeBookRepo) Delete(id string) error {
	defer r.lock()()
	for i, b := range r.f.books {
		if b.ID == id {
			r.f.books = append(r.f.books[:i], r.f.books[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── FakeStoreRepo ─────────────────────────────────────────────────────────────

type FakeStoreRepo struct {
	f    *Fixture
	inTx bool
}

func (r *FakeStoreRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.f.mu.Lock()
	return r.f.mu.Unlock
}

func (r *FakeStoreRepo) Create(store *entity.Store) error {
	defer r.lock()()
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	s := *store
	r.f.stores = append(r.f.stores, &s)
	return nil
}

func (r *FakeStoreRepo) GetByID(id string) (*entity.Store, error) {
	defer r.lock()()
	for _, s := range r.f.stores {
		if s.ID == id {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *FakeStoreRepo) Update(store *entity.Store) error {
	defer r.lock()()
	for i, s := range r.f.stores {
		if s.ID == store.ID {
			c := *store
			r.f.stores[i] = &c
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *FakeStoreRepo) ListActive() ([]*entity.Store, error) {
	defer r.lock()()
	var out []*entity.Store
	for _, s := range r.f.stores {
		if s.Active {
			c := *s
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *FakeStoreRepo) List(limit, offset int) ([]*entity.Store, error) {
	defer r.lock()()
	out := make([]*entity.Store, 0, len(r.f.stores))
	for _, s := range r.f.stores {
		c := *s
		out = append(out, &c)
	}
	return paginate(out, limit, offset), nil
}

func (r *FakeStoreRepo) Delete(id string) error {
	defer r.lock()()
	for i, s := range r.f.stores {
		if s.ID == id {
			r.f.stores = append(r.f.stores[:i], r.f.stores[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── FakeRecordRepo ────────────────────────────────────────────────────────────

type FakeRecordRepo struct {
	f    *Fixture
	inTx bool

	// FailListByBookActiveStores fuerza error en la lectura de consolidación.
	FailListByBookActiveStores bool
}

func (r *FakeRecordRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.f.mu.Lock()
	return r.f.mu.Unlock
}

func (r *FakeRecordRepo) Create(record *entity.InventoryRecord) error {
	defer r.lock()()
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	for _, rec := range r.f.records {
		if rec.BookID == record.BookID && rec.StoreID == record.StoreID {
			return domain.ErrDuplicate
		}
	}
	r.f.records = append(r.f.records, cloneRecord(record))
	return nil
}

func (r *FakeRecordRepo) Update(record *entity.InventoryRecord) error {
	defer r.lock()()
	for i, rec := range r.f.records {
		if rec.ID == record.ID {
			r.f.records[i] = cloneRecord(record)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *FakeRecordRepo) Get(bookID, storeID string) (*entity.InventoryRecord, error) {
	defer r.lock()()
	for _, rec := range r.f.records {
		if rec.BookID == bookID && rec.StoreID == storeID {
			return cloneRecord(rec), nil
		}
	}
	return nil, nil
}

func (r *FakeRecordRepo) GetForUpdate(bookID, storeID string) (*entity.InventoryRecord, error) {
	return r.Get(bookID, storeID)
}

func (r *FakeRecordRepo) ListByBook(bookID string) ([]*entity.InventoryRecord, error) {
	defer r.lock()()
	return r.listByBookLocked(bookID), nil
}

func (r *FakeRecordRepo) ListByBookForUpdate(bookID string) ([]*entity.InventoryRecord, error) {
	return r.ListByBook(bookID)
}

func (r *FakeRecordRepo) ListByBookActiveStores(bookID string) ([]*entity.InventoryRecord, error) {
	if r.FailListByBookActiveStores {
		return nil, domain.ErrNotFound
	}
	defer r.lock()()
	active := make(map[string]bool)
	for _, s := range r.f.stores {
		if s.Active {
			active[s.ID] = true
		}
	}
	var out []*entity.InventoryRecord
	for _, rec := range r.listByBookLocked(bookID) {
		if active[rec.StoreID] {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *FakeRecordRepo) ListByStore(storeID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	defer r.lock()()
	var out []*entity.InventoryRecord
	for _, rec := range r.f.records {
		if rec.StoreID == storeID {
			out = append(out, cloneRecord(rec))
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *FakeRecordRepo) ListLowStock(storeID string) ([]*entity.InventoryRecord, error) {
	defer r.lock()()
	active := make(map[string]bool)
	for _, s := range r.f.stores {
		if s.Active {
			active[s.ID] = true
		}
	}
	var out []*entity.InventoryRecord
	for _, rec := range r.f.records {
		if rec.Status != entity.StatusLowStock && rec.Status != entity.StatusDepleted {
			continue
		}
		if storeID != "" {
			if rec.StoreID == storeID {
				out = append(out, cloneRecord(rec))
			}
			continue
		}
		if active[rec.StoreID] {
			out = append(out, cloneRecord(rec))
		}
	}
	return out, nil
}

func (r *FakeRecordRepo) CountByStore(storeID string) (int, error) {
	defer r.lock()()
	count := 0
	for _, rec := range r.f.records {
		if rec.StoreID == storeID {
			count++
		}
	}
	return count, nil
}

func (r *FakeRecordRepo) MaxReservedByStore(storeID string) (int, error) {
	defer r.lock()()
	max := 0
	for _, rec := range r.f.records {
		if rec.StoreID == storeID && rec.StockReserved > max {
			max = rec.StockReserved
		}
	}
	return max, nil
}

func (r *FakeRecordRepo) DeleteByBook(bookID string) error {
	defer r.lock()()
	var keep []*entity.InventoryRecord
	for _, rec := range r.f.records {
		if rec.BookID != bookID {
			keep = append(keep, rec)
		}
	}
	r.f.records = keep
	return nil
}

func (r *FakeRecordRepo) DeleteByStore(storeID string) error {
	defer r.lock()()
	var keep []*entity.InventoryRecord
	for _, rec := range r.f.records {
		if rec.StoreID != storeID {
			keep = append(keep, rec)
		}
	}
	r.f.records = keep
	return nil
}

func (r *FakeRecordRepo) listByBookLocked(bookID string) []*entity.InventoryRecord {
	var out []*entity.InventoryRecord
	for _, rec := range r.f.records {
		if rec.BookID == bookID {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// ── FakeMovementRepo ──────────────────────────────────────────────────────────

type FakeMovementRepo struct {
	f    *Fixture
	inTx bool
}

func (r *FakeMovementRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.f.mu.Lock()
	return r.f.mu.Unlock
}

func (r *FakeMovementRepo) Create(movement *entity.Movement) error {
	defer r.lock()()
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	m := *movement
	r.f.movements = append(r.f.movements, &m)
	return nil
}

func (r *FakeMovementRepo) ListByRecord(recordID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.listBy(func(m *entity.Movement) bool { return m.RecordID == recordID }, from, to, limit, offset)
}

func (r *FakeMovementRepo) ListByBook(bookID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.listBy(func(m *entity.Movement) bool { return m.BookID == bookID }, from, to, limit, offset)
}

func (r *FakeMovementRepo) listBy(match func(*entity.Movement) bool, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	defer r.lock()()
	var out []*entity.Movement
	for i := len(r.f.movements) - 1; i >= 0; i-- {
		m := r.f.movements[i]
		if !match(m) {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	return paginate(out, limit, offset), nil
}

// ── FakeHistoryRepo ───────────────────────────────────────────────────────────

type FakeHistoryRepo struct {
	f    *Fixture
	inTx bool
}

func (r *FakeHistoryRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.f.mu.Lock()
	return r.f.mu.Unlock
}

func (r *FakeHistoryRepo) Create(change *entity.StatusChange) error {
	defer r.lock()()
	if change.ID == "" {
		change.ID = uuid.New().String()
	}
	c := *change
	r.f.history = append(r.f.history, &c)
	return nil
}

func (r *FakeHistoryRepo) ListByRecord(recordID string, limit, offset int) ([]*entity.StatusChange, error) {
	defer r.lock()()
	var out []*entity.StatusChange
	for i := len(r.f.history) - 1; i >= 0; i-- {
		if r.f.history[i].RecordID == recordID {
			c := *r.f.history[i]
			out = append(out, &c)
		}
	}
	return paginate(out, limit, offset), nil
}

// ── FakeUserRepo ──────────────────────────────────────────────────────────────

type FakeUserRepo struct {
	f *Fixture
}

func (r *FakeUserRepo) Create(user *entity.User) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	for _, u := range r.f.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *user
	r.f.users = append(r.f.users, &c)
	return nil
}

func (r *FakeUserRepo) GetByID(id string) (*entity.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, u := range r.f.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *FakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, u := range r.f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

// ── clones y helpers ──────────────────────────────────────────────────────────

func cloneBook(b *entity.Book) *entity.Book {
	c := *b
	return &c
}

func cloneBooks(books []*entity.Book) []*entity.Book {
	out := make([]*entity.Book, len(books))
	for i, b := range books {
		out[i] = cloneBook(b)
	}
	return out
}

func cloneRecord(rec *entity.InventoryRecord) *entity.InventoryRecord {
	c := *rec
	if rec.LastAudit != nil {
		a := *rec.LastAudit
		c.LastAudit = &a
	}
	return &c
}

func cloneRecords(records []*entity.InventoryRecord) []*entity.InventoryRecord {
	out := make([]*entity.InventoryRecord, len(records))
	for i, rec := range records {
		out[i] = cloneRecord(rec)
	}
	return out
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
