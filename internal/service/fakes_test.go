package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore реализует хранилища в памяти. WithinTx откатывает изменения при ошибке.
type memStore struct {
	txMu     sync.Mutex // транзакции выполняются последовательно
	mu       sync.Mutex
	slots    map[int64]*model.Slot
	order    []int64
	bookings map[int64]*model.Booking
	admins   map[string]*model.Admin
	nextID   int64

	failCreateBooking error
	failListSlots     error
}

func newMemStore() *memStore {
	return &memStore{
		slots:    make(map[int64]*model.Slot),
		bookings: make(map[int64]*model.Booking),
		admins:   make(map[string]*model.Admin),
	}
}

func (m *memStore) addSlot(day model.Weekday, start, end string, status model.SlotStatus) *model.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	slot := &model.Slot{ID: m.nextID, Weekday: day, StartTime: start, EndTime: end, Status: status}
	m.slots[slot.ID] = slot
	m.order = append(m.order, slot.ID)
	return copySlot(slot)
}

func (m *memStore) addBooking(slotID int64, name, program string) *model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b := &model.Booking{
		ID:             m.nextID,
		StudentName:    name,
		StudentProgram: program,
		SlotID:         slotID,
		Status:         model.BookingStatusPending,
		Date:           time.Now().Truncate(24 * time.Hour),
		CreatedAt:      time.Now(),
	}
	m.bookings[b.ID] = b
	return b
}

func (m *memStore) slot(id int64) *model.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copySlot(m.slots[id])
}

func (m *memStore) pendingFor(slotID int64) []*model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.SlotID == slotID && b.Status == model.BookingStatusPending {
			out = append(out, b)
		}
	}
	return out
}

func copySlot(s *model.Slot) *model.Slot {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Transactor

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	slots := make(map[int64]*model.Slot, len(m.slots))
	for id, s := range m.slots {
		slots[id] = copySlot(s)
	}
	bookings := make(map[int64]*model.Booking, len(m.bookings))
	for id, b := range m.bookings {
		c := *b
		bookings[id] = &c
	}
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.slots = slots
		m.bookings = bookings
		m.mu.Unlock()
		return err
	}
	return nil
}

// SlotStore

func (m *memStore) List(context.Context) ([]*model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failListSlots != nil {
		return nil, m.failListSlots
	}
	out := make([]*model.Slot, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, copySlot(m.slots[id]))
	}
	return out, nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*model.Slot, error) {
	return m.slot(id), nil
}

func (m *memStore) LockByID(ctx context.Context, id int64) (*model.Slot, error) {
	return m.GetByID(ctx, id)
}

func (m *memStore) ToggleAvailability(_ context.Context, id int64) (model.SlotStatus, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok || s.Status == model.SlotStatusReserved {
		return "", false, nil
	}
	if s.Status == model.SlotStatusUnavailable {
		for _, b := range m.bookings {
			if b.SlotID == id && b.Status == model.BookingStatusPending {
				return "", false, nil
			}
		}
	}
	if s.Status == model.SlotStatusAvailable {
		s.Status = model.SlotStatusUnavailable
	} else {
		s.Status = model.SlotStatusAvailable
	}
	return s.Status, true, nil
}

func (m *memStore) Reserve(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok || s.Status != model.SlotStatusAvailable {
		return false, nil
	}
	s.Status = model.SlotStatusReserved
	return true, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id int64, status model.SlotStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return errors.New("slot not found")
	}
	s.Status = status
	return nil
}

func (m *memStore) CloseAll(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var changed int64
	for _, s := range m.slots {
		if s.Status != model.SlotStatusUnavailable {
			s.Status = model.SlotStatusUnavailable
			changed++
		}
	}
	return changed, nil
}

func (m *memStore) CreateIfMissing(_ context.Context, slot *model.Slot) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.slots {
		if s.Weekday == slot.Weekday && s.StartTime == slot.StartTime {
			return false, nil
		}
	}
	m.nextID++
	slot.ID = m.nextID
	m.slots[slot.ID] = copySlot(slot)
	m.order = append(m.order, slot.ID)
	return true, nil
}

// BookingStore

func (m *memStore) Create(_ context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreateBooking != nil {
		return m.failCreateBooking
	}
	for _, b := range m.bookings {
		if b.SlotID == booking.SlotID && b.Status == model.BookingStatusPending {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	m.nextID++
	booking.ID = m.nextID
	booking.Date = time.Now().Truncate(24 * time.Hour)
	booking.CreatedAt = time.Now()
	c := *booking
	m.bookings[booking.ID] = &c
	return nil
}

func (m *memStore) ListPending(context.Context) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.Status == model.BookingStatusPending {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memStore) DeleteBySlotID(_ context.Context, slotID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for id, b := range m.bookings {
		if b.SlotID == slotID {
			delete(m.bookings, id)
			deleted++
		}
	}
	return deleted, nil
}

// AdminStore

func (m *memStore) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[username]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (m *memStore) Upsert(_ context.Context, admin *model.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.admins[admin.Username]; ok {
		existing.PasswordHash = admin.PasswordHash
		admin.ID = existing.ID
		return nil
	}
	m.nextID++
	admin.ID = m.nextID
	admin.CreatedAt = time.Now()
	c := *admin
	m.admins[admin.Username] = &c
	return nil
}

// recordingNotifier запоминает уведомления о новых заявках
type recordingNotifier struct {
	mu       sync.Mutex
	bookings []*model.Booking
}

func (n *recordingNotifier) BookingCreated(_ context.Context, _ *model.Slot, b *model.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bookings = append(n.bookings, b)
}

// memTokens простая реализация TokenStore
type memTokens struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemTokens() *memTokens {
	return &memTokens{revoked: make(map[string]time.Time)}
}

func (t *memTokens) Revoke(_ context.Context, id string, until time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.revoked[id] = until
	return nil
}

func (t *memTokens) IsRevoked(_ context.Context, id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.revoked[id]
	return ok, nil
}
