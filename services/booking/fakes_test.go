package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingRepo "appointo/database/repository/booking"
	serviceRepo "appointo/database/repository/service"
	staffRepo "appointo/database/repository/staff"
	tenantRepo "appointo/database/repository/tenant"
	"appointo/models"
)

// fakeBookingRepo is an in-memory BookingRepository. Its InsertIfNoOverlap is
// atomic under a mutex, mirroring the exclusion guarantee the Mongo adapter
// gets from its transaction.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []*models.Booking

	// listDelay simulates a slow store for timeout tests.
	listDelay time.Duration
}

func (f *fakeBookingRepo) seed(b models.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := b
	f.bookings = append(f.bookings, &cp)
}

func (f *fakeBookingRepo) ListOccupying(ctx context.Context, tenantID, staffID string, from, to time.Time) ([]models.Booking, error) {
	if f.listDelay > 0 {
		select {
		case <-time.After(f.listDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	window := models.Interval{Start: from, End: to}
	var out []models.Booking
	for _, b := range f.bookings {
		if b.TenantID == tenantID && b.ProviderID == staffID && b.Status.Occupying() && b.Occupied().Overlaps(window) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccupiedStart.Before(out[j].OccupiedStart) })
	return out, nil
}

func (f *fakeBookingRepo) FindByRequestID(ctx context.Context, tenantID, requestID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.TenantID == tenantID && b.RequestID == requestID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) InsertIfNoOverlap(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.TenantID == booking.TenantID && b.RequestID == booking.RequestID {
			return bookingRepo.ErrDuplicateRequest
		}
	}
	for _, b := range f.bookings {
		if b.TenantID == booking.TenantID && b.ProviderID == booking.ProviderID &&
			b.Status.Occupying() && b.Occupied().Overlaps(booking.Occupied()) {
			return bookingRepo.ErrOverlapDetected
		}
	}
	cp := *booking
	f.bookings = append(f.bookings, &cp)
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, tenantID, bookingID string, from, to models.BookingStatus) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.TenantID == tenantID && b.ID == bookingID {
			if b.Status != from {
				return nil, bookingRepo.ErrStatusChanged
			}
			b.Status = to
			b.UpdatedAt = time.Now()
			cp := *b
			return &cp, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (f *fakeBookingRepo) UpdateStatusIfNoOverlap(ctx context.Context, tenantID, bookingID string, from, to models.BookingStatus) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.TenantID == tenantID && b.ID == bookingID {
			if b.Status != from {
				return nil, bookingRepo.ErrStatusChanged
			}
			for _, other := range f.bookings {
				if other.ID != b.ID && other.TenantID == tenantID && other.ProviderID == b.ProviderID &&
					other.Status.Occupying() && other.Occupied().Overlaps(b.Occupied()) {
					return nil, bookingRepo.ErrOverlapDetected
				}
			}
			b.Status = to
			b.UpdatedAt = time.Now()
			cp := *b
			return &cp, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, tenantID, bookingID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.TenantID == tenantID && b.ID == bookingID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (f *fakeBookingRepo) occupyingCount(tenantID, staffID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.bookings {
		if b.TenantID == tenantID && b.ProviderID == staffID && b.Status.Occupying() {
			n++
		}
	}
	return n
}

type fakeTenantRepo struct {
	tenant models.Tenant
}

func (f *fakeTenantRepo) GetByID(ctx context.Context, tenantID string) (*models.Tenant, error) {
	if tenantID != f.tenant.ID {
		return nil, tenantRepo.ErrNotFound
	}
	cp := f.tenant
	return &cp, nil
}

func (f *fakeTenantRepo) GetPolicy(ctx context.Context, tenantID string) (*models.TenantPolicy, error) {
	t, err := f.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	p := t.Policy()
	return &p, nil
}

type fakeStaffRepo struct {
	staff []models.Staff
}

func (f *fakeStaffRepo) GetByID(ctx context.Context, tenantID, staffID string) (*models.Staff, error) {
	for i := range f.staff {
		if f.staff[i].TenantID == tenantID && f.staff[i].ID == staffID {
			cp := f.staff[i]
			return &cp, nil
		}
	}
	return nil, staffRepo.ErrNotFound
}

func (f *fakeStaffRepo) IsEligible(ctx context.Context, tenantID, staffID, serviceID string) (bool, error) {
	s, err := f.GetByID(ctx, tenantID, staffID)
	if err != nil {
		return false, nil
	}
	return s.OffersService(serviceID), nil
}

type fakeServiceRepo struct {
	services []models.Service
}

func (f *fakeServiceRepo) GetByID(ctx context.Context, tenantID, serviceID string) (*models.Service, error) {
	for i := range f.services {
		if f.services[i].TenantID == tenantID && f.services[i].ID == serviceID {
			cp := f.services[i]
			return &cp, nil
		}
	}
	return nil, serviceRepo.ErrNotFound
}

func (f *fakeServiceRepo) ListByTenant(ctx context.Context, tenantID string) ([]models.Service, error) {
	var out []models.Service
	for _, s := range f.services {
		if s.TenantID == tenantID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeConfirmScheduler struct {
	mu        sync.Mutex
	scheduled []string // booking ids
	delays    []time.Duration
}

func (f *fakeConfirmScheduler) ScheduleAutoConfirm(ctx context.Context, b *models.Booking, delay time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, b.ID)
	f.delays = append(f.delays, delay)
	return nil
}
