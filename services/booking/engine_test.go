package booking

import (
	"time"

	"github.com/google/uuid"

	"appointo/models"
)

// Shared fixture: a hair salon tenant with a 60 min lead time, a 60 day
// horizon and a 45 min haircut padded by 15 min buffers on each side. All
// tests run against a frozen clock at 09:00 on the fixture day.
const (
	testTenant  = "tnt-salon"
	testStaff   = "stf-sara"
	testService = "svc-haircut"
	testClient  = "cli-ben"
)

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return testDay.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func testServiceDef() models.Service {
	return models.Service{
		ID:           testService,
		TenantID:     testTenant,
		Name:         "Haircut",
		DurationMin:  45,
		Price:        30,
		BufferBefore: 15,
		BufferAfter:  15,
	}
}

func testTenantDef() models.Tenant {
	return models.Tenant{
		ID:             testTenant,
		Name:           "Shear Genius",
		Status:         "active",
		TimeZone:       "UTC",
		LeadTimeMin:    60,
		MaxAdvanceDays: 60,
		AutoApprove:    true,
	}
}

func newTestEngine() (*DefaultBookingEngine, *fakeBookingRepo, *fakeTenantRepo, *fakeConfirmScheduler) {
	bookings := &fakeBookingRepo{}
	tenants := &fakeTenantRepo{tenant: testTenantDef()}
	confirm := &fakeConfirmScheduler{}
	engine := &DefaultBookingEngine{
		BookingRepo: bookings,
		TenantRepo:  tenants,
		StaffRepo: &fakeStaffRepo{staff: []models.Staff{
			{ID: testStaff, TenantID: testTenant, Name: "Sara", ServiceIDs: []string{testService}},
			{ID: "stf-tom", TenantID: testTenant, Name: "Tom", ServiceIDs: []string{"svc-shave"}},
		}},
		ServiceRepo:       &fakeServiceRepo{services: []models.Service{testServiceDef()}},
		Confirm:           confirm,
		ValidationTimeout: time.Second,
		SuggestionLimit:   3,
		SuggestionStep:    15 * time.Minute,
		Now:               func() time.Time { return at(9, 0) },
	}
	return engine, bookings, tenants, confirm
}

// seedBooking stores a haircut booking whose appointment starts at
// serviceStart, occupied span per the service buffers.
func seedBooking(f *fakeBookingRepo, id string, status models.BookingStatus, serviceStart time.Time) models.Booking {
	svc := testServiceDef()
	occupied := svc.OccupiedInterval(serviceStart)
	b := models.Booking{
		ID:            id,
		TenantID:      testTenant,
		ClientID:      testClient,
		ProviderID:    testStaff,
		ServiceID:     testService,
		StartsAt:      serviceStart,
		EndsAt:        svc.EndsAt(serviceStart),
		Status:        status,
		Price:         svc.Price,
		RequestID:     uuid.New().String(),
		OccupiedStart: occupied.Start,
		OccupiedEnd:   occupied.End,
	}
	f.seed(b)
	return b
}

func requestAt(requestID string, start time.Time) models.BookingRequestInput {
	return models.BookingRequestInput{
		TenantID:   testTenant,
		ClientID:   testClient,
		ProviderID: testStaff,
		ServiceID:  testService,
		StartsAt:   start,
		RequestID:  requestID,
	}
}
