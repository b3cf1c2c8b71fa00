package cron

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"appointo/models"
	"appointo/services/booking"
)

type fakeEngine struct {
	transitions []string // "tenant/booking/status/actor"
	err         error
}

func (f *fakeEngine) RequestBooking(ctx context.Context, input models.BookingRequestInput) (*models.BookingDecision, error) {
	return nil, nil
}

func (f *fakeEngine) Transition(ctx context.Context, tenantID, bookingID string, to models.BookingStatus, actor booking.Actor) (*models.Booking, error) {
	f.transitions = append(f.transitions, tenantID+"/"+bookingID+"/"+string(to)+"/"+string(actor))
	if f.err != nil {
		return nil, f.err
	}
	return &models.Booking{ID: bookingID, TenantID: tenantID, Status: to}, nil
}

func (f *fakeEngine) Reschedule(ctx context.Context, tenantID, bookingID string, newStart time.Time, requestID string, actor booking.Actor) (*models.BookingDecision, error) {
	return nil, nil
}

func (f *fakeEngine) DayAvailability(ctx context.Context, tenantID, providerID, serviceID string, day time.Time) ([]models.Interval, error) {
	return nil, nil
}

func (f *fakeEngine) GetBooking(ctx context.Context, tenantID, bookingID string) (*models.Booking, error) {
	return nil, nil
}

func autoConfirmTask(t *testing.T, tenantID, bookingID string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(autoConfirmPayload{TenantID: tenantID, BookingID: bookingID})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return asynq.NewTask(TypeAutoConfirm, payload)
}

func TestAutoConfirmTaskConfirmsAsSystem(t *testing.T) {
	engine := &fakeEngine{}
	handler := handleAutoConfirmTask(engine)

	if err := handler(context.Background(), autoConfirmTask(t, "tnt-1", "b-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(engine.transitions) != 1 {
		t.Fatalf("expected one transition, got %d", len(engine.transitions))
	}
	want := "tnt-1/b-1/" + string(models.StatusConfirmed) + "/" + string(booking.ActorSystem)
	if engine.transitions[0] != want {
		t.Fatalf("expected %s, got %s", want, engine.transitions[0])
	}
}

func TestAutoConfirmTaskDropsNoLongerConfirmable(t *testing.T) {
	// Cancelled while the timer was pending: the task must be dropped, not
	// retried.
	engine := &fakeEngine{err: &booking.IllegalTransition{
		From: models.StatusCancelledByClient,
		To:   models.StatusConfirmed,
	}}
	handler := handleAutoConfirmTask(engine)

	if err := handler(context.Background(), autoConfirmTask(t, "tnt-1", "b-1")); err != nil {
		t.Fatalf("expected the task to be dropped without error, got %v", err)
	}
}

func TestAutoConfirmTaskRejectsBadPayload(t *testing.T) {
	engine := &fakeEngine{}
	handler := handleAutoConfirmTask(engine)

	err := handler(context.Background(), asynq.NewTask(TypeAutoConfirm, []byte("{not json")))
	if err == nil {
		t.Fatal("expected an error for a malformed payload")
	}
	if len(engine.transitions) != 0 {
		t.Fatal("no transition should run for a malformed payload")
	}
}
