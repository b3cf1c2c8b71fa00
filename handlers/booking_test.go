package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"appointo/models"
	"appointo/services/booking"
)

type fakeEngine struct {
	decision *models.BookingDecision
	calls    int
}

func (f *fakeEngine) RequestBooking(ctx context.Context, input models.BookingRequestInput) (*models.BookingDecision, error) {
	f.calls++
	return f.decision, nil
}

func (f *fakeEngine) Transition(ctx context.Context, tenantID, bookingID string, to models.BookingStatus, actor booking.Actor) (*models.Booking, error) {
	return nil, nil
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

type fakeDecisionCache struct {
	store map[string][]byte
}

func newFakeDecisionCache() *fakeDecisionCache {
	return &fakeDecisionCache{store: make(map[string][]byte)}
}

func (f *fakeDecisionCache) GetDecision(ctx context.Context, key string) ([]byte, error) {
	if data, ok := f.store[key]; ok {
		return data, nil
	}
	return nil, errors.New("cache miss")
}

func (f *fakeDecisionCache) SetDecision(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.store[key] = value
	return nil
}

func newBookingRouter(engine booking.Engine, cache DecisionCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandler(engine, cache, zap.NewNop())
	r := gin.New()
	r.POST("/api/tenants/:tenantID/bookings", h.RequestBooking)
	return r
}

func postBooking(t *testing.T, r *gin.Engine, requestID string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{
		"clientId": "cli-ben",
		"providerId": "stf-sara",
		"serviceId": "svc-haircut",
		"startsAt": "2026-03-02T11:00:00Z",
		"requestId": "` + requestID + `"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/tenants/tnt-salon/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Only accepted decisions may be cached: a cached timeout or conflict would
// keep replaying a stale answer after the store recovers or the slot frees up.
func TestRequestBookingCachesOnlyAcceptedDecisions(t *testing.T) {
	tests := []struct {
		name     string
		decision models.BookingDecision
		cached   bool
	}{
		{"accepted", models.BookingDecision{Kind: models.DecisionAccepted, Booking: &models.Booking{ID: "b-1"}}, true},
		{"rejected", models.BookingDecision{Kind: models.DecisionRejected, Reason: "outsideWindowTooSoon"}, false},
		{"suggested", models.BookingDecision{Kind: models.DecisionSuggested, Reason: "slotConflict"}, false},
		{"timeout", models.BookingDecision{Kind: models.DecisionTimeout}, false},
		{"replayed accept", models.BookingDecision{Kind: models.DecisionAccepted, Booking: &models.Booking{ID: "b-1"}, Replayed: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newFakeDecisionCache()
			r := newBookingRouter(&fakeEngine{decision: &tt.decision}, cache)

			postBooking(t, r, "r-1")

			_, ok := cache.store[decisionCacheKey("tnt-salon", "r-1")]
			if ok != tt.cached {
				t.Fatalf("decision %s cached = %v, want %v", tt.decision.Kind, ok, tt.cached)
			}
		})
	}
}

func TestRequestBookingReplaysCachedDecision(t *testing.T) {
	engine := &fakeEngine{decision: &models.BookingDecision{
		Kind:    models.DecisionAccepted,
		Booking: &models.Booking{ID: "b-1", TenantID: "tnt-salon"},
	}}
	cache := newFakeDecisionCache()
	r := newBookingRouter(engine, cache)

	first := postBooking(t, r, "r-1")
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 for the fresh accept, got %d", first.Code)
	}
	if engine.calls != 1 {
		t.Fatalf("expected one engine call, got %d", engine.calls)
	}

	second := postBooking(t, r, "r-1")
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 for the replayed accept, got %d", second.Code)
	}
	if engine.calls != 1 {
		t.Fatalf("cached replay must not call the engine again, got %d calls", engine.calls)
	}
	var replayed models.BookingDecision
	if err := json.Unmarshal(second.Body.Bytes(), &replayed); err != nil {
		t.Fatalf("failed to decode replay response: %v", err)
	}
	if !replayed.Replayed || replayed.Booking == nil || replayed.Booking.ID != "b-1" {
		t.Fatalf("expected replayed decision carrying booking b-1, got %+v", replayed)
	}
}

// A timed-out request must consult the engine again on retry.
func TestRequestBookingRetriesAfterTimeout(t *testing.T) {
	engine := &fakeEngine{decision: &models.BookingDecision{Kind: models.DecisionTimeout}}
	cache := newFakeDecisionCache()
	r := newBookingRouter(engine, cache)

	if w := postBooking(t, r, "r-1"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for timeout, got %d", w.Code)
	}

	// The store recovered in the meantime.
	engine.decision = &models.BookingDecision{Kind: models.DecisionAccepted, Booking: &models.Booking{ID: "b-1"}}
	if w := postBooking(t, r, "r-1"); w.Code != http.StatusCreated {
		t.Fatalf("expected the retry to reach the engine and succeed, got %d", w.Code)
	}
	if engine.calls != 2 {
		t.Fatalf("expected both requests to reach the engine, got %d calls", engine.calls)
	}
}

func TestDecisionStatus(t *testing.T) {
	tests := []struct {
		name     string
		decision models.BookingDecision
		want     int
	}{
		{"fresh accept", models.BookingDecision{Kind: models.DecisionAccepted}, http.StatusCreated},
		{"replayed accept", models.BookingDecision{Kind: models.DecisionAccepted, Replayed: true}, http.StatusOK},
		{"suggested", models.BookingDecision{Kind: models.DecisionSuggested}, http.StatusOK},
		{"timeout", models.BookingDecision{Kind: models.DecisionTimeout}, http.StatusServiceUnavailable},
		{"rejected", models.BookingDecision{Kind: models.DecisionRejected}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decisionStatus(&tt.decision); got != tt.want {
				t.Fatalf("decisionStatus(%s) = %d, want %d", tt.decision.Kind, got, tt.want)
			}
		})
	}
}

func TestDecisionCacheKeyIsTenantScoped(t *testing.T) {
	a := decisionCacheKey("tnt-1", "r-1")
	b := decisionCacheKey("tnt-2", "r-1")
	if a == b {
		t.Fatal("the same requestId under different tenants must not share a cache key")
	}
}
