package models

import "time"

// Service represents a bookable service offered by a tenant.
type Service struct {
	ID           string  `bson:"id" json:"id"`
	TenantID     string  `bson:"tenantId" json:"tenantId"`
	Name         string  `bson:"name" json:"name"`
	DurationMin  int     `bson:"durationMin" json:"durationMin"`
	Price        float64 `bson:"price" json:"price"`
	BufferBefore int     `bson:"bufferBefore,omitempty" json:"bufferBefore,omitempty"` // required gap before the appointment, minutes
	BufferAfter  int     `bson:"bufferAfter,omitempty" json:"bufferAfter,omitempty"`   // required gap after the appointment, minutes
}

// Duration returns the service duration.
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMin) * time.Minute
}

// EndsAt computes the appointment end for a given start.
func (s *Service) EndsAt(startsAt time.Time) time.Time {
	return startsAt.Add(s.Duration())
}

// OccupiedInterval computes the span the appointment blocks on a staff
// calendar, buffers included: [startsAt - bufferBefore, endsAt + bufferAfter).
func (s *Service) OccupiedInterval(startsAt time.Time) Interval {
	return Interval{
		Start: startsAt.Add(-time.Duration(s.BufferBefore) * time.Minute),
		End:   s.EndsAt(startsAt).Add(time.Duration(s.BufferAfter) * time.Minute),
	}
}
