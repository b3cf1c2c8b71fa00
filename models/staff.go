package models

// Staff represents a bookable staff member (provider) within a tenant.
type Staff struct {
	ID       string `bson:"id" json:"id"`
	TenantID string `bson:"tenantId" json:"tenantId"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email,omitempty" json:"email,omitempty"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
	// ServiceIDs lists the services this staff member is qualified to deliver
	// (the staff-service eligibility link).
	ServiceIDs []string `bson:"serviceIds" json:"serviceIds"`
}

// OffersService reports whether the staff member is qualified for the service.
func (s *Staff) OffersService(serviceID string) bool {
	for _, id := range s.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}
