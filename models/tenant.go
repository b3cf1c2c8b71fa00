package models

// Tenant represents an isolated customer organization. Every other entity is
// scoped to exactly one tenant by tenantId.
type Tenant struct {
	ID                  string `bson:"id" json:"id"`
	Name                string `bson:"name" json:"name"`
	Slug                string `bson:"slug" json:"slug"`
	Plan                string `bson:"plan" json:"plan"`     // e.g., "basic", "premium", "enterprise"
	Status              string `bson:"status" json:"status"` // e.g., "active", "suspended"
	TimeZone            string `bson:"timeZone" json:"timeZone"`
	LeadTimeMin         int    `bson:"leadTimeMin" json:"leadTimeMin"`       // minimum notice before a bookable start, minutes
	MaxAdvanceDays      int    `bson:"maxAdvanceDays" json:"maxAdvanceDays"` // furthest future date bookable
	AutoApprove         bool   `bson:"autoApprove" json:"autoApprove"`
	AutoConfirmDelayMin int    `bson:"autoConfirmDelayMin,omitempty" json:"autoConfirmDelayMin,omitempty"` // 0 disables the auto-confirm timer
}

// TenantPolicy is the scheduling-relevant slice of a tenant, consumed by the
// booking engine.
type TenantPolicy struct {
	LeadTimeMin         int    `json:"leadTimeMin"`
	MaxAdvanceDays      int    `json:"maxAdvanceDays"`
	AutoApprove         bool   `json:"autoApprove"`
	TimeZone            string `json:"timeZone"`
	AutoConfirmDelayMin int    `json:"autoConfirmDelayMin,omitempty"`
}

// Policy extracts the scheduling policy from a tenant record.
func (t Tenant) Policy() TenantPolicy {
	return TenantPolicy{
		LeadTimeMin:         t.LeadTimeMin,
		MaxAdvanceDays:      t.MaxAdvanceDays,
		AutoApprove:         t.AutoApprove,
		TimeZone:            t.TimeZone,
		AutoConfirmDelayMin: t.AutoConfirmDelayMin,
	}
}
