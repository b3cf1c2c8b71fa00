package models

// Client represents a customer of a tenant. A client may optionally be linked
// to a platform user account.
type Client struct {
	ID       string `bson:"id" json:"id"`
	TenantID string `bson:"tenantId" json:"tenantId"`
	UserID   string `bson:"userId,omitempty" json:"userId,omitempty"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email,omitempty" json:"email,omitempty"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
	Notes    string `bson:"notes,omitempty" json:"notes,omitempty"`
}
