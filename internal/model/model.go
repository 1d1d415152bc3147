// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount value kinds accepted for a pro's code.
const (
	ValueTypePercent = "%"
	ValueTypeAmount  = "€"
)

// Pro is one healthcare professional entry, stored remotely as a metaobject.
// Optional fields are pointers so a partially filled remote record stays distinguishable
// from an explicit zero.
type Pro struct {
	ID             string           `json:"id"`
	DisplayName    string           `json:"display_name,omitempty"`
	Identification string           `json:"identification"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Code           string           `json:"code"`
	Montant        *decimal.Decimal `json:"montant,omitempty"`
	Type           string           `json:"type"`
}

// ProInput carries the fields a client may send when creating a pro.
// Montant is checked by the service since validator cannot compare decimals.
type ProInput struct {
	Identification string          `json:"identification" validate:"required,max=255"`
	Name           string          `json:"name" validate:"required,max=255"`
	Email          string          `json:"email" validate:"required,email,max=255"`
	Code           string          `json:"code" validate:"required,max=255"`
	Montant        decimal.Decimal `json:"montant"`
	Type           string          `json:"type" validate:"required,oneof=% €"`
}

// ProPatch is a partial update; nil fields are left untouched.
type ProPatch struct {
	Identification *string          `json:"identification,omitempty"`
	Name           *string          `json:"name,omitempty"`
	Email          *string          `json:"email,omitempty"`
	Code           *string          `json:"code,omitempty"`
	Montant        *decimal.Decimal `json:"montant,omitempty"`
	Type           *string          `json:"type,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ProPatch) Empty() bool {
	return p.Identification == nil && p.Name == nil && p.Email == nil &&
		p.Code == nil && p.Montant == nil && p.Type == nil
}

// Customer is a shop customer as shown in the pro segment list.
type Customer struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name,omitempty"`
	FirstName   string   `json:"first_name,omitempty"`
	LastName    string   `json:"last_name,omitempty"`
	Email       string   `json:"email"`
	Tags        []string `json:"tags,omitempty"`
	AmountSpent string   `json:"amount_spent,omitempty"`
	OrdersCount string   `json:"orders_count,omitempty"`
}

// HasTag reports whether the customer already carries tag.
func (c Customer) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TagAction tells the caller what EnsurePro actually did.
type TagAction string

const (
	TagActionCreated       TagAction = "created"
	TagActionTagged        TagAction = "tagged"
	TagActionAlreadyTagged TagAction = "already_tagged"
)

// Discount is a code discount node.
type Discount struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Code   string `json:"code,omitempty"`
	Status string `json:"status"`
}

// CodeOverview is one row of the promo codes page.
type CodeOverview struct {
	ProID         string `json:"pro_id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	Value         string `json:"value"`
	TechnicalName string `json:"technical_name"`
	DiscountID    string `json:"discount_id,omitempty"`
	Linked        bool   `json:"linked"`
}

// DefinitionStatus reports whether the pro metaobject definition is present.
type DefinitionStatus struct {
	Exists bool   `json:"exists"`
	ID     string `json:"id,omitempty"`
	Type   string `json:"type"`
}

// Dashboard aggregates what the admin home page shows.
type Dashboard struct {
	DefinitionExists bool       `json:"definition_exists"`
	Pros             []Pro      `json:"pros"`
	Discounts        []Discount `json:"discounts"`
	Customers        []Customer `json:"customers"`
}

// Session is an offline Admin API session for one shop.
type Session struct {
	ID          string    `json:"id"`
	Shop        string    `json:"shop"`
	AccessToken string    `json:"-"`
	Scope       string    `json:"scope"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Install event kinds.
const (
	EventInstalled   = "installed"
	EventUninstalled = "uninstalled"
)

// InstallEvent is an audit row for app lifecycle changes on a shop.
type InstallEvent struct {
	ID        int64     `json:"id"`
	Shop      string    `json:"shop"`
	Kind      string    `json:"kind"`
	Scope     string    `json:"scope,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// APIToken is the short-lived credential handed to external pages.
type APIToken struct {
	Shop      string    `json:"shop"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
