package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDs default to gen_random_uuid() in postgres; the hooks cover drivers
// without that function (the sqlite test driver).

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (s *Store) BeforeCreate(*gorm.DB) error          { ensureID(&s.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error        { ensureID(&p.ID); return nil }
func (c *Customer) BeforeCreate(*gorm.DB) error       { ensureID(&c.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error          { ensureID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(*gorm.DB) error      { ensureID(&i.ID); return nil }
func (p *Profile) BeforeCreate(*gorm.DB) error        { ensureID(&p.ID); return nil }
func (s *Shipment) BeforeCreate(*gorm.DB) error       { ensureID(&s.ID); return nil }
func (m *ShippingMethod) BeforeCreate(*gorm.DB) error { ensureID(&m.ID); return nil }
func (c *Coupon) BeforeCreate(*gorm.DB) error         { ensureID(&c.ID); return nil }
func (p *Promotion) BeforeCreate(*gorm.DB) error      { ensureID(&p.ID); return nil }
func (m *PaymentMethod) BeforeCreate(*gorm.DB) error  { ensureID(&m.ID); return nil }
