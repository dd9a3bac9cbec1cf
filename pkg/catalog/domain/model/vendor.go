package model

import "github.com/google/uuid"

type Vendor struct {
	ID   uuid.UUID
	Name string
	City string
}

type VendorRepository interface {
	NextID() (uuid.UUID, error)
	Store(vendor *Vendor) error
	Find(id uuid.UUID) (*Vendor, error)
	ListAll() ([]Vendor, error)
	FindByCity(city string) ([]Vendor, error)
}
