package model

import "github.com/google/uuid"

type Customer struct {
	ID   uuid.UUID
	Name string
	City string
}

type CustomerRepository interface {
	NextID() (uuid.UUID, error)
	Store(customer *Customer) error
	Find(id uuid.UUID) (*Customer, error)
	FindByCity(city string) ([]Customer, error)
}
