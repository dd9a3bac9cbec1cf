package model

import "strings"

type Category string

const (
	Mobile  Category = "MOBILE"
	Laptop  Category = "LAPTOP"
	Desktop Category = "DESKTOP"
)

func Categories() []Category {
	return []Category{Mobile, Laptop, Desktop}
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}

func (c Category) Valid() bool {
	switch c {
	case Mobile, Laptop, Desktop:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }
