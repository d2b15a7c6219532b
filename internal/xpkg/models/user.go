package models

import (
	"errors"
	"time"
)

var ErrAddressNotFound = errors.New("address not found")

type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleAdmin
}

type User struct {
	UID          string    `json:"uid"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	PhotoURL     string    `json:"photoURL,omitempty"`
	Addresses    []Address `json:"addresses"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// DefaultAddress returns the address flagged as default, if any.
func (u User) DefaultAddress() (Address, bool) {
	for _, a := range u.Addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return Address{}, false
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Address struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	PostalCode string    `json:"postalCode"`
	Location   *GeoPoint `json:"location,omitempty"`
	IsDefault  bool      `json:"isDefault"`
}

// Line renders the address the way it is printed on an order.
func (a Address) Line() string {
	line := a.Address
	if a.PostalCode != "" || a.City != "" {
		line += ", "
		if a.PostalCode != "" {
			line += a.PostalCode + " "
		}
		line += a.City
	}
	return line
}

// AddAddress appends a. The first address of a book, or one flagged as
// default, becomes the only default.
func AddAddress(book []Address, a Address) []Address {
	book = append(book, a)
	if len(book) == 1 || a.IsDefault {
		book, _ = SetDefaultAddress(book, a.ID)
	}
	return book
}

// SetDefaultAddress clears every default flag, then sets the one on id.
func SetDefaultAddress(book []Address, id string) ([]Address, error) {
	idx := indexOfAddress(book, id)
	if idx < 0 {
		return book, ErrAddressNotFound
	}
	out := make([]Address, len(book))
	for i, a := range book {
		a.IsDefault = i == idx
		out[i] = a
	}
	return out, nil
}

// ReplaceAddress swaps the stored address with the same id, keeping its
// default flag unless the replacement asks to become default.
func ReplaceAddress(book []Address, a Address) ([]Address, error) {
	idx := indexOfAddress(book, a.ID)
	if idx < 0 {
		return book, ErrAddressNotFound
	}
	out := append([]Address(nil), book...)
	wasDefault := out[idx].IsDefault
	makeDefault := a.IsDefault
	a.IsDefault = wasDefault
	out[idx] = a
	if makeDefault && !wasDefault {
		return SetDefaultAddress(out, a.ID)
	}
	return out, nil
}

// RemoveAddress drops id. Removing the default promotes the first remaining
// address.
func RemoveAddress(book []Address, id string) ([]Address, error) {
	idx := indexOfAddress(book, id)
	if idx < 0 {
		return book, ErrAddressNotFound
	}
	wasDefault := book[idx].IsDefault
	out := make([]Address, 0, len(book)-1)
	out = append(out, book[:idx]...)
	out = append(out, book[idx+1:]...)
	if wasDefault && len(out) > 0 {
		out[0].IsDefault = true
	}
	return out, nil
}

func indexOfAddress(book []Address, id string) int {
	for i, a := range book {
		if a.ID == id {
			return i
		}
	}
	return -1
}
