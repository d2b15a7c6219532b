package models

import "time"

const EntrepriseDocID = "main"

// Entreprise is the restaurant-wide settings document.
type Entreprise struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Description  string    `json:"description"`
	Website      string    `json:"website"`
	OpeningHours string    `json:"openingHours"`
	Currency     string    `json:"currency"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func DefaultEntreprise() Entreprise {
	return Entreprise{
		Name:         "Blueberry",
		Email:        "contact@blueberry-pg.com",
		Phone:        "+241 01 23 45 67",
		Address:      "Port-Gentil, Gabon",
		Description:  "Restaurant et livraison à Port-Gentil",
		OpeningHours: "Lun-Dim 10h-22h",
		Currency:     "FCFA",
	}
}

// Merge overwrites the fields of e that are set in patch.
func (e Entreprise) Merge(patch Entreprise) Entreprise {
	mergeString(&e.Name, patch.Name)
	mergeString(&e.Email, patch.Email)
	mergeString(&e.Phone, patch.Phone)
	mergeString(&e.Address, patch.Address)
	mergeString(&e.Description, patch.Description)
	mergeString(&e.Website, patch.Website)
	mergeString(&e.OpeningHours, patch.OpeningHours)
	mergeString(&e.Currency, patch.Currency)
	return e
}

type Appearance struct {
	Logo            string    `json:"logo"`
	Favicon         string    `json:"favicon"`
	PrimaryColor    string    `json:"primaryColor"`
	SecondaryColor  string    `json:"secondaryColor"`
	BackgroundColor string    `json:"backgroundColor"`
	FontFamily      string    `json:"fontFamily"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func DefaultAppearance() Appearance {
	return Appearance{
		PrimaryColor:    "#0B3B47",
		SecondaryColor:  "#78013B",
		BackgroundColor: "#e2b7d3",
		FontFamily:      "Inter",
	}
}

func (a Appearance) Merge(patch Appearance) Appearance {
	mergeString(&a.Logo, patch.Logo)
	mergeString(&a.Favicon, patch.Favicon)
	mergeString(&a.PrimaryColor, patch.PrimaryColor)
	mergeString(&a.SecondaryColor, patch.SecondaryColor)
	mergeString(&a.BackgroundColor, patch.BackgroundColor)
	mergeString(&a.FontFamily, patch.FontFamily)
	return a
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
