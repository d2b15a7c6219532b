package dto

import "blueberry/internal/xpkg/models"

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expiresAt"`
	User      models.User `json:"user"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirm struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type ProfileUpdate struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type AddressRequest struct {
	Name       string           `json:"name"`
	Address    string           `json:"address"`
	City       string           `json:"city"`
	PostalCode string           `json:"postalCode"`
	Location   *models.GeoPoint `json:"location,omitempty"`
	IsDefault  bool             `json:"isDefault"`
}

func (r AddressRequest) ToAddress(id string) models.Address {
	return models.Address{
		ID:         id,
		Name:       r.Name,
		Address:    r.Address,
		City:       r.City,
		PostalCode: r.PostalCode,
		Location:   r.Location,
		IsDefault:  r.IsDefault,
	}
}

type NotificationList struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
}
