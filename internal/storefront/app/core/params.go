package core

type StorefrontParams struct {
	Port int
}

const (
	// in seconds for db response
	WaitTime = 20

	MaxQuantity = 99

	MaxUploadBytes = 5 << 20

	MaxNameLen    = 100
	MaxPhoneLen   = 30
	MaxAddressLen = 200

	SessionHeader = "X-Session-ID"
	ChangedBy     = "storefront-service"
)
