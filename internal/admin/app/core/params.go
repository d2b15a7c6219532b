package core

type AdminParams struct {
	Port int
}

const (
	// in seconds for db response
	WaitTime = 20

	MaxUploadBytes = 5 << 20
	MaxNameLen     = 100
	LatestOrders   = 5
	TopProducts    = 5

	ChangedBy = "admin-service"
)
