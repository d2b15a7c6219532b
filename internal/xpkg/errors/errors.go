package errors

import "errors"

var (
	ErrParseCmd       = errors.New("cannot parse arguments")
	ErrHelp           = errors.New("")
	ErrModeFlag       = errors.New("mode flag is required")
	ErrUnknownService = errors.New("unknown service, write --help command to see valid services")
	ErrInvalidPort    = errors.New("port must be in [1: 65,535]")

	ErrDBConn    = errors.New("db connection failure")
	ErrMBConn    = errors.New("message broker connection failure")
	ErrMBCh      = errors.New("message broker channel failure")
	ErrCacheConn = errors.New("cache connection failure")
	ErrMedia     = errors.New("media storage failure")

	ErrFieldIsEmpty = errors.New("field is empty")
)
