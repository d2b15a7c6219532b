package handle

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"blueberry/internal/storefront/app/core"
	"blueberry/internal/storefront/app/services"
	"blueberry/internal/xpkg/auth"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
)

var errInternal = errors.New("internal server error")

var (
	badRequest = []error{
		core.ErrNoSession, core.ErrInvalidQuantity, core.ErrEmptyCart, core.ErrEmptyPlateau,
		core.ErrAddressRequired, core.ErrAddressTooLong, core.ErrInvalidDelivery, core.ErrInvalidPayment,
		core.ErrInvalidProfile, core.ErrInvalidImage, core.ErrResetTokenInvalid,
		models.ErrUnknownStatus,
	}
	notFound = []error{
		core.ErrProductNotFound, core.ErrItemNotFound, core.ErrOrderNotFound, core.ErrUserNotFound,
		core.ErrAddressNotFound, core.ErrNotificationMissing,
	}
	conflict = []error{
		core.ErrProductUnavailable, core.ErrOrderNotPending,
	}
	authCodes = map[error]int{
		auth.ErrUserNotFound:    http.StatusUnauthorized,
		auth.ErrWrongPassword:   http.StatusUnauthorized,
		auth.ErrEmailInUse:      http.StatusConflict,
		auth.ErrWeakPassword:    http.StatusBadRequest,
		auth.ErrInvalidEmail:    http.StatusBadRequest,
		auth.ErrTooManyRequests: http.StatusTooManyRequests,
	}
)

// fail maps a service error to its HTTP answer. Unknown errors are logged
// and hidden behind a generic 500.
func fail(w http.ResponseWriter, mylog logger.Logger, err error) {
	for target, code := range authCodes {
		if errors.Is(err, target) {
			httpx.Error(w, code, errors.New(auth.Message(err)))
			return
		}
	}
	switch {
	case isAny(err, badRequest):
		httpx.Error(w, http.StatusBadRequest, err)
	case isAny(err, notFound):
		httpx.Error(w, http.StatusNotFound, err)
	case isAny(err, conflict):
		httpx.Error(w, http.StatusConflict, err)
	default:
		mylog.Error("Request failed", err)
		httpx.Error(w, http.StatusInternalServerError, errInternal)
	}
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// ownerOf identifies the cart owner: the signed-in user, else the session
// header.
func ownerOf(r *http.Request) services.Owner {
	o := services.Owner{SessionID: r.Header.Get(core.SessionHeader)}
	if id, ok := auth.FromContext(r.Context()); ok {
		o.UserID = id.UID
	}
	return o
}

// identity returns the caller attached by the auth middleware. Routes using
// it are mounted behind Require.
func identity(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

func boolParam(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.New(name + " must be true or false")
	}
	return &v, nil
}

// imageUpload pulls the named file out of a multipart form.
func imageUpload(w http.ResponseWriter, r *http.Request, field string) (io.ReadCloser, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, core.MaxUploadBytes)
	if err := r.ParseMultipartForm(core.MaxUploadBytes); err != nil {
		return nil, "", errors.New("invalid multipart form or file too large")
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", errors.New("missing file field " + strconv.Quote(field))
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		buf := make([]byte, 512)
		n, _ := file.Read(buf)
		contentType = http.DetectContentType(buf[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			file.Close()
			return nil, "", err
		}
	}
	return file, contentType, nil
}
