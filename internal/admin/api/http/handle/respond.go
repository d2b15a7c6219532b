package handle

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"blueberry/internal/admin/app/core"
	"blueberry/internal/admin/domain/dto"
	"blueberry/internal/xpkg/auth"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
)

var errInternal = errors.New("internal server error")

var (
	badRequest = []error{
		core.ErrInvalidProduct, core.ErrInvalidCategory, core.ErrInvalidRole, core.ErrEmptyUpdate,
		core.ErrInvalidImage, core.ErrInvalidRange, core.ErrBrandingKind,
		models.ErrUnknownStatus, models.ErrUnknownNiveau,
	}
	notFound = []error{
		core.ErrProductNotFound, core.ErrCategoryNotFound, core.ErrOrderNotFound, core.ErrUserNotFound,
	}
	conflict = []error{
		core.ErrCategoryExists, core.ErrCategoryInUse, models.ErrInvalidTransition,
	}
	forbidden = []error{
		core.ErrSelfDemotion,
	}
)

func fail(w http.ResponseWriter, mylog logger.Logger, err error) {
	switch {
	case isAny(err, badRequest):
		httpx.Error(w, http.StatusBadRequest, err)
	case isAny(err, notFound):
		httpx.Error(w, http.StatusNotFound, err)
	case isAny(err, conflict):
		httpx.Error(w, http.StatusConflict, err)
	case isAny(err, forbidden):
		httpx.Error(w, http.StatusForbidden, err)
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

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// imageFile opens the named file of an already parsed multipart form. A
// missing field yields a nil image.
func imageFile(r *http.Request, field string) (*dto.Image, io.Closer, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errors.New("cannot read file field " + strconv.Quote(field))
	}
	contentType, err := sniff(file, header)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	return &dto.Image{ContentType: contentType, Body: file}, file, nil
}

// sniff trusts the part's declared type unless it is missing or generic.
func sniff(file multipart.File, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType, nil
	}
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, core.MaxUploadBytes)
	if err := r.ParseMultipartForm(core.MaxUploadBytes); err != nil {
		return errors.New("invalid multipart form or file too large")
	}
	return nil
}

// productForm reads a product from JSON or from a multipart form with an
// optional "image" file.
func productForm(w http.ResponseWriter, r *http.Request) (dto.ProductInput, *dto.Image, io.Closer, error) {
	var in dto.ProductInput
	if !isMultipart(r) {
		err := httpx.Decode(r, &in)
		return in, nil, nil, err
	}
	if err := parseMultipart(w, r); err != nil {
		return in, nil, nil, err
	}

	form := r.MultipartForm.Value
	text := func(key string) *string {
		if v, ok := form[key]; ok && len(v) > 0 {
			s := v[0]
			return &s
		}
		return nil
	}
	in.Name = text("name")
	in.Category = text("category")
	in.Description = text("description")
	if raw := text("price"); raw != nil {
		price, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
		if err != nil {
			return in, nil, nil, errors.New("price must be a number")
		}
		in.Price = &price
	}
	for key, dst := range map[string]**bool{"available": &in.Available, "isSpecial": &in.IsSpecial} {
		if raw := text(key); raw != nil {
			v, err := strconv.ParseBool(strings.TrimSpace(*raw))
			if err != nil {
				return in, nil, nil, errors.New(key + " must be true or false")
			}
			*dst = &v
		}
	}

	img, closer, err := imageFile(r, "image")
	return in, img, closer, err
}
