package core

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrInvalidProduct  = errors.New("product needs a name, a category and a non-negative price")
	ErrInvalidCategory = errors.New("category needs a name")
	ErrCategoryExists  = errors.New("category already exists")
	ErrCategoryInUse   = errors.New("category still has products")
	ErrInvalidRole     = errors.New("role must be client or admin")
	ErrSelfDemotion    = errors.New("admins cannot change their own role or delete themselves")
	ErrEmptyUpdate     = errors.New("nothing to update: send status and/or niveau")
	ErrInvalidImage    = errors.New("file must be an image")
	ErrInvalidRange    = errors.New("range must be day, week, month or year")
	ErrBrandingKind    = errors.New("branding upload must be logo or favicon")
)
