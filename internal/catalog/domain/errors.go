package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrStoreNotFound   = errors.New("store not found")
	ErrNotApproved     = errors.New("vendor not approved")
)
