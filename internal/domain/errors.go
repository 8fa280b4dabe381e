package domain

import "errors"

// ErrNotFound is returned (wrapped) by repositories when a requested row does not exist
var ErrNotFound = errors.New("not found")
