// Package domain holds the business rules of the job/invoice lifecycle.
// Subpackages define one aggregate each together with the repository
// contract its use cases depend on.
package domain

import "errors"

// ErrNotFound is returned by repositories when a live row does not exist.
var ErrNotFound = errors.New("record not found")
