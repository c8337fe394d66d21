package qart

import "errors"

var ErrNotFound = errors.New("archived object not found")
