package functionmap

import "errors"

// ErrInvalidLibrary is returned for a malformed function library
var ErrInvalidLibrary = errors.New("invalid function library")
