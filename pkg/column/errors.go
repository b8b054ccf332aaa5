package column

import "errors"

var (
	ErrScan  = errors.New("column: unsupported source type")
	ErrParse = errors.New("column: invalid value")
)
