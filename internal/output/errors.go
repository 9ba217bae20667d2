package output

import "errors"

// ErrUnsupportedFormat is returned when a report format name does not resolve.
var ErrUnsupportedFormat = errors.New("unsupported report format")
