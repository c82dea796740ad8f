package sqlgen

import "fmt"

// BadRequestError rejects a request at compile time, before any SQL is
// sent to the store. The only compile-time rejections are an
// unsupported filter operator, a malformed operator value (between
// without two bounds, empty in-list), an unknown temporal bucket, and
// an out-of-range combination threshold; everything else fails, if at
// all, at the database.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

func badRequestf(format string, args ...any) *BadRequestError {
	return &BadRequestError{Message: fmt.Sprintf(format, args...)}
}
