package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ErrorNoRatePath is returned when a currency pair cannot be resolved
// directly, by inversion, or through any hub currency. Recoverable:
// callers surface the original amount as unconverted.
var ErrorNoRatePath = errors.New("no exchange rate path found")

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
