package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Configuration errors (100-199)
	ErrCodeInvalidConfiguration ErrorCode = 100
	ErrCodeInvalidPeriod        ErrorCode = 101
	ErrCodeUnknownIndicator     ErrorCode = 102
	ErrCodeInvalidThreshold     ErrorCode = 103
	ErrCodeInvalidStdDev        ErrorCode = 104
	ErrCodeInvalidCrossover     ErrorCode = 105
	ErrCodeInvalidDate          ErrorCode = 106
	ErrCodeIndicatorExists      ErrorCode = 107
	ErrCodeMissingFeature       ErrorCode = 108

	// Data validation errors (200-299)
	ErrCodeEmptyInput        ErrorCode = 200
	ErrCodeMissingColumn     ErrorCode = 201
	ErrCodeNonMonotonicDates ErrorCode = 202
	ErrCodeDuplicateDate     ErrorCode = 203
	ErrCodeDateGap           ErrorCode = 204
	ErrCodeInvalidPrice      ErrorCode = 205
	ErrCodeMalformedRow      ErrorCode = 206

	// Range errors (300-399)
	ErrCodeRangeEmpty ErrorCode = 300

	// I/O errors (400-499)
	ErrCodeReadFailed  ErrorCode = 400
	ErrCodeWriteFailed ErrorCode = 401
	ErrCodeQueryFailed ErrorCode = 402
)

// IsConfigurationCode reports whether code belongs to the configuration category.
func IsConfigurationCode(code ErrorCode) bool {
	return code >= 100 && code < 200
}

// IsDataValidationCode reports whether code belongs to the data validation category.
func IsDataValidationCode(code ErrorCode) bool {
	return code >= 200 && code < 300
}
