package errors

// ErrorCode is the stable, machine-readable code returned in error bodies.
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED ErrorCode = 0
	ErrorCode_HTTP_OK     ErrorCode = 200

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_FORBIDDEN         ErrorCode = 1006
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1007

	// Auth
	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2001

	// Event
	ErrorCode_EVENT_NOT_FOUND       ErrorCode = 3000
	ErrorCode_EVENT_NOT_OWNER       ErrorCode = 3001
	ErrorCode_SEGMENT_INGEST_FAILED ErrorCode = 3003

	// Translation provider
	ErrorCode_PROVIDER_MISCONFIGURED  ErrorCode = 4000
	ErrorCode_PROVIDER_UNAVAILABLE    ErrorCode = 4001
	ErrorCode_INVALID_PROVIDER_OUTPUT ErrorCode = 4002

	// Integration
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 5000
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 5001
	ErrorCode_INTEGRATION_EXPORT_FAILED  ErrorCode = 5002

	// Database
	ErrorCode_DB_CONNECTION_FAILED    ErrorCode = 6000
	ErrorCode_DB_QUERY_FAILED         ErrorCode = 6001
	ErrorCode_DB_CONSTRAINT_VIOLATION ErrorCode = 6002
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:                "UNSPECIFIED",
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:          "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                  "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_EVENT_NOT_FOUND:            "EVENT_NOT_FOUND",
	ErrorCode_EVENT_NOT_OWNER:            "EVENT_NOT_OWNER",
	ErrorCode_SEGMENT_INGEST_FAILED:      "SEGMENT_INGEST_FAILED",
	ErrorCode_PROVIDER_MISCONFIGURED:     "PROVIDER_MISCONFIGURED",
	ErrorCode_PROVIDER_UNAVAILABLE:       "PROVIDER_UNAVAILABLE",
	ErrorCode_INVALID_PROVIDER_OUTPUT:    "INVALID_PROVIDER_OUTPUT",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_EXPORT_FAILED:  "INTEGRATION_EXPORT_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:       "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
	ErrorCode_DB_CONSTRAINT_VIOLATION:    "DB_CONSTRAINT_VIOLATION",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
