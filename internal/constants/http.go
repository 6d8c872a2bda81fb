package constants

// HTTP Header Names
const (
	HeaderContentDisposition = "Content-Disposition"
	HeaderAuthorization      = "Authorization"
	HeaderXRequestID         = "X-Request-ID"
)

// Authorization scheme
const BearerScheme = "Bearer"

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Common HTTP Error Messages
const (
	MsgBadRequest    = "Invalid request"
	MsgInternalError = "Internal server error"
)

// HTTP Success Messages
const (
	MsgCreated = "Resource created successfully"
	MsgUpdated = "Resource updated successfully"
)
