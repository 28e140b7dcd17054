package constants

const (
	MsgProductNotFound   = "Product not found"
	MsgInvalidQuery      = "Invalid query parameters"
	MsgImportStarted     = "Import started"
	MsgImportInProgress  = "An import run is already in progress"
	MsgImportUnavailable = "Import is not configured on this server"
	MsgUnauthorized      = "Missing or invalid admin token"
	MsgForbidden         = "Admin role required"
	MsgRateLimited       = "Rate limit exceeded. Please try again later."
	MsgInternalError     = "Internal server error"
)
