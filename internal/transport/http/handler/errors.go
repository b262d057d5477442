package handler

const (
	errInternalServer = "Internal server error"
	errBadCredentials = "Bad credentials"
	errEmailTaken     = "Email already registered"
	errEmailUnknown   = "Unknown email"
	errTokenNotFound  = "Token not found"
	errTokenGone      = "Token expired or already used"
	errAccountState   = "Account status does not allow this operation"
)
