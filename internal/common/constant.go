package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// FieldNone tags errors that are not attributed to a request field.
const FieldNone = "none"

// Status strings placed into response payloads.
const (
	StatusCreated      = "Created"
	StatusLogged       = "Logged"
	StatusUpdated      = "Updated"
	StatusBadRequest   = "Bad Request"
	StatusServerError  = "Server Error"
	StatusUnauthorized = "Unauthorized"
)

// Validation messages.
const (
	MsgUsernameAlreadyExist  = "Username already exists"
	MsgUsernameIncorrect     = "Username is incorrect"
	MsgEmailAlreadyExist     = "Email already exists"
	MsgPasswordIncorrect     = "Password is incorrect"
	MsgPasswordsAreNotSame   = "Passwords are not the same"
	MsgPasswordWrong         = "Password is wrong"
	MsgLoginIncorrect        = "Login is incorrect"
	MsgLoginDoesNotExist     = "Login does not exist"
	MsgUserNotFound          = "User not found"
	MsgInvalidToken          = "Invalid token"
	MsgServerUnableContinue  = "Server is unable to continue"
	MsgAuthenticationMissing = "Authentication required"
	MsgMalformedRequest      = "Malformed request"
	MsgAccountTypeIncorrect  = "Account type is incorrect"
)

// Success messages.
const (
	MsgUserCreated = "User has been created"
	MsgUserLogged  = "User has been logged in"
	MsgUserUpdated = "User has been updated"
)
