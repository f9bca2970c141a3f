package validators

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldID targets the account identifier.
	FieldID = "id"

	// FieldName targets the display name.
	FieldName = "name"

	// FieldEmail targets the login email.
	FieldEmail = "email"

	// FieldSecret targets a new secret being set at registration.
	// Length rules apply.
	FieldSecret = "secret"

	// FieldLoginSecret targets a secret presented at login.
	// Only presence is checked so that rules never leak through login errors.
	FieldLoginSecret = "login_secret"

	// FieldRole targets the account role.
	FieldRole = "role"

	// FieldStatus targets the account status.
	FieldStatus = "status"

	// FieldLimit targets the page size of a listing.
	FieldLimit = "limit"
)

const (
	maxNameLength   = 100
	minSecretLength = 8
	// bcrypt ignores everything past 72 bytes
	maxSecretLength = 72
	maxEmailLength  = 254
	maxPageLength   = 500
)
