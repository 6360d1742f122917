package constants

const (
	// AppName is the application name used for config paths and keyring service
	AppName = "memkeeper"

	// DefaultKeyringUser is the keyring account under which the database
	// connection string is stored
	DefaultKeyringUser = "default"

	// DateFormat is the display format for unlock dates
	DateFormat = "2006-01-02"

	// DateTimeFormat is the display format for full timestamps
	DateTimeFormat = "2006-01-02 15:04"
)
