package constants

const (
	Version    = "0.3.0"
	ApiVersion = 1

	UserAgent = "bloodbridge/" + Version
)
