package cnst

const (
	// AppName is the application name
	AppName = "casedesk"
	// CommandName is the binary name of the api server
	CommandName = "apiserver"
)

// Environments recognised by server.environment
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)
