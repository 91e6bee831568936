package cnst

const (
	// ApiServerYaml is the default config file name of the api server
	ApiServerYaml = "apiserver.yaml"
	// DefaultCfgDir is the fallback directory for config files
	DefaultCfgDir = "/etc/casedesk"
)

const (
	RedisClusterTypeSingle   = "single"
	RedisClusterTypeSentinel = "sentinel"
	RedisClusterTypeCluster  = "cluster"
)
