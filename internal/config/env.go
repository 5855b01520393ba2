// Package config translates process environment/flags into the
// startup-only construction parameters monitor.New needs, so no downstream
// component ever re-reads the environment at request time (spec §9 design
// note: "Global/process-wide state").
package config

// EnvConfig mirrors the recognized environment variables (spec §6)
// through go-flags struct tags.
type EnvConfig struct {
	IPFSURL  string `long:"ipfs-url" env:"IPFS_URL" description:"IPFS gateway URL prefix" default:"https://ipfs.infura.io:5001/api/v0/cat?arg="`
	SwarmURL string `long:"swarm-url" env:"SWARM_GATEWAY_URL" description:"Swarm gateway URL prefix" default:"https://swarm-gateways.net/bzz-raw:/"`

	FetchTimeoutMS int `long:"monitor-fetch-timeout" env:"MONITOR_FETCH_TIMEOUT" description:"fetcher HTTP timeout in ms" default:"300000"`
	FetchPauseMS   int `long:"monitor-fetch-pause" env:"MONITOR_FETCH_PAUSE" description:"fetcher inter-dispatch pause in ms" default:"1000"`
	CleanupMS      int `long:"monitor-cleanup-period" env:"MONITOR_CLEANUP_PERIOD" description:"fetcher subscription cleanup age in ms" default:"1800000"`

	GetCodeRetryPauseMS    int `long:"get-code-retry-pause" env:"GET_CODE_RETRY_PAUSE" description:"eth_getCode retry pause in ms" default:"2000"`
	GetBlockPauseMS        int `long:"get-block-pause" env:"GET_BLOCK_PAUSE" description:"block-loop pause in ms" default:"2000"`
	InitialGetBytecodeTries int `long:"initial-get-bytecode-tries" env:"INITIAL_GET_BYTECODE_TRIES" description:"eth_getCode retry budget per address" default:"3"`

	InfuraID string `long:"infura-id" env:"INFURA_ID" description:"substituted into chain RPC URL templates"`
	Testing  bool   `long:"testing" env:"TESTING" description:"if true, refuse to start (reserved)"`

	Chains string `long:"chains" env:"MONITOR_CHAINS" description:"comma-separated chain ids to monitor" default:"1"`

	CompilerDir   string `long:"compiler-dir" env:"SOLC_DIR" description:"directory of solc-<version> binaries" default:"/usr/local/solc"`
	RepositoryDir string `long:"repository-dir" env:"REPOSITORY_DIR" description:"filesystem repository root" default:"./repository"`
	MetricsAddr   string `long:"metrics-addr" env:"MONITOR_METRICS_ADDR" description:"address for the metrics server" default:":2112"`
}
