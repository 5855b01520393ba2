package config

import "fmt"

// ChainDef is a statically known chain this build can monitor. RPCURLTemplate
// is formatted with the configured Infura project id via fmt.Sprintf, the
// same substitution the INFURA_ID variable performs (spec §6).
type ChainDef struct {
	ID             uint64
	Name           string
	RPCURLTemplate string
}

// KnownChains is the fixed table of chains this build knows how to reach.
// Real deployments extend this list per network; it is not itself
// environment-configurable, only which of its entries are active is (via
// MONITOR_CHAINS).
var KnownChains = []ChainDef{
	{ID: 1, Name: "mainnet", RPCURLTemplate: "https://mainnet.infura.io/v3/%s"},
	{ID: 5, Name: "goerli", RPCURLTemplate: "https://goerli.infura.io/v3/%s"},
	{ID: 11155111, Name: "sepolia", RPCURLTemplate: "https://sepolia.infura.io/v3/%s"},
	{ID: 137, Name: "polygon", RPCURLTemplate: "https://polygon-mainnet.infura.io/v3/%s"},
}

func lookupChain(id uint64) (ChainDef, error) {
	for _, c := range KnownChains {
		if c.ID == id {
			return c, nil
		}
	}
	return ChainDef{}, fmt.Errorf("unknown chain id %d", id)
}
