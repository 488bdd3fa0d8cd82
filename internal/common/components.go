package common

const (
	ComponentIndexer     = "indexer"
	ComponentChainReader = "chain-reader"
	ComponentStore       = "store"
	ComponentMaintenance = "maintenance"
	ComponentAPI         = "api"
)

var AllComponents = map[string]struct{}{
	ComponentIndexer:     {},
	ComponentChainReader: {},
	ComponentStore:       {},
	ComponentMaintenance: {},
	ComponentAPI:         {},
}
