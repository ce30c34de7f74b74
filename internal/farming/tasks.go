package farming

import (
	"fmt"
	"strings"

	"github.com/scryptex/backend/internal/models"
)

type taskTemplate struct {
	Name            string
	Type            string
	Required        bool
	GasCostEstimate float64
}

var chainTaskTemplates = map[string][]taskTemplate{
	"zkSync": {
		{Name: "Mint NFT", Type: "mint", Required: true, GasCostEstimate: 0.005},
		{Name: "Swap Token", Type: "swap", Required: true, GasCostEstimate: 0.003},
		{Name: "Add Liquidity", Type: "liquidity", Required: false, GasCostEstimate: 0.008},
	},
	"Sui": {
		{Name: "Mint Object", Type: "mint", Required: true, GasCostEstimate: 0.001},
		{Name: "Swap SUI", Type: "swap", Required: true, GasCostEstimate: 0.002},
	},
	"Scroll": {
		{Name: "Bridge ETH", Type: "bridge", Required: true, GasCostEstimate: 0.007},
		{Name: "Swap Token", Type: "swap", Required: true, GasCostEstimate: 0.004},
		{Name: "Deploy Contract", Type: "contract", Required: false, GasCostEstimate: 0.01},
	},
}

var genericTaskTemplates = []taskTemplate{
	{Name: "Generic Task 1", Type: "swap", Required: true, GasCostEstimate: 0.003},
	{Name: "Generic Task 2", Type: "mint", Required: true, GasCostEstimate: 0.004},
}

// tasksForChain builds the pending task list for a project, renaming
// swap and mint tasks after the project.
func tasksForChain(chain, projectName string) []models.FarmingTask {
	templates, ok := chainTaskTemplates[chain]
	if !ok {
		templates = genericTaskTemplates
	}
	tasks := make([]models.FarmingTask, 0, len(templates))
	for _, t := range templates {
		name := t.Name
		switch {
		case strings.Contains(strings.ToLower(t.Type), "swap"):
			name = fmt.Sprintf("Swap on %s DEX", projectName)
		case strings.Contains(strings.ToLower(t.Type), "mint"):
			name = fmt.Sprintf("Mint %s NFT", projectName)
		}
		tasks = append(tasks, models.FarmingTask{
			Name:            name,
			Type:            t.Type,
			Required:        t.Required,
			GasCostEstimate: t.GasCostEstimate,
			Status:          models.FarmingStatusPending,
		})
	}
	return tasks
}

// Chain describes a supported network for the chains endpoint.
type Chain struct {
	Name        string `json:"name"`
	ChainID     int    `json:"chain_id"`
	Symbol      string `json:"symbol"`
	RPCURL      string `json:"rpc_url"`
	ExplorerURL string `json:"explorer_url"`
}

var supportedChains = []Chain{
	{Name: "zkSync", ChainID: 324, Symbol: "ETH", RPCURL: "https://mainnet.era.zksync.io", ExplorerURL: "https://explorer.zksync.io"},
	{Name: "Sui", ChainID: 784, Symbol: "SUI", RPCURL: "https://fullnode.mainnet.sui.io", ExplorerURL: "https://explorer.sui.io"},
	{Name: "Scroll", ChainID: 534352, Symbol: "ETH", RPCURL: "https://scroll.io/rpc", ExplorerURL: "https://scrollscan.com"},
	{Name: "opBNB", ChainID: 204, Symbol: "BNB", RPCURL: "https://opbnb-mainnet-rpc.bnbchain.org", ExplorerURL: "https://opbnb.bscscan.com"},
	{Name: "Berachain", ChainID: 80085, Symbol: "BERA", RPCURL: "https://artio.berachain.com", ExplorerURL: "https://artio.beratrail.io"},
}
