package zigchain

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"zigsniper/internal/ports"
)

// registryPageSize is the fixed page size for factory pair listings.
const registryPageSize = 30

// Registry queries the Oroswap factory contract for trading pairs via
// CosmWasm smart queries. Implements ports.PairRegistry.
type Registry struct {
	client  *Client
	factory string
}

// NewRegistry creates a Registry against the given factory contract address.
func NewRegistry(client *Client, factoryAddress string) *Registry {
	return &Registry{client: client, factory: factoryAddress}
}

// assetInfo is the factory's tagged-union asset descriptor.
type assetInfo struct {
	NativeToken *struct {
		Denom string `json:"denom"`
	} `json:"native_token,omitempty"`
	Token *struct {
		ContractAddr string `json:"contract_addr"`
	} `json:"token,omitempty"`
}

type pairsQuery struct {
	Pairs struct {
		Limit      int             `json:"limit"`
		StartAfter json.RawMessage `json:"start_after,omitempty"`
	} `json:"pairs"`
}

type pairsResponse struct {
	Data struct {
		Pairs []struct {
			ContractAddr string      `json:"contract_addr"`
			AssetInfos   []assetInfo `json:"asset_infos"`
		} `json:"pairs"`
	} `json:"data"`
}

// ListPairsPage fetches one page of pairs from the factory. The page token
// is the raw asset_infos of the previous page's last pair, which is what
// the factory's start_after cursor expects.
func (r *Registry) ListPairsPage(ctx context.Context, pageToken string) (ports.PairPage, error) {
	var query pairsQuery
	query.Pairs.Limit = registryPageSize
	if pageToken != "" {
		query.Pairs.StartAfter = json.RawMessage(pageToken)
	}

	queryJSON, err := json.Marshal(query)
	if err != nil {
		return ports.PairPage{}, fmt.Errorf("zigchain.ListPairsPage: marshal query: %w", err)
	}

	url := fmt.Sprintf("%s/cosmwasm/wasm/v1/contract/%s/smart/%s",
		r.client.lcdBase, r.factory, base64.StdEncoding.EncodeToString(queryJSON))

	var resp pairsResponse
	if err := r.client.get(ctx, url, &resp); err != nil {
		return ports.PairPage{}, fmt.Errorf("zigchain.ListPairsPage: %w", err)
	}

	page := ports.PairPage{Pairs: make([]ports.Pair, 0, len(resp.Data.Pairs))}
	for _, p := range resp.Data.Pairs {
		pair := ports.Pair{ContractAddress: p.ContractAddr}
		for _, a := range p.AssetInfos {
			if a.NativeToken != nil {
				pair.AssetDenoms = append(pair.AssetDenoms, a.NativeToken.Denom)
			}
		}
		page.Pairs = append(page.Pairs, pair)
	}

	// A short page is the last page.
	if len(resp.Data.Pairs) == registryPageSize {
		last := resp.Data.Pairs[len(resp.Data.Pairs)-1]
		cursor, err := json.Marshal(last.AssetInfos)
		if err == nil {
			page.NextPageToken = string(cursor)
		}
	}
	return page, nil
}
