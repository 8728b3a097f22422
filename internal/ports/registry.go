package ports

import "context"

// Pair is one AMM pair listed by the factory registry.
type Pair struct {
	ContractAddress string
	AssetDenoms     []string
}

// PairPage is one page of the factory's pair listing.
// NextPageToken is empty when there are no further pages.
type PairPage struct {
	Pairs         []Pair
	NextPageToken string
}

// PairRegistry searches the DEX factory for trading pairs.
type PairRegistry interface {
	// ListPairsPage fetches one page of pairs. An empty pageToken starts
	// from the beginning.
	ListPairsPage(ctx context.Context, pageToken string) (PairPage, error)
}
