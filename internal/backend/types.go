package backend

// BestBlock is the network status returned by getNetwork.getBestBlock.
type BestBlock struct {
	Number    int64 `json:"number"`
	Timestamp int64 `json:"timestamp"`
}

// Pool is the live pool state returned by getPools.all.
type Pool struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Token0UUID   string  `json:"token0"`
	Token1UUID   string  `json:"token1"`
	Reserve0     float64 `json:"reserve0"`
	Reserve1     float64 `json:"reserve1"`
	LiquidityUSD float64 `json:"liquidityUSD"`
	VolumeUSD    float64 `json:"volumeUSD"`
	Volume0      float64 `json:"volume0"`
	Volume1      float64 `json:"volume1"`
	Fee0         float64 `json:"fee0"`
	Fee1         float64 `json:"fee1"`
	FeeUSD       float64 `json:"feeUSD"`
	APR          float64 `json:"apr"`
}
