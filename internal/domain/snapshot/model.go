// Package snapshot defines the time-bucketed pool metric rows materialized by
// the snapshot jobs.
package snapshot

import "time"

// DaySnapshot is one pool's daily metrics row. Date is the invocation
// wall-clock time; BucketStart is Date truncated to the day and forms the
// upsert key together with PoolID.
type DaySnapshot struct {
	ID           string    `db:"id"`
	PoolID       string    `db:"pool_id"`
	Date         time.Time `db:"date"`
	BucketStart  time.Time `db:"bucket_start"`
	LiquidityUSD float64   `db:"liquidity_usd"`
	VolumeUSD    float64   `db:"volume_usd"`
	Reserve0     float64   `db:"reserve0"`
	Reserve1     float64   `db:"reserve1"`
	APR          float64   `db:"apr"`
}

// HourSnapshot is one pool's hourly metrics row, extending the daily shape
// with per-asset volume and fee breakdowns plus the HTR reference price.
type HourSnapshot struct {
	ID           string    `db:"id"`
	PoolID       string    `db:"pool_id"`
	Date         time.Time `db:"date"`
	BucketStart  time.Time `db:"bucket_start"`
	LiquidityUSD float64   `db:"liquidity_usd"`
	VolumeUSD    float64   `db:"volume_usd"`
	Reserve0     float64   `db:"reserve0"`
	Reserve1     float64   `db:"reserve1"`
	APR          float64   `db:"apr"`
	Volume0      float64   `db:"volume0"`
	Volume1      float64   `db:"volume1"`
	Fee0         float64   `db:"fee0"`
	Fee1         float64   `db:"fee1"`
	FeeUSD       float64   `db:"fee_usd"`
	PriceHTR     float64   `db:"price_htr"`
}
