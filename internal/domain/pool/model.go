// Package pool defines the relational records this service reads to resolve
// quest targets. The rows are owned by the main Dozer database; this service
// only queries them.
package pool

import "time"

// Pool is a liquidity pool row. Token0 is the primary asset (HTR for Dozer
// pools) and Token1 the secondary asset.
type Pool struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	ContractID string    `db:"contract_id"`
	Token0UUID string    `db:"token0_uuid"`
	Token1UUID string    `db:"token1_uuid"`
	CreatedAt  time.Time `db:"created_at"`
}

// Token is a token registry row.
type Token struct {
	ID        string    `db:"id"`
	UUID      string    `db:"uuid"`
	Symbol    string    `db:"symbol"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}
