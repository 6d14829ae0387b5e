package repository

import (
	"database/sql"

	"github.com/behrang/sqlbatch"
)

var (
	// BatchOptionNormal is used by the journal flush: entries, claim mirrors and snapshots.
	BatchOptionNormal = sql.TxOptions{
		ReadOnly:  false,
		Isolation: sql.LevelReadCommitted,
	}

	// BatchOptionNormalReadOnly is used by the history reads.
	BatchOptionNormalReadOnly = sql.TxOptions{
		ReadOnly:  true,
		Isolation: sql.LevelReadCommitted,
	}
)

// BatchHandler runs the commands of a repository call in one transaction and
// returns one result per command, in order. The vault database handler retries
// the whole batch on serialization failures.
type BatchHandler interface {
	Batch(opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error)
}
