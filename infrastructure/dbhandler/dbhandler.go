package dbhandler

import (
	"context"
	_ "embed"
	"errors"

	"database/sql"

	"github.com/behrang/sqlbatch"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	serializationFailure = "40001"
	maxAttempts          = 5
)

//go:embed schema.sql
var schema string

// DBHandler contains a connection to database.
type DBHandler struct {
	DB     *sql.DB
	Logger *zap.Logger
}

// Migrate creates the tables used by the repositories when they do not exist.
func (handler DBHandler) Migrate() error {
	_, err := handler.DB.ExecContext(context.Background(), schema)
	return err
}

// Batch creates a transaction and executes the batch of commands in that transaction.
// If a serialization failure is received, the batch is retried.
func (handler DBHandler) Batch(opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error) {
	var pqErr *pq.Error
	for attempt := 1; ; attempt++ {
		results, err := handler.tryBatch(opts, commands)
		if errors.As(err, &pqErr) && pqErr.Code == serializationFailure && attempt < maxAttempts {
			if handler.Logger != nil {
				handler.Logger.Warn("retryable postgres error, retrying", zap.Int("attempt", attempt), zap.Error(err))
			}
			continue
		}
		return results, err
	}
}

func (handler DBHandler) tryBatch(opts *sql.TxOptions, commands []sqlbatch.Command) (results []interface{}, err error) {

	results = make([]interface{}, len(commands))

	tx, err := handler.DB.BeginTx(context.Background(), opts)
	if err != nil {
		return
	}
	defer tx.Rollback()

	results, err = sqlbatch.Batch(tx, commands)

	if err == nil {
		err = tx.Commit()
	}

	return
}
