package repository

import (
	"database/sql"
	"reflect"

	"github.com/behrang/sqlbatch"
)

// fakeBatchHandler records the batches and serves rows to the read callbacks.
type fakeBatchHandler struct {
	opts     []*sql.TxOptions
	batches  [][]sqlbatch.Command
	rows     [][]interface{}
	err      error
	readErrs []error
}

func (h *fakeBatchHandler) Batch(opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error) {
	h.opts = append(h.opts, opts)
	h.batches = append(h.batches, commands)
	if h.err != nil {
		return nil, h.err
	}

	results := make([]interface{}, len(commands))
	for i, command := range commands {
		switch {
		case command.ReadOne != nil && len(h.rows) > 0:
			r, err := command.ReadOne(scanner(h.rows[0]))
			h.readErrs = append(h.readErrs, err)
			results[i] = r
		case command.ReadAll != nil:
			all := command.Init
			for _, row := range h.rows {
				var err error
				all, err = command.ReadAll(all, scanner(row))
				h.readErrs = append(h.readErrs, err)
			}
			results[i] = all
		}
	}
	return results, nil
}

func (h *fakeBatchHandler) lastBatch() []sqlbatch.Command {
	return h.batches[len(h.batches)-1]
}

func scanner(row []interface{}) func(...interface{}) error {
	return func(dest ...interface{}) error {
		for i, d := range dest {
			target := reflect.ValueOf(d).Elem()
			if row[i] == nil {
				target.Set(reflect.Zero(target.Type()))
				continue
			}
			target.Set(reflect.ValueOf(row[i]))
		}
		return nil
	}
}
