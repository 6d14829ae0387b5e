package repository

import (
	"vault/domain"

	"github.com/behrang/sqlbatch"
)

const (
	sqlJournalInsertIfNotExists = `
	insert into journal (
			id, kind, payload, create_time
		)
		values (
			$1, $2, $3::jsonb, $4
		)
	on conflict (id) do nothing
`

	sqlJournalFindByKind = `
	select
		id, kind, payload, create_time
	from journal
	where kind = $1
	order by create_time
`
)

type JournalRepository struct {
	batchHandler BatchHandler
}

func NewJournalRepository(db BatchHandler) *JournalRepository {
	return &JournalRepository{batchHandler: db}
}

func readAllJournalEntries(all interface{}, scan func(...interface{}) error) (interface{}, error) {
	r := domain.JournalEntry{}
	var kind string
	var payload []byte
	err := scan(
		&r.ID, &kind, &payload, &r.CreateTime,
	)
	if err == nil {
		r.Kind = domain.EventKind(kind)
		r.Payload = payload
	}

	list := all.([]domain.JournalEntry)
	list = append(list, r)
	return list, err
}

// InsertAll stores the entries in one transaction. Entries already stored are skipped.
func (repo *JournalRepository) InsertAll(entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	commands := make([]sqlbatch.Command, 0, len(entries))
	for _, entry := range entries {
		commands = append(commands, sqlbatch.Command{
			Query: sqlJournalInsertIfNotExists,
			Args: []interface{}{
				entry.ID, string(entry.Kind), []byte(entry.Payload), entry.CreateTime,
			},
		})
	}
	_, err := repo.batchHandler.Batch(&BatchOptionNormal, commands)
	return err
}

func (repo *JournalRepository) FindByKind(kind domain.EventKind) ([]domain.JournalEntry, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlJournalFindByKind,
			Args:    []interface{}{string(kind)},
			Init:    make([]domain.JournalEntry, 0),
			ReadAll: readAllJournalEntries,
		},
	})
	if err != nil {
		return nil, err
	}
	result, _ := results[0].([]domain.JournalEntry)
	return result, nil
}
