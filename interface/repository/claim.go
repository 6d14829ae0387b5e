package repository

import (
	"time"
	"vault/domain"

	"github.com/behrang/sqlbatch"
)

const (
	sqlClaimUpsert = `
	insert into claims as c (
			id, face_value, due_date, debtor_hash, holder, status, amount_repaid, issued_at, financed_at, settled_at, update_time
		)
		values (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	on conflict (id) do
		update set
			status = $6, amount_repaid = $7, financed_at = $9, settled_at = $10, update_time = $11
`

	sqlClaimFind = `
	select
		id, face_value, due_date, debtor_hash, holder, status, amount_repaid, issued_at, financed_at, settled_at
	from claims
	where id = $1
`

	sqlClaimFindAllByStatus = `
	select
		id, face_value, due_date, debtor_hash, holder, status, amount_repaid, issued_at, financed_at, settled_at
	from claims
	where status = $1
	order by id
`
)

// ClaimRecord is the row mirrored for the invoice record-keeping service.
type ClaimRecord struct {
	ID           uint64
	FaceValue    int64
	DueDate      time.Time
	DebtorHash   string
	Holder       string
	Status       string
	AmountRepaid int64
	IssuedAt     time.Time
	FinancedAt   *time.Time
	SettledAt    *time.Time
}

func NewClaimRecord(claim domain.Claim, now time.Time) ClaimRecord {
	return ClaimRecord{
		ID:           claim.ID,
		FaceValue:    claim.FaceValue,
		DueDate:      claim.DueDate,
		DebtorHash:   claim.DebtorHash.String(),
		Holder:       claim.Holder,
		Status:       claim.Status(now),
		AmountRepaid: claim.AmountRepaid,
		IssuedAt:     claim.IssuedAt,
		FinancedAt:   claim.FinancedAt,
		SettledAt:    claim.SettledAt,
	}
}

type ClaimRepository struct {
	batchHandler BatchHandler
}

func NewClaimRepository(db BatchHandler) *ClaimRepository {
	return &ClaimRepository{batchHandler: db}
}

func scanClaim(r *ClaimRecord, scan func(...interface{}) error) error {
	var id int64
	err := scan(
		&id, &r.FaceValue, &r.DueDate, &r.DebtorHash, &r.Holder, &r.Status, &r.AmountRepaid, &r.IssuedAt, &r.FinancedAt, &r.SettledAt,
	)
	r.ID = uint64(id)
	return err
}

func readClaim(scan func(...interface{}) error) (interface{}, error) {
	r := ClaimRecord{}
	err := scanClaim(&r, scan)
	return &r, err
}

func readAllClaims(all interface{}, scan func(...interface{}) error) (interface{}, error) {
	r := ClaimRecord{}
	err := scanClaim(&r, scan)

	list := all.([]ClaimRecord)
	list = append(list, r)
	return list, err
}

func upsertClaimCommand(record ClaimRecord, now time.Time) sqlbatch.Command {
	return sqlbatch.Command{
		Query: sqlClaimUpsert,
		Args: []interface{}{
			int64(record.ID), record.FaceValue, record.DueDate, record.DebtorHash, record.Holder,
			record.Status, record.AmountRepaid, record.IssuedAt, record.FinancedAt, record.SettledAt, now,
		},
		Affect: 1,
	}
}

// UpsertAll mirrors the records in one transaction.
func (repo *ClaimRepository) UpsertAll(records []ClaimRecord, now time.Time) error {
	if len(records) == 0 {
		return nil
	}

	commands := make([]sqlbatch.Command, 0, len(records))
	for _, record := range records {
		commands = append(commands, upsertClaimCommand(record, now))
	}
	_, err := repo.batchHandler.Batch(&BatchOptionNormal, commands)
	return err
}

func (repo *ClaimRepository) Find(id uint64) (*ClaimRecord, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlClaimFind,
			Args:    []interface{}{int64(id)},
			ReadOne: readClaim,
		},
	})
	if err != nil {
		return nil, err
	}
	result, _ := results[0].(*ClaimRecord)
	return result, nil
}

func (repo *ClaimRepository) FindAllByStatus(status string) ([]ClaimRecord, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlClaimFindAllByStatus,
			Args:    []interface{}{status},
			Init:    make([]ClaimRecord, 0),
			ReadAll: readAllClaims,
		},
	})
	if err != nil {
		return nil, err
	}
	result, _ := results[0].([]ClaimRecord)
	return result, nil
}
