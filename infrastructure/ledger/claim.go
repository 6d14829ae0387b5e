package ledger

import (
	"fmt"
	"sort"
	"sync"
	"time"
	"vault/domain"

	"golang.org/x/crypto/sha3"
)

// ClaimRegistry issues claims (invoices) and keeps their financing state.
// Claims are bound to their holder: transfers are always rejected.
type ClaimRegistry struct {
	mu      sync.RWMutex
	admin   string
	issuers map[string]bool
	claims  map[uint64]*domain.Claim
	nextID  uint64
	now     func() time.Time
	onIssue func(domain.Claim)
}

func NewClaimRegistry(admin string, now func() time.Time) *ClaimRegistry {
	if now == nil {
		now = time.Now
	}
	return &ClaimRegistry{
		admin:   admin,
		issuers: map[string]bool{admin: true},
		claims:  make(map[uint64]*domain.Claim),
		now:     now,
	}
}

// OnIssue registers a callback receiving every newly issued claim.
func (r *ClaimRegistry) OnIssue(fn func(domain.Claim)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onIssue = fn
}

func (r *ClaimRegistry) GrantIssuer(caller, account string) error {
	if caller != r.admin {
		return fmt.Errorf("%w: %v is not the registry admin", domain.ErrorUnauthorized, caller)
	}
	if account == "" {
		return domain.ErrorInvalidAccount
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.issuers[account] = true
	return nil
}

func (r *ClaimRegistry) IsIssuer(account string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.issuers[account]
}

// HashDebtor returns the keccak-256 digest identifying a debtor.
func HashDebtor(debtorID string) domain.DebtorHash {
	var h domain.DebtorHash
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(debtorID))
	copy(h[:], hasher.Sum(nil))
	return h
}

func (r *ClaimRegistry) Issue(issuer, holder string, faceValue int64, dueDate time.Time, debtorID string) (domain.Claim, error) {
	r.mu.Lock()

	if !r.issuers[issuer] {
		r.mu.Unlock()
		return domain.Claim{}, fmt.Errorf("%w: %v may not issue claims", domain.ErrorUnauthorized, issuer)
	}
	if holder == "" {
		r.mu.Unlock()
		return domain.Claim{}, fmt.Errorf("%w: issue to empty holder", domain.ErrorInvalidAccount)
	}
	if faceValue <= 0 {
		r.mu.Unlock()
		return domain.Claim{}, fmt.Errorf("%w: face value must be positive", domain.ErrorInvalidAmount)
	}
	now := r.now()
	if !dueDate.After(now) {
		r.mu.Unlock()
		return domain.Claim{}, domain.ErrorInvalidDueDate
	}

	claim := &domain.Claim{
		ID:         r.nextID,
		FaceValue:  faceValue,
		DueDate:    dueDate,
		DebtorHash: HashDebtor(debtorID),
		Holder:     holder,
		IssuedAt:   now,
	}
	r.claims[claim.ID] = claim
	r.nextID++

	issued := *claim
	onIssue := r.onIssue
	r.mu.Unlock()

	if onIssue != nil {
		onIssue(issued)
	}
	return issued, nil
}

func (r *ClaimRegistry) Get(id uint64) (domain.Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	claim, exist := r.claims[id]
	if !exist {
		return domain.Claim{}, fmt.Errorf("%w: invalid claim id %v", domain.ErrorNotFound, id)
	}
	return *claim, nil
}

func (r *ClaimRegistry) NextID() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextID
}

// List returns all claims ordered by id.
func (r *ClaimRegistry) List() []domain.Claim {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]domain.Claim, 0, len(r.claims))
	for _, claim := range r.claims {
		res = append(res, *claim)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].ID < res[j].ID
	})
	return res
}

// Overdue returns the financed, unsettled claims past their due date.
func (r *ClaimRegistry) Overdue(now time.Time) []domain.Claim {
	res := make([]domain.Claim, 0)
	for _, claim := range r.List() {
		if claim.IsOverdue(now) {
			res = append(res, claim)
		}
	}
	return res
}

func (r *ClaimRegistry) Transfer(from, to string, id uint64) error {
	if _, err := r.Get(id); err != nil {
		return err
	}
	return domain.ErrorTransfersDisabled
}

func (r *ClaimRegistry) MarkFinanced(id uint64, at time.Time) (domain.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	claim, exist := r.claims[id]
	if !exist {
		return domain.Claim{}, fmt.Errorf("%w: invalid claim id %v", domain.ErrorNotFound, id)
	}
	if err := claim.CheckFinanceable(); err != nil {
		return *claim, err
	}
	claim.Financed = true
	claim.FinancedAt = &at
	return *claim, nil
}

func (r *ClaimRegistry) RecordRepayment(id uint64, amount int64, at time.Time) (domain.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	claim, exist := r.claims[id]
	if !exist {
		return domain.Claim{}, fmt.Errorf("%w: invalid claim id %v", domain.ErrorNotFound, id)
	}
	if err := claim.CheckRepayment(amount); err != nil {
		return *claim, err
	}
	claim.AmountRepaid += amount
	if claim.IsSettled() {
		claim.SettledAt = &at
	}
	return *claim, nil
}
