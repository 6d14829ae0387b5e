package domain

import (
	"encoding/json"
	"time"
)

// VaultSnapshot is a consistent copy of the vault counters.
type VaultSnapshot struct {
	TotalSeniorShares     int64     `json:"total_senior_shares"`
	TotalJuniorShares     int64     `json:"total_junior_shares"`
	SeniorSupply          int64     `json:"senior_supply"`
	JuniorSupply          int64     `json:"junior_supply"`
	AssetsUnderManagement int64     `json:"assets_under_management"`
	TotalValueLocked      int64     `json:"total_value_locked"`
	FeeRate               int64     `json:"fee_rate"`
	FeesCollected         int64     `json:"fees_collected"`
	SeniorDistributed     int64     `json:"senior_distributed"`
	JuniorDistributed     int64     `json:"junior_distributed"`
	DeployedCapital       int64     `json:"deployed_capital"`
	Time                  time.Time `json:"time"`
}

func (obj *VaultSnapshot) ToJson() string {
	jstr, err := json.Marshal(obj)
	if err != nil {
		return err.Error()
	}
	return string(jstr)
}

func (obj *VaultSnapshot) FromJson(jstr string) error {
	err := json.Unmarshal([]byte(jstr), obj)
	return err
}

// VaultStats is what dashboards read about the vault.
type VaultStats struct {
	Snapshot      VaultSnapshot
	ClaimCount    int
	OverdueClaims int
	OverdueAmount int64
}
