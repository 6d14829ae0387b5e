package domain

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StepDeposit       = "deposit"
	StepWithdraw      = "withdraw"
	StepDistribute    = "distribute"
	StepIssue         = "issue"
	StepFinance       = "finance"
	StepRepay         = "repay"
	StepTransferClaim = "transfer_claim"
	StepAdvance       = "advance"
)

var (
	ErrorUnknownStep      = fmt.Errorf("unknown scenario step")
	ErrorScenarioMismatch = fmt.Errorf("scenario does not match the configured vault")
)

// Scenario is a scripted sequence of vault operations, read from YAML.
// Amounts are human amounts of the unit of account ("1000.50").
type Scenario struct {
	FeeRate      *int64            `yaml:"fee_bps"`
	Vault        string            `yaml:"vault"`
	Admin        string            `yaml:"admin"`
	Distributors []string          `yaml:"distributors"`
	Accounts     map[string]string `yaml:"accounts"`
	Steps        []ScenarioStep    `yaml:"steps"`
}

type ScenarioStep struct {
	Op          string        `yaml:"op"`
	Account     string        `yaml:"account"`
	Amount      string        `yaml:"amount"`
	Tranche     string        `yaml:"tranche"`
	Claim       uint64        `yaml:"claim"`
	Holder      string        `yaml:"holder"`
	Debtor      string        `yaml:"debtor"`
	DueIn       time.Duration `yaml:"due_in"`
	ExpectError string        `yaml:"expect_error"`
}

func ReadScenario(r io.Reader) (*Scenario, error) {
	scenario := &Scenario{}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(scenario); err != nil {
		return nil, err
	}

	for i, step := range scenario.Steps {
		switch step.Op {
		case StepDeposit, StepWithdraw, StepDistribute, StepIssue, StepFinance, StepRepay, StepTransferClaim, StepAdvance:
		default:
			return nil, fmt.Errorf("%w: step #%d '%v'", ErrorUnknownStep, i, step.Op)
		}
	}
	return scenario, nil
}
