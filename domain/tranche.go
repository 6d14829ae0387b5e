package domain

import (
	"fmt"
	"strings"
)

type Tranche int

// Values match the tranche enum of the web client.
const (
	Senior Tranche = 0
	Junior Tranche = 1
)

var (
	ErrorInvalidTranche = fmt.Errorf("tranche must be either 'senior' or 'junior'")
)

func TrancheOf(isSenior bool) Tranche {
	if isSenior {
		return Senior
	}
	return Junior
}

func ParseTranche(s string) (Tranche, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "senior":
		return Senior, nil
	case "junior":
		return Junior, nil
	}
	return Senior, ErrorInvalidTranche
}

func (t Tranche) IsSenior() bool {
	return t == Senior
}

func (t Tranche) String() string {
	if t == Senior {
		return "senior"
	}
	return "junior"
}

func (t Tranche) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tranche) UnmarshalText(text []byte) error {
	parsed, err := ParseTranche(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
