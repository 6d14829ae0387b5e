package domain

type Memorable interface {
	ToJson() string
	FromJson(jstr string) error
}

type Memo struct {
	Key  string `json:"key"`
	Memo string `json:"memo"`
}

const (
	SnapshotMemoKey = "vault_snapshot"
)
