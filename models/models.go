package models

import "github.com/shopspring/decimal"

// CSVRecord はCSVの1行を表します (重複排除後のヘッダー名→値のマップ)
type CSVRecord map[string]string

// HeaderPair は重複排除後のヘッダー名と元のヘッダー名の組です
type HeaderPair struct {
	Deduped  string `json:"deduped" yaml:"deduped"`
	Original string `json:"original" yaml:"original"`
}

// HeaderMapping は元の列順を保ったヘッダー対応表です
type HeaderMapping []HeaderPair

// DedupedNames は重複排除後のヘッダー名を列順に返します
func (m HeaderMapping) DedupedNames() []string {
	names := make([]string, len(m))
	for i, pair := range m {
		names[i] = pair.Deduped
	}
	return names
}

// Issue はインポート先のイシューを表します。
// Description・AssigneeID・Estimate はポインタで、nil は「値なし」を表します (空文字とは区別する)
type Issue struct {
	Title       string           `json:"title" yaml:"title"`
	Description *string          `json:"description,omitempty" yaml:"description,omitempty"`
	Status      string           `json:"status" yaml:"status"`
	Priority    int              `json:"priority" yaml:"priority"`
	URL         string           `json:"url" yaml:"url"`
	AssigneeID  *string          `json:"assigneeId,omitempty" yaml:"assigneeId,omitempty"`
	Labels      []string         `json:"labels" yaml:"labels"`
	Estimate    *decimal.Decimal `json:"estimate,omitempty" yaml:"estimate,omitempty"`
}

// Label はラベルを表します
type Label struct {
	Name string `json:"name" yaml:"name"`
}

// User はユーザーを表します
type User struct {
	Name string `json:"name" yaml:"name"`
}

// Status はステータスを表します
type Status struct {
	Name string `json:"name" yaml:"name"`
}

// ImportResult は変換結果の集約です
type ImportResult struct {
	Issues   []Issue           `json:"issues" yaml:"issues"`
	Labels   map[string]Label  `json:"labels" yaml:"labels"`
	Users    map[string]User   `json:"users" yaml:"users"`
	Statuses map[string]Status `json:"statuses" yaml:"statuses"`
}

// NewImportResult は空のImportResultを作成します
func NewImportResult() *ImportResult {
	return &ImportResult{
		Issues:   []Issue{},
		Labels:   make(map[string]Label),
		Users:    make(map[string]User),
		Statuses: make(map[string]Status),
	}
}

// AddIssue はイシューを末尾に追加します
func (r *ImportResult) AddIssue(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// AddLabel は未登録の場合のみラベルを追加します (先勝ち)
func (r *ImportResult) AddLabel(name string) {
	if _, ok := r.Labels[name]; !ok {
		r.Labels[name] = Label{Name: name}
	}
}

// AddUser は未登録の場合のみユーザーを追加します
func (r *ImportResult) AddUser(name string) {
	if _, ok := r.Users[name]; !ok {
		r.Users[name] = User{Name: name}
	}
}

// AddStatus は未登録の場合のみステータスを追加します
func (r *ImportResult) AddStatus(name string) {
	if _, ok := r.Statuses[name]; !ok {
		r.Statuses[name] = Status{Name: name}
	}
}
