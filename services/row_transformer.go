package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"jiracsvimporter/config"
	"jiracsvimporter/models"
	"jiracsvimporter/utils"
)

// JIRA CSVの列名
const (
	colSummary     = "Summary"
	colDescription = "Description"
	colStatus      = "Status"
	colPriority    = "Priority"
	colIssueKey    = "Issue key"
	colIssueType   = "Issue Type"
	colAssignee    = "Assignee"
	colCreator     = "Creator"
	colStoryPoints = "Custom field (Story Points)"
)

// labelColumns はそのまま "_jira_<列名>: <値>" 形式のラベルにする列です (この順で付与)
var labelColumns = []string{
	"Release",
	colCreator,
	"Created",
	colAssignee,
	colIssueKey,
	"Issue id",
	"Parent id",
}

// specialColumn は元のヘッダー名で判定する特殊列のラベル規則です
type specialColumn struct {
	prefix string
	// suppress がtrueを返した場合ラベルを付与しない
	suppress func(row models.CSVRecord, value string) bool
}

// specialColumns は元ヘッダー名 → ラベル規則の対応表です
var specialColumns = map[string]specialColumn{
	"Outward issue link (Blocks)":    {prefix: "_jira_blocks_key: "},
	"Outward issue link (Relates)":   {prefix: "_jira_related_key: "},
	"Outward issue link (Duplicate)": {prefix: "_jira_dupe_key: "},
	"Watchers": {
		prefix: "_jira_watcher: ",
		// 作成者自身のウォッチャーラベルは冗長なので付けない
		suppress: func(row models.CSVRecord, value string) bool {
			return value == row[colCreator]
		},
	},
	"Labels": {prefix: ""},
}

// RowTransformer はCSVの各行をインポート用のモデルに変換します
type RowTransformer struct {
	config    *config.Config
	converter MarkupConverter
}

// NewRowTransformer は新しい変換器を作成します。converterがnilの場合はJIRA記法の既定変換を使います
func NewRowTransformer(cfg *config.Config, converter MarkupConverter) *RowTransformer {
	if converter == nil {
		converter = JiraMarkdownConverter{}
	}
	return &RowTransformer{
		config:    cfg,
		converter: converter,
	}
}

// Transform は全行を変換してImportResultを返します
func (t *RowTransformer) Transform(records []models.CSVRecord, headers models.HeaderMapping) *models.ImportResult {
	utils.LogInfo("JIRAデータをインポート形式に変換しています...")

	result := models.NewImportResult()

	// ユーザーとステータスはイシューより先に登録する (空文字の担当者も1ユーザーとして扱う)
	for _, record := range records {
		if assignee, ok := record[colAssignee]; ok {
			result.AddUser(assignee)
		}
		// 短い行でStatus列がなくてもイシューは空文字のステータスを持つので必ず登録する
		result.AddStatus(record[colStatus])
	}

	for i, record := range records {
		issue := t.buildIssue(record, headers)
		result.AddIssue(issue)

		for _, label := range issue.Labels {
			result.AddLabel(label)
		}

		// 進捗を表示（大量データの場合）
		if i > 0 && i%100 == 0 {
			utils.LogInfo("処理中... %d/%d 行完了", i, len(records))
		}
	}

	utils.LogInfo("変換完了: イシュー=%d, ラベル=%d, ユーザー=%d, ステータス=%d",
		len(result.Issues), len(result.Labels), len(result.Users), len(result.Statuses))
	return result
}

// buildIssue は1行からイシューを組み立てます
func (t *RowTransformer) buildIssue(record models.CSVRecord, headers models.HeaderMapping) models.Issue {
	url := t.config.IssueURL(record[colIssueKey])

	issue := models.Issue{
		Title:       record[colSummary],
		Description: t.buildDescription(record[colDescription], url),
		Status:      record[colStatus],
		Priority:    config.MapPriority(record[colPriority]),
		URL:         url,
		Labels:      buildLabels(record, headers),
		Estimate:    parseEstimate(record),
	}

	if assignee := record[colAssignee]; assignee != "" {
		issue.AssigneeID = ptr(assignee)
	}

	return issue
}

// buildDescription はMarkdownに変換した本文の末尾に元イシューへのリンクを付けます
func (t *RowTransformer) buildDescription(description, url string) *string {
	footer := ""
	if url != "" {
		footer = fmt.Sprintf("[View original issue in Jira](%s)", url)
	}

	var text string
	switch {
	case description != "" && footer != "":
		text = t.converter.ToMarkdown(description) + "\n\n" + footer
	case description != "":
		text = t.converter.ToMarkdown(description)
	case footer != "":
		text = footer
	default:
		return nil
	}
	return ptr(text)
}

// ptr は任意項目 (nil = 値なし) 用のポインタを返します
func ptr[T any](v T) *T {
	return &v
}

// buildLabels はイシュー種別・メタデータ列・特殊列からラベルを作成します
func buildLabels(record models.CSVRecord, headers models.HeaderMapping) []string {
	labels := []string{"Type: " + record[colIssueType]}

	for _, column := range labelColumns {
		if value := record[column]; value != "" {
			labels = append(labels, columnLabelPrefix(column)+value)
		}
	}

	// 同名の列が複数ある場合もそれぞれ処理する
	for _, header := range headers {
		rule, ok := specialColumns[header.Original]
		if !ok {
			continue
		}

		value := record[header.Deduped]
		if value == "" {
			continue
		}
		if rule.suppress != nil && rule.suppress(record, value) {
			continue
		}
		labels = append(labels, rule.prefix+value)
	}

	return labels
}

// columnLabelPrefix は列名から "_jira_<小文字・アンダースコア区切り>: " を作ります
func columnLabelPrefix(column string) string {
	return "_jira_" + strings.ToLower(strings.ReplaceAll(column, " ", "_")) + ": "
}

// parseEstimate はストーリーポイント列を読み取ります
func parseEstimate(record models.CSVRecord) *decimal.Decimal {
	value := strings.TrimSpace(record[colStoryPoints])
	if value == "" {
		return nil
	}

	estimate, err := decimal.NewFromString(value)
	if err != nil {
		utils.LogWarn("ストーリーポイント変換エラー %s: '%s'", record[colIssueKey], value)
		return nil
	}
	return &estimate
}
