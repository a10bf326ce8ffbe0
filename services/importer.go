package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"jiracsvimporter/config"
	"jiracsvimporter/models"
	"jiracsvimporter/utils"
)

// JiraCSVImporter はJIRAのCSVエクスポートをインポート用のモデルに変換します
type JiraCSVImporter struct {
	config      *config.Config
	csvProc     *CSVProcessor
	transformer *RowTransformer
}

// NewJiraCSVImporter は新しいインポーターを作成します
func NewJiraCSVImporter(cfg *config.Config) *JiraCSVImporter {
	return &JiraCSVImporter{
		config:      cfg,
		csvProc:     NewCSVProcessor(),
		transformer: NewRowTransformer(cfg, JiraMarkdownConverter{}),
	}
}

// Name は表示用のインポーター名を返します
func (i *JiraCSVImporter) Name() string {
	return "Jira (CSV)"
}

// DefaultTeamName はインポート先の既定チーム名を返します
func (i *JiraCSVImporter) DefaultTeamName() string {
	return "Jira"
}

// Import はヘッダーの重複排除 → CSV読み込み → 変換を順に実行します
func (i *JiraCSVImporter) Import() (*models.ImportResult, error) {
	runID := uuid.NewString()
	startTime := time.Now()
	defer utils.TrackTime(startTime, "インポート "+runID)

	utils.LogInfo("インポートを開始します: run=%s, ファイル=%s", runID, i.config.CSVPath)

	dedupedPath, headers, err := i.csvProc.DedupeHeaders(i.config.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("ヘッダー重複排除エラー: %w", err)
	}
	utils.LogDebug("ヘッダー対応表: %v", headers)

	records, err := i.csvProc.ReadCSV(dedupedPath)
	if err != nil {
		return nil, fmt.Errorf("JIRA CSV読み込みエラー: %w", err)
	}

	return i.transformer.Transform(records, headers), nil
}
