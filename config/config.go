package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"jiracsvimporter/utils"
)

// 設定キー (フラグ名と共通)
const (
	KeyInput     = "input"
	KeyOrg       = "org"
	KeyJiraURL   = "jira-url"
	KeyOutput    = "output"
	KeyFormat    = "format"
	KeyLogLevel  = "log-level"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	defaultLevel = "info"
)

var (
	ErrMissingFilePath     = errors.New("入力CSVファイルのパスが指定されていません")
	ErrMissingJiraLocation = errors.New("JIRA組織名またはJIRAのURLが必要です")
	ErrUnsupportedFormat   = errors.New("未対応の出力フォーマットです")
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// 入力ファイル
	CSVPath string

	// JIRAの場所 (OrgSlugが優先)
	OrgSlug       string
	CustomJiraURL string

	// 出力設定
	OutputPath   string
	OutputFormat string

	LogLevel string
}

// PriorityMapping はJIRAの優先度から数値優先度へのマッピングです
var PriorityMapping = map[string]int{
	"Highest": 1,
	"High":    2,
	"Medium":  3,
	"Low":     4,
	"Lowest":  0,
}

// MapPriority はJIRAの優先度を数値に変換します。未知の値は0です
func MapPriority(priority string) int {
	return PriorityMapping[priority]
}

// envBindings は設定キーと環境変数の対応です
var envBindings = map[string]string{
	KeyInput:    "JIRA_CSV_PATH",
	KeyOrg:      "JIRA_ORG_SLUG",
	KeyJiraURL:  "JIRA_CUSTOM_URL",
	KeyOutput:   "IMPORT_OUTPUT",
	KeyFormat:   "IMPORT_FORMAT",
	KeyLogLevel: "LOG_LEVEL",
}

// NewViper は環境変数とデフォルト値を設定したviperを作成します
func NewViper() *viper.Viper {
	// .envファイルを読み込む (存在しない場合は何もしない)
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		utils.LogWarn(".envファイルの読み込みに失敗しました: %v", err)
	}

	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			utils.LogWarn("環境変数 %s のバインドに失敗しました: %v", env, err)
		}
	}

	v.SetDefault(KeyFormat, FormatJSON)
	v.SetDefault(KeyLogLevel, defaultLevel)
	return v
}

// FromViper はviperの値からConfigを組み立てます
func FromViper(v *viper.Viper) *Config {
	return &Config{
		CSVPath:       v.GetString(KeyInput),
		OrgSlug:       strings.TrimSpace(v.GetString(KeyOrg)),
		CustomJiraURL: strings.TrimRight(v.GetString(KeyJiraURL), "/"),
		OutputPath:    v.GetString(KeyOutput),
		OutputFormat:  strings.ToLower(v.GetString(KeyFormat)),
		LogLevel:      strings.ToLower(v.GetString(KeyLogLevel)),
	}
}

// Validate はインポートに必要な設定が揃っているか確認します
func (c *Config) Validate() error {
	if c.CSVPath == "" {
		return ErrMissingFilePath
	}
	if c.OrgSlug == "" && c.CustomJiraURL == "" {
		return ErrMissingJiraLocation
	}
	switch c.OutputFormat {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, c.OutputFormat)
	}
	return nil
}

// IssueURL は元のJIRAイシューのURLを組み立てます
func (c *Config) IssueURL(issueKey string) string {
	if c.OrgSlug != "" {
		return fmt.Sprintf("https://%s.atlassian.net/browse/%s", c.OrgSlug, issueKey)
	}
	return fmt.Sprintf("%s/browse/%s", c.CustomJiraURL, issueKey)
}
