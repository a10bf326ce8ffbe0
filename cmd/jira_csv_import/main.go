package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jiracsvimporter/config"
	"jiracsvimporter/services"
	"jiracsvimporter/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		utils.LogError("%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()

	root := &cobra.Command{
		Use:   "jira_csv_import",
		Short: "JIRA CSV → インポート用データ 変換ツール",
		Long: `JIRAからエクスポートしたCSVを読み込み、イシュー・ラベル・ユーザー・ステータスに変換します。

環境変数 (.envも可):
  JIRA_CSV_PATH       入力するJIRA CSVファイルのパス
  JIRA_ORG_SLUG       JIRA Cloudの組織名 (https://<組織名>.atlassian.net)
  JIRA_CUSTOM_URL     組織名がない場合に使うJIRAのURL
  IMPORT_OUTPUT       変換結果の出力先 (未指定なら標準出力)
  IMPORT_FORMAT       出力フォーマット json|yaml (デフォルト: json)
  LOG_LEVEL           ログレベル debug|info|warn|error (デフォルト: info)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String(config.KeyInput, "", "入力するJIRA CSVファイル")
	flags.String(config.KeyOrg, "", "JIRA Cloudの組織名")
	flags.String(config.KeyJiraURL, "", "JIRAのURL (組織名がない場合)")
	flags.String(config.KeyOutput, "", "変換結果の出力先")
	flags.String(config.KeyFormat, config.FormatJSON, "出力フォーマット (json|yaml)")
	flags.String(config.KeyLogLevel, "info", "ログレベル")
	bindFlags(v, root, config.KeyInput, config.KeyOrg, config.KeyJiraURL, config.KeyOutput, config.KeyFormat, config.KeyLogLevel)

	root.AddCommand(newImportCmd(v), newDedupeCmd(v))
	return root
}

// bindFlags はフラグをviperに結び付けます。失敗したフラグは無視されるため警告を出します
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys ...string) {
	for _, key := range keys {
		if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(key)); err != nil {
			utils.LogWarn("フラグ --%s のバインドに失敗しました: %v", key, err)
		}
	}
}

func newImportCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "JIRA CSVを変換して結果を出力します",
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime := time.Now()

			cfg := config.FromViper(v)
			utils.SetLevel(cfg.LogLevel)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("設定エラー: %w", err)
			}

			importer := services.NewJiraCSVImporter(cfg)
			utils.LogInfo("%s インポーター (チーム: %s)", importer.Name(), importer.DefaultTeamName())

			result, err := importer.Import()
			if err != nil {
				return err
			}

			if err := services.WriteResultFile(cfg.OutputPath, result, cfg.OutputFormat); err != nil {
				return fmt.Errorf("変換結果の書き込みエラー: %w", err)
			}

			utils.LogInfo("変換が完了しました: %d 件のイシューを処理しました。処理時間: %s", len(result.Issues), time.Since(startTime))
			return nil
		},
	}
}

func newDedupeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe",
		Short: "重複したヘッダーを一意にしたCSVのみ作成します",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromViper(v)
			utils.SetLevel(cfg.LogLevel)
			if cfg.CSVPath == "" {
				return config.ErrMissingFilePath
			}

			outPath, mapping, err := services.NewCSVProcessor().DedupeHeaders(cfg.CSVPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, outPath)
			for _, pair := range mapping {
				if pair.Deduped != pair.Original {
					fmt.Fprintf(out, "%s <- %s\n", pair.Deduped, pair.Original)
				}
			}
			return nil
		},
	}
}
