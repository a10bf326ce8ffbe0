package services

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"jiracsvimporter/config"
	"jiracsvimporter/models"
	"jiracsvimporter/utils"
)

// WriteResult は変換結果を指定フォーマットで書き出します
func WriteResult(w io.Writer, result *models.ImportResult, format string) error {
	switch format {
	case config.FormatJSON, "":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("JSONエンコードエラー: %w", err)
		}
	case config.FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("YAMLエンコードエラー: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("YAMLエンコードエラー: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", config.ErrUnsupportedFormat, format)
	}
	return nil
}

// WriteResultFile は変換結果をファイルに保存します。pathが空の場合は標準出力に書き出します
func WriteResultFile(path string, result *models.ImportResult, format string) (err error) {
	if path == "" {
		return WriteResult(os.Stdout, result, format)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("出力ファイル作成エラー: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("出力ファイルクローズエラー: %w", cerr)
		}
	}()

	if err := WriteResult(file, result, format); err != nil {
		return err
	}

	utils.LogInfo("変換結果を保存しました: %s", path)
	return nil
}
