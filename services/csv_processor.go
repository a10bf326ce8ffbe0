package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"jiracsvimporter/models"
	"jiracsvimporter/utils"
)

var (
	// ErrEmptyCSV はヘッダー行が存在しない場合のエラーです
	ErrEmptyCSV = errors.New("CSVにヘッダー行がありません")
	// ErrHeaderCollision は重複排除後のヘッダー名が既存の列名と衝突した場合のエラーです
	ErrHeaderCollision = errors.New("重複排除後のヘッダー名が衝突しています")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVProcessor はCSVファイルの読み書きを担当します
type CSVProcessor struct{}

// NewCSVProcessor は新しいCSVプロセッサーを作成します
func NewCSVProcessor() *CSVProcessor {
	return &CSVProcessor{}
}

// DedupeHeaders は重複したヘッダーを一意な名前に書き換えたCSVを作成し、
// そのパスとヘッダー対応表を返します。2行目以降は元ファイルのバイト列をそのままコピーします。
func (p *CSVProcessor) DedupeHeaders(filePath string) (string, models.HeaderMapping, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("CSV読み込みエラー: %w", err)
	}

	hasBOM := bytes.HasPrefix(content, utf8BOM)
	body := bytes.TrimPrefix(content, utf8BOM)

	// encoding/csvは空行を読み飛ばすため、先頭行が空の場合は次の行をヘッダーと誤認しないようにエラーにする
	if bytes.HasPrefix(body, []byte("\n")) || bytes.HasPrefix(body, []byte("\r\n")) {
		return "", nil, fmt.Errorf("%s: 先頭行が空です: %w", filePath, ErrEmptyCSV)
	}

	// ヘッダー行のみCSVとして解析する (クォート内のカンマ・改行に対応)
	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("%s: %w", filePath, ErrEmptyCSV)
	}
	if err != nil {
		return "", nil, fmt.Errorf("ヘッダー解析エラー: %w", err)
	}

	offset := reader.InputOffset()
	headerRaw, rest := body[:offset], body[offset:]

	mapping, err := dedupeHeaderNames(headers)
	if err != nil {
		return "", nil, err
	}

	headerLine, err := encodeHeaderLine(mapping.DedupedNames(), headerRaw)
	if err != nil {
		return "", nil, err
	}

	outPath := dedupedPath(filePath)
	if err := writeDedupedFile(outPath, hasBOM, headerLine, rest); err != nil {
		return "", nil, err
	}

	utils.LogInfo("重複排除済みCSVを作成しました: %s (%d 列)", outPath, len(mapping))
	return outPath, mapping, nil
}

// dedupeHeaderNames は同名ヘッダーのi番目 (0始まり) を "<名前>_i" に書き換えます
func dedupeHeaderNames(headers []string) (models.HeaderMapping, error) {
	counts := make(map[string]int, len(headers))
	for _, h := range headers {
		counts[h]++
	}

	seen := make(map[string]int)
	used := make(map[string]bool, len(headers))
	mapping := make(models.HeaderMapping, 0, len(headers))

	for _, h := range headers {
		deduped := h
		if counts[h] > 1 {
			deduped = fmt.Sprintf("%s_%d", h, seen[h])
			seen[h]++
		}

		if used[deduped] || (deduped != h && counts[deduped] > 0) {
			return nil, fmt.Errorf("%w: %q", ErrHeaderCollision, deduped)
		}
		used[deduped] = true

		mapping = append(mapping, models.HeaderPair{Deduped: deduped, Original: h})
	}

	return mapping, nil
}

// encodeHeaderLine はヘッダー行をCSVとしてエンコードします。改行コードは元のヘッダー行に合わせます
func encodeHeaderLine(names []string, original []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.UseCRLF = bytes.HasSuffix(original, []byte("\r\n"))
	if err := writer.Write(names); err != nil {
		return nil, fmt.Errorf("ヘッダー書き込みエラー: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("ヘッダー書き込みエラー: %w", err)
	}

	line := buf.Bytes()
	if !bytes.HasSuffix(original, []byte("\n")) {
		// 元ファイルがヘッダー行のみで改行なしの場合
		line = bytes.TrimRight(line, "\r\n")
	}
	return line, nil
}

// writeDedupedFile は重複排除済みファイルを作成(または切り詰め)して書き込みます
func writeDedupedFile(path string, bom bool, header, rest []byte) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("CSVファイル作成エラー: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("CSVファイルクローズエラー: %w", cerr)
		}
	}()

	if bom {
		if _, err = file.Write(utf8BOM); err != nil {
			return fmt.Errorf("CSV書き込みエラー: %w", err)
		}
	}
	if _, err = file.Write(header); err != nil {
		return fmt.Errorf("ヘッダー書き込みエラー: %w", err)
	}
	if _, err = file.Write(rest); err != nil {
		return fmt.Errorf("行書き込みエラー: %w", err)
	}
	return nil
}

// dedupedPath は拡張子の直前に ".deduped" を挿入したパスを返します (foo.csv → foo.deduped.csv)
func dedupedPath(filePath string) string {
	ext := filepath.Ext(filePath)
	return strings.TrimSuffix(filePath, ext) + ".deduped" + ext
}

// ReadCSV は汎用CSVリーダーです。各行をヘッダー名→値のマップとして返します
func (p *CSVProcessor) ReadCSV(filePath string) ([]models.CSVRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("CSVオープンエラー: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV読み込みエラー: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", filePath, ErrEmptyCSV)
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], string(utf8BOM))
	}

	result := make([]models.CSVRecord, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(headers) {
			utils.LogDebug("行 %d: フィールド数が不一致（ヘッダー: %d, 行: %d）", i+2, len(headers), len(record))
		}

		rowData := make(models.CSVRecord, len(headers))
		for j := 0; j < min(len(headers), len(record)); j++ {
			rowData[headers[j]] = record[j]
		}
		result = append(result, rowData)
	}

	utils.LogInfo("CSVを読み込みました: %d 行", len(result))
	return result, nil
}
