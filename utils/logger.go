package utils

import (
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// ログレベル
const (
	LevelDebug = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	// DebugLogger はデバッグレベルのログを出力します
	DebugLogger *log.Logger
	// InfoLogger は情報レベルのログを出力します
	InfoLogger *log.Logger
	// WarnLogger は警告レベルのログを出力します
	WarnLogger *log.Logger
	// ErrorLogger はエラーレベルのログを出力します
	ErrorLogger *log.Logger

	level = LevelInfo
)

// init関数はパッケージがインポートされたときに自動的に実行されます
func init() {
	SetOutput(os.Stderr, os.Stderr)
}

// SetOutput はログの出力先を差し替えます (標準出力を結果出力に使うため既定は標準エラー)
func SetOutput(out, errOut io.Writer) {
	DebugLogger = log.New(out, "DEBUG: ", log.Ldate|log.Ltime)
	InfoLogger = log.New(out, "INFO: ", log.Ldate|log.Ltime)
	WarnLogger = log.New(out, "WARN: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(errOut, "ERROR: ", log.Ldate|log.Ltime)
}

// SetLevel は文字列からログレベルを設定します。未知の値はinfoです
func SetLevel(name string) {
	switch strings.ToLower(name) {
	case "debug":
		level = LevelDebug
	case "warn", "warning":
		level = LevelWarn
	case "error":
		level = LevelError
	default:
		level = LevelInfo
	}
}

// LogDebug はデバッグレベルのメッセージをログに記録します
func LogDebug(format string, v ...interface{}) {
	if level <= LevelDebug {
		DebugLogger.Printf(format, v...)
	}
}

// LogInfo は情報レベルのメッセージをログに記録します
func LogInfo(format string, v ...interface{}) {
	if level <= LevelInfo {
		InfoLogger.Printf(format, v...)
	}
}

// LogWarn は警告レベルのメッセージをログに記録します
func LogWarn(format string, v ...interface{}) {
	if level <= LevelWarn {
		WarnLogger.Printf(format, v...)
	}
}

// LogError はエラーレベルのメッセージをログに記録します
func LogError(format string, v ...interface{}) {
	ErrorLogger.Printf(format, v...)
}

// TrackTime は関数の実行時間を計測して出力するユーティリティです
func TrackTime(start time.Time, name string) {
	elapsed := time.Since(start)
	LogInfo("%s 完了時間: %s", name, elapsed)
}
