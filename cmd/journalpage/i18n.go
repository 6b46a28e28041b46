// Package main provides localization for the journalpage CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Lay out and render travel journal pages from photos and text": "写真とテキストから旅行ジャーナルページをレイアウト・レンダリング",

		// Render command
		"Render a journal page to PNG or JPEG": "ジャーナルページをPNGまたはJPEGにレンダリング",

		// PDF command
		"Render a journal page as a multi-page A4 PDF": "ジャーナルページを複数ページのA4 PDFとしてレンダリング",

		// Palette command
		"Extract a color palette from photos": "写真からカラーパレットを抽出",
		"Number of palette colors":            "パレットの色数",

		// Version command
		"Show version information":  "バージョン情報を表示",
		"journalpage version %s":    "journalpage バージョン %s",

		// Flags
		"YAML configuration file":                          "YAML設定ファイル",
		"Output file path (default: date-stamped name)":    "出力ファイルパス（デフォルト: 日付入りの名前）",
		"Journal date (YYYY-MM-DD, default: today)":        "ジャーナルの日付（YYYY-MM-DD、デフォルト: 今日）",
		"Location line text":                               "場所行のテキスト",
		"Body text; blank lines separate paragraphs":       "本文テキスト。空行が段落を区切ります",
		"Read body text from a file":                       "本文テキストをファイルから読み込む",
		"Layout mode (standard, mirrored, freeflow)":       "レイアウトモード（standard, mirrored, freeflow）",
		"Location color (hex); skips palette extraction":   "場所の色（16進数）。パレット抽出をスキップします",
		"Path to a TTF font file":                          "TTFフォントファイルのパス",
		"Background template image path":                   "背景テンプレート画像のパス",
		"Enable debug output":                              "デバッグ出力を有効化",
		"Directory for debug output":                       "デバッグ出力のディレクトリ",
		"Log level (debug, info, warn, error)":             "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                          "全てのログ出力を抑制",

		// Runtime messages
		"Rendering journal page...":            "ジャーナルページをレンダリング中...",
		"Output saved to %s":                   "出力を %s に保存しました",
		"Interrupted, shutting down...":        "中断されました。シャットダウン中...",
		"Pages: %d":                            "ページ数: %d",
		"Rendered at degraded quality tier %d": "品質ティア %d に低下してレンダリングしました",
		"Skipped %d unreadable photos":         "読み込めない写真 %d 枚をスキップしました",
	})
}
