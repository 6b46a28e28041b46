package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Rendering journal page...":        "ジャーナルページをレンダリング中...",
		"Output saved to %s":               "出力を %s に保存しました",
		"Pipeline completed successfully":  "パイプラインが正常に完了しました",
		"Starting pipeline":                "パイプラインを開始します",
		"Interrupted, shutting down...":    "中断されました。シャットダウン中...",

		// Ingest stage
		"Skipping unreadable photo %d: %s": "読み込めない写真 %d をスキップします: %s",
		"Ingested %d photos, skipped %d":   "%d 枚の写真を取り込み、%d 枚をスキップしました",
		"Photo compression failed, keeping the original bytes": "写真の圧縮に失敗しました。元のバイト列を保持します",

		// Layout stage
		"Calculating layout":                        "レイアウトを計算中",
		"Layout calculated: %d blocks, %d images":   "レイアウト計算完了: テキスト %d 件, 画像 %d 件",

		// Compose stage
		"Skipping undecodable image %s: %s": "デコードできない画像 %s をスキップします: %s",

		// Export stage
		"Raster tier %d at %.0fx failed: %s":             "ラスター ティア %d (%.0f倍) が失敗しました: %s",
		"Encoding tier %d failed: %s":                    "ティア %d のエンコードに失敗しました: %s",
		"Export succeeded at tier %d (%.0fx, %d bytes)":  "ティア %d でエクスポート成功 (%.0f倍, %d バイト)",
		"PDF exported: %d pages, %d bytes":               "PDF エクスポート完了: %d ページ, %d バイト",

		// Persistence
		"Storage quota hit saving %q, retrying without image payloads": "%q の保存で容量制限に達しました。画像データなしで再試行します",
		"Discarding %q: unreadable meta entry":  "%q を破棄します: メタ情報を読み取れません",
		"Discarding %q: chunk %d of %d missing": "%q を破棄します: チャンク %d/%d が見つかりません",
		"Discarding %q: got %d bytes, meta says %d": "%q を破棄します: %d バイトを取得しましたが、メタ情報では %d バイトです",
		"Saved %q in %d chunks (%d bytes)":      "%q を %d チャンクで保存しました (%d バイト)",

		// Errors
		"Failed to write output: %s": "出力の書き込みに失敗しました: %s",
		"Failed to render: %s":       "レンダリングに失敗しました: %s",
		"Failed to export PDF: %s":   "PDF エクスポートに失敗しました: %s",
	})
}
