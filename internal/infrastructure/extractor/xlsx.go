package extractor

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pkozlov/docbuddy/internal/observability/logging"
)

// extractXLSX renders each sheet as tab-separated rows prefixed with
// the sheet name, which keeps table context readable for the model.
func extractXLSX(data []byte) (string, error) {
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}
	defer book.Close()

	var sb strings.Builder
	for _, sheet := range book.GetSheetList() {
		rows, err := book.GetRows(sheet)
		if err != nil {
			slog.Warn("skip unreadable sheet", slog.String("sheet", sheet), logging.Err(err))
			continue
		}
		if len(rows) == 0 {
			continue
		}

		sb.WriteString("Sheet: ")
		sb.WriteString(sheet)
		sb.WriteString("\n")
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, "\t"))
			if line != "" {
				sb.WriteString(line)
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}

	return collapseNewlines(sb.String()), nil
}
