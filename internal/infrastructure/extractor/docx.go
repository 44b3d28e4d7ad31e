package extractor

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	docxTextRun   = regexp.MustCompile(`<w:t[^>]*>(.*?)</w:t>`)
	docxParagraph = regexp.MustCompile(`</w:p>`)
)

// extractDOCX pulls the text runs out of the document XML. Paragraph
// closes become newlines so the chunker sees paragraph structure.
func extractDOCX(data []byte) (string, error) {
	reader, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer reader.Close()

	content := docxParagraph.ReplaceAllString(reader.Editable().GetContent(), "\n")

	var sb strings.Builder
	for _, paragraph := range strings.Split(content, "\n") {
		var text strings.Builder
		for _, match := range docxTextRun.FindAllStringSubmatch(paragraph, -1) {
			text.WriteString(decodeXMLEntities(match[1]))
		}
		if line := strings.TrimSpace(text.String()); line != "" {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	return collapseNewlines(sb.String()), nil
}

var xmlEntityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

func decodeXMLEntities(s string) string {
	return xmlEntityReplacer.Replace(s)
}
