package extractor

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func extractPlaintext(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid utf-8 text")
	}
	return strings.TrimSpace(string(data)), nil
}
