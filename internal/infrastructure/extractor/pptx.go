package extractor

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	pptxSlidePath = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	pptxTextRun   = regexp.MustCompile(`<a:t[^>]*>(.*?)</a:t>`)
	pptxParagraph = regexp.MustCompile(`</a:p>`)
)

// extractPPTX reads the slide XML out of the archive and pulls the
// drawing text runs, the same way extractDOCX handles word runs.
// Slides are blank-line separated so the chunker keeps them apart.
func extractPPTX(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pptx: %w", err)
	}

	type slide struct {
		number int
		text   string
	}
	var slides []slide
	for _, file := range archive.File {
		match := pptxSlidePath.FindStringSubmatch(file.Name)
		if match == nil {
			continue
		}
		number, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		content, err := readZipFile(file)
		if err != nil {
			return "", fmt.Errorf("read slide %d: %w", number, err)
		}
		if text := slideText(content); text != "" {
			slides = append(slides, slide{number: number, text: text})
		}
	}

	// Archive entries carry no ordering guarantee.
	sort.Slice(slides, func(i, j int) bool { return slides[i].number < slides[j].number })

	var sb strings.Builder
	for _, s := range slides {
		sb.WriteString(s.text)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(collapseNewlines(sb.String())), nil
}

func slideText(xml string) string {
	var sb strings.Builder
	for _, paragraph := range pptxParagraph.Split(xml, -1) {
		var text strings.Builder
		for _, match := range pptxTextRun.FindAllStringSubmatch(paragraph, -1) {
			text.WriteString(decodeXMLEntities(match[1]))
		}
		if line := strings.TrimSpace(text.String()); line != "" {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return strings.TrimSpace(sb.String())
}

func readZipFile(file *zip.File) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
