package transcript

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/asticode/go-astisub"
)

var inlineTag = regexp.MustCompile(`<[^>]*>`)

// ConvertVTT turns WebVTT captions into an SRT document and the plain
// dialogue text. Consecutive repeated lines, which rolling auto captions
// produce, appear once in the text.
func ConvertVTT(vtt []byte) (srt []byte, text string, err error) {
	subs, err := astisub.ReadFromWebVTT(bytes.NewReader(vtt))
	if err != nil {
		return nil, "", fmt.Errorf("parse webvtt: %w", err)
	}

	var buf bytes.Buffer
	if err := subs.WriteToSRT(&buf); err != nil {
		return nil, "", fmt.Errorf("write srt: %w", err)
	}
	return buf.Bytes(), dialogue(subs), nil
}

func dialogue(subs *astisub.Subtitles) string {
	var (
		lines    []string
		previous string
	)
	for _, item := range subs.Items {
		for _, line := range item.Lines {
			text := cleanLine(line.String())
			if text == "" || text == previous {
				continue
			}
			lines = append(lines, text)
			previous = text
		}
	}
	return strings.Join(lines, "\n")
}

func cleanLine(raw string) string {
	return strings.Join(strings.Fields(inlineTag.ReplaceAllString(raw, "")), " ")
}
