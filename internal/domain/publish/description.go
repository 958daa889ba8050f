package publish

import (
	"regexp"
	"strings"

	"github.com/yanqian/yogava/internal/domain/analysis"
	"github.com/yanqian/yogava/internal/domain/render"
)

const attribution = "posted using a lil script"

var youtubeID = regexp.MustCompile(`(?:youtube\.com/(?:[^/\n\s]+/\S+/|(?:v|e(?:mbed)?|shorts|live)/|\S*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// ExtractVideoID returns the 11 character YouTube id in url, or "" when url is
// not a recognised YouTube link.
func ExtractVideoID(url string) string {
	match := youtubeID.FindStringSubmatch(url)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}

// ComposeDescription lays out the activity description:
//
//	principles bars
//	<blank>
//	sparkline Intensity
//	<blank>
//	targets bars
//	<blank>
//	youtube video: <id>
//	posted using a lil script
func ComposeDescription(videoURL string, scores analysis.Scores, intensity []float64, width int) string {
	if width <= 0 {
		width = render.DefaultWidth
	}
	var b strings.Builder
	b.WriteString(render.Bars(scores.Principles, width))
	b.WriteString("\n")
	b.WriteString(render.Sparkline(intensity, width))
	b.WriteString(" Intensity\n\n")
	b.WriteString(render.Bars(scores.Targets, width))
	b.WriteString("\n")
	if id := ExtractVideoID(videoURL); id != "" {
		b.WriteString("youtube video: ")
		b.WriteString(id)
		b.WriteString("\n")
	}
	b.WriteString(attribution)
	b.WriteString("\n")
	return b.String()
}
