package deck

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Full rating scale - the marker sits at score/scale along the gauge line.
const scale = 4.0

var (
	spBlock  = regexp.MustCompile(`(?s)<p:sp>.*?</p:sp>`)
	cxnBlock = regexp.MustCompile(`(?s)<p:cxnSp>.*?</p:cxnSp>`)
	runText  = regexp.MustCompile(`<a:t>([^<]*)</a:t>`)
	phTag    = regexp.MustCompile(`<p:ph\b[^>]*/?>`)
	geomTag  = regexp.MustCompile(`<a:prstGeom prst="([^"]*)"`)
	offTag   = regexp.MustCompile(`<a:off x="(-?[0-9]+)" y="(-?[0-9]+)"\s*/>`)
	extTag   = regexp.MustCompile(`<a:ext cx="([0-9]+)" cy="([0-9]+)"\s*/>`)
	txBody   = regexp.MustCompile(`(?s)<p:txBody>.*?</p:txBody>`)
)

// shape is one drawable block of a slide part, with the fields needed to
// find the score box, the recommendations box, the gauge line and the
// marker circle.
type shape struct {
	raw         string
	text        string
	geom        string
	placeholder bool
	x, y        int64
	cx, cy      int64
	hasFrame    bool
	solid       bool
}

func parse(raw string) shape {
	sh := shape{
		raw:         raw,
		placeholder: phTag.MatchString(raw),
		solid:       strings.Contains(raw, "<a:solidFill>"),
	}

	text := []string{}
	for _, m := range runText.FindAllStringSubmatch(raw, -1) {
		text = append(text, unescape(m[1]))
	}
	sh.text = strings.Join(text, "")

	if m := geomTag.FindStringSubmatch(raw); m != nil {
		sh.geom = m[1]
	}

	off := offTag.FindStringSubmatch(raw)
	ext := extTag.FindStringSubmatch(raw)
	if off != nil && ext != nil {
		sh.x, _ = strconv.ParseInt(off[1], 10, 64)
		sh.y, _ = strconv.ParseInt(off[2], 10, 64)
		sh.cx, _ = strconv.ParseInt(ext[1], 10, 64)
		sh.cy, _ = strconv.ParseInt(ext[2], 10, 64)
		sh.hasFrame = true
	}

	return sh
}

func shapes(slide string) []shape {
	list := []shape{}
	for _, raw := range spBlock.FindAllString(slide, -1) {
		list = append(list, parse(raw))
	}

	return list
}

func connectors(slide string) []shape {
	list := []shape{}
	for _, raw := range cxnBlock.FindAllString(slide, -1) {
		list = append(list, parse(raw))
	}

	return list
}

// render rewrites one category slide: the score text box, the
// recommendations text box and the marker circle position.
func render(slide string, c Content) (string, error) {
	var score *shape
	var recommendations *shape

	for _, sh := range shapes(slide) {
		sh := sh
		if score == nil && strings.Contains(sh.text, "Your score") {
			score = &sh
		} else if recommendations == nil && strings.Contains(sh.text, "Recommendation 1") {
			recommendations = &sh
		}
	}

	if score != nil {
		replaced, err := setText(score.raw, []string{fmt.Sprintf("%.2f/4.0", c.Score)})
		if err != nil {
			return "", err
		}

		slide = strings.Replace(slide, score.raw, replaced, 1)
	}

	if recommendations != nil {
		paragraphs := []string{}
		for i, rec := range c.Recommendations {
			if i > 0 {
				paragraphs = append(paragraphs, "")
			}

			paragraphs = append(paragraphs, fmt.Sprintf("%d. %s", i+1, rec))
		}

		replaced, err := setText(recommendations.raw, paragraphs)
		if err != nil {
			return "", err
		}

		slide = strings.Replace(slide, recommendations.raw, replaced, 1)
	}

	return mark(slide, c.Score), nil
}

// mark moves the marker circle so its centre sits at score/scale along the
// widest line on the slide. Slides without a line or circle are left alone.
func mark(slide string, score float64) string {
	var line *shape
	var circle *shape

	blocks := append(shapes(slide), connectors(slide)...)

	for _, sh := range blocks {
		sh := sh
		if !sh.hasFrame {
			continue
		}

		if sh.geom == "line" || sh.geom == "straightConnector1" {
			if line == nil || sh.cx > line.cx {
				line = &sh
			}
		}
	}

	for _, sh := range blocks {
		sh := sh
		if !sh.hasFrame || !sh.solid || sh.geom != "ellipse" {
			continue
		}

		longest := math.Max(float64(sh.cx), float64(sh.cy))
		if longest == 0 || math.Abs(float64(sh.cx-sh.cy))/longest >= 0.2 {
			continue
		}

		if circle == nil {
			circle = &sh
			continue
		}

		if line != nil {
			axis := line.y + line.cy/2
			current := circle.y + circle.cy/2 - axis
			candidate := sh.y + sh.cy/2 - axis

			if abs(candidate) < abs(current) {
				circle = &sh
			}
		}
	}

	if line == nil || circle == nil {
		return slide
	}

	centreX := line.x + int64(float64(line.cx)*score/scale)
	centreY := line.y + line.cy/2

	moved := move(circle.raw, centreX-circle.cx/2, centreY-circle.cy/2)

	return strings.Replace(slide, circle.raw, moved, 1)
}

func setText(raw string, paragraphs []string) (string, error) {
	loc := txBody.FindStringIndex(raw)
	if loc == nil {
		return "", fmt.Errorf("shape has no text body")
	}

	var b strings.Builder
	b.WriteString("<p:txBody><a:bodyPr/><a:lstStyle/>")
	for _, p := range paragraphs {
		if p == "" {
			b.WriteString("<a:p/>")
		} else {
			b.WriteString("<a:p><a:r><a:t>")
			b.WriteString(escape(p))
			b.WriteString("</a:t></a:r></a:p>")
		}
	}
	b.WriteString("</p:txBody>")

	return raw[:loc[0]] + b.String() + raw[loc[1]:], nil
}

func move(raw string, x, y int64) string {
	loc := offTag.FindStringIndex(raw)
	if loc == nil {
		return raw
	}

	return raw[:loc[0]] + fmt.Sprintf(`<a:off x="%d" y="%d"/>`, x, y) + raw[loc[1]:]
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

var unescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

func escape(v string) string {
	return escaper.Replace(v)
}

func unescape(v string) string {
	return unescaper.Replace(v)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}

	return v
}
