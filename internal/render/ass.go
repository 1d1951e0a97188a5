package render

import (
	"fmt"
	"strings"

	"github.com/jmallik/capline/internal/caption"
	"github.com/jmallik/capline/internal/layout"
)

// buildASS renders chunks into an Advanced SubStation Alpha document.
// One Default style carries the resolved font; per-chunk sizes from the
// layout fitter are applied as inline overrides so each caption keeps
// the size that was measured for it.
func buildASS(chunks []caption.Chunk, layouts []layout.Result, fontName string, style caption.Style, playResX, playResY int) string {
	var sb strings.Builder

	baseSize := int(style.Size)
	if baseSize <= 0 {
		baseSize = 48
	}
	bold := 0
	if strings.EqualFold(style.Weight, "bold") {
		bold = -1
	}

	// script info section
	sb.WriteString("[Script Info]\n")
	sb.WriteString("Title: capline captions\n")
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString(fmt.Sprintf("PlayResX: %d\n", playResX))
	sb.WriteString(fmt.Sprintf("PlayResY: %d\n", playResY))
	sb.WriteString("WrapStyle: 0\n")
	sb.WriteString("ScaledBorderAndShadow: yes\n\n")

	// v4+ styles section
	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	sb.WriteString(fmt.Sprintf("Style: Default,%s,%d,%s,%s,&H00000000,&H80000000,%d,0,0,0,100,100,0,0,1,2,1,5,10,10,10,1\n\n",
		fontName, baseSize, assColor(style.Color), assColor(style.Color), bold))

	// events section
	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for i, chunk := range chunks {
		text := escapeASSText(chunk.Text)
		if i < len(layouts) && int(layouts[i].Size) != baseSize {
			text = fmt.Sprintf("{\\fs%d}%s", int(layouts[i].Size), text)
		}
		sb.WriteString(fmt.Sprintf("Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			formatASSTime(chunk.Start),
			formatASSTime(chunk.End),
			text))
	}

	return sb.String()
}

// formats seconds as ASS h:mm:ss.cc
func formatASSTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	centis := int(seconds*100 + 0.5)
	hours := centis / 360000
	minutes := (centis / 6000) % 60
	secs := (centis / 100) % 60
	cs := centis % 100

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, cs)
}

func escapeASSText(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, "{", "\\{")
	text = strings.ReplaceAll(text, "}", "\\}")
	return strings.ReplaceAll(text, "\n", "\\N")
}

// assColor converts a color name or #RRGGBB value to ASS &HAABBGGRR.
// Unrecognized colors fall back to white rather than failing a render.
func assColor(color string) string {
	named := map[string]string{
		"white":  "FFFFFF",
		"black":  "000000",
		"red":    "FF0000",
		"green":  "00FF00",
		"blue":   "0000FF",
		"yellow": "FFFF00",
		"cyan":   "00FFFF",
	}

	hex := ""
	c := strings.ToLower(strings.TrimSpace(color))
	if v, ok := named[c]; ok {
		hex = v
	} else if strings.HasPrefix(c, "#") && len(c) == 7 {
		hex = strings.ToUpper(c[1:])
	}
	if hex == "" {
		hex = "FFFFFF"
	}

	// ASS stores BGR, not RGB
	return fmt.Sprintf("&H00%s%s%s", hex[4:6], hex[2:4], hex[0:2])
}
