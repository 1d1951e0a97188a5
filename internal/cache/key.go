package cache

import (
	"crypto/sha1"
	"fmt"
	"os"

	"github.com/jmallik/capline/internal/caption"
)

// length of the truncated style digest; collisions only cost a stale
// cache hit, never a wrong failure
const signatureLength = 12

// DeriveKey combines the media content hash, the trim window and the
// style signature into the cache lookup key. It is pure: the same
// inputs always produce the same key.
//
// An empty window (or one with end <= start) contributes the literal
// "full" segment; otherwise start and end are encoded at millisecond
// precision so perceptually identical trims collide. A non-empty style
// signature is appended as its own segment; the signature is a hex
// digest and never empty, so a keyed style can never be mistaken for
// no style.
func DeriveKey(contentHash string, trim caption.TrimWindow, styleSig string) string {
	key := contentHash + ":" + trimSegment(trim)
	if styleSig != "" {
		key += ":" + styleSig
	}
	return key
}

func trimSegment(trim caption.TrimWindow) string {
	if trim.Empty() {
		return "full"
	}
	return fmt.Sprintf("%.3f-%.3f", trim.Start, trim.End)
}

// StyleSignature fingerprints the requested caption appearance. The
// signature is syntactic: two differently spelled but visually
// identical styles produce different signatures, which only costs a
// cache miss.
//
// When the style references a font file, the file's last-modified time
// is folded in, so editing the font on disk invalidates cached output
// even though its path is unchanged.
func StyleSignature(style caption.Style) string {
	marker := ""
	if style.Path != "" {
		marker = style.Path
		if info, err := os.Stat(style.Path); err == nil {
			marker = fmt.Sprintf("%s@%d", style.Path, info.ModTime().UnixNano())
		}
	}

	sum := sha1.Sum(fmt.Appendf(nil, "%s|%g|%s|%s|%s",
		style.Family, style.Size, style.Color, style.Weight, marker))
	return fmt.Sprintf("%x", sum)[:signatureLength]
}
