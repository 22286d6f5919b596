package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/nfse-ingest/constants"
)

// allowed reports whether path has an extension the extractor can read.
func allowed(path string, exts map[string]struct{}) bool {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if exts == nil {
		return constants.MapExtToFormat(ext) != ""
	}
	_, ok := exts[ext]
	return ok
}

// extSet builds a lookup set from user-supplied extensions; nil means every supported format.
func extSet(exts []string) map[string]struct{} {
	var out map[string]struct{}
	for _, e := range exts {
		e = constants.NormalizeExt(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if out == nil {
			out = map[string]struct{}{}
		}
		out[e] = struct{}{}
	}
	return out
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
