package constants

import "strings"

// Source formats produced by the text extraction adapter.
const (
	FormatText = "TEXT"
	FormatJSON = "JSON"
	FormatXML  = "XML"
	FormatXLSX = "XLSX"
	FormatPDF  = "PDF"
)

// allowedExtensions maps supported file extensions to their source format.
var allowedExtensions = map[string]string{
	"txt":  FormatText,
	"json": FormatJSON,
	"xml":  FormatXML,
	"xlsx": FormatXLSX,
	"pdf":  FormatPDF,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the source format for ext, or "" when unsupported.
func MapExtToFormat(ext string) string {
	return allowedExtensions[NormalizeExt(ext)]
}
