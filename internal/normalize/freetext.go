package normalize

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/nfse-ingest/constants"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// textPattern captures one canonical field from free text. The first
// submatch is the value.
type textPattern struct {
	name    string
	re      *regexp.Regexp
	section constants.Section
	target  string
}

var textPatterns = []textPattern{
	{"cnpj", regexp.MustCompile(`(?i)CNPJ[:\s]*(\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2})`), constants.SectionPrestador, "cnpj"},
	{"cpf", regexp.MustCompile(`(?i)CPF[:\s]*(\d{3}\.\d{3}\.\d{3}-\d{2})`), constants.SectionTomador, "cpf_cnpj"},
	{"numero_nota", regexp.MustCompile(`(?i)(?:N[FºoO]|Nota|NOTA)[:\s#]*(\d+)`), constants.SectionNota, "numero"},
	{"valor", regexp.MustCompile(`(?i)(?:VALOR|Total|R\$)[:\s]*R?\$?\s*([\d.,]+)`), constants.SectionServico, "valor_servico"},
	{"data", regexp.MustCompile(`(?i)(?:Data|Emissão)[:\s]*(\d{2}/\d{2}/\d{4})`), constants.SectionNota, "data_fato_gerador"},
	{"data_hora", regexp.MustCompile(`(?i)Data\s+e\s+Hora\s+(?:da\s+|de\s+)?Emiss[ãa]o[:\s]*(\d{2}/\d{2}/\d{4}\s+\d{2}:\d{2})`), constants.SectionNota, "data_hora_emissao"},
	{"codigo_verificacao", regexp.MustCompile(`(?i)C[óo]digo\s+de\s+Verifica[çc][ãa]o[:\s]*([A-Z0-9-]+)`), constants.SectionNota, "codigo_verificacao"},
}

// ExtractFromText recovers fields from unstructured text. Each pattern
// takes its first match; fields with no match stay absent.
func ExtractFromText(text string) Record {
	text = normalizeWhitespace(text)

	var rec Record
	for _, p := range textPatterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			rec.set(p.section, p.target, m[1])
		}
	}
	return rec
}

// normalizeWhitespace collapses OCR whitespace noise while keeping line breaks.
func normalizeWhitespace(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
