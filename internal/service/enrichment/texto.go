package enrichment

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizarTexto remove acentos e coloca em maiúsculas, para
// comparações tolerantes a grafia ("Parecer Jurídico" casa com
// "PARECER JURIDICO").
func NormalizarTexto(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(out)
}

// EhParecerJuridico identifica um parecer jurídico pelo descritor do
// documento: precisa conter "PARECER" e "JURID" após normalização.
func EhParecerJuridico(descricao string) bool {
	n := NormalizarTexto(descricao)
	return strings.Contains(n, "PARECER") && strings.Contains(n, "JURID")
}
