package analytics

import (
	"strconv"
	"strings"

	"pca-golang/internal/storage"
)

// Índices das colunas usadas da exportação da planilha do PCA. A
// planilha tem ~26 colunas; só estas entram no modelo.
const (
	colIDPca = iota
	colArea
	colTipo
	colProjeto
	colOrcamento
	colValor
	colDataAutuacao
	colContratarAte
	colDiasAtraso
	colStatus
	colProcessoSEI
	colNumeroContrato
	colNumeroRegistro
	colModalidade
	colIDComprasGov
)

// Linhas com menos células que isto são rabeira em branco da
// exportação e são descartadas.
const minCelulas = 16

// NormalizeRow monta um ProjectRecord a partir de uma linha posicional
// crua. Devolve false para linhas curtas demais.
func NormalizeRow(celulas []string) (*storage.ProjectRecord, bool) {
	if len(celulas) < minCelulas {
		return nil, false
	}

	cel := func(i int) string { return strings.TrimSpace(celulas[i]) }

	rec := &storage.ProjectRecord{
		IDPca:              cel(colIDPca),
		Area:               cel(colArea),
		Tipo:               cel(colTipo),
		Projeto:            cel(colProjeto),
		OrcamentoCategoria: cel(colOrcamento),
		Valor:              ParseCurrency(cel(colValor)),
		DataAutuacao:       cel(colDataAutuacao),
		ContratarAte:       cel(colContratarAte),
		DiasAtraso:         cel(colDiasAtraso),
		Status:             cel(colStatus),
		ProcessoSEI:        cel(colProcessoSEI),
		NumeroContrato:     cel(colNumeroContrato),
		NumeroRegistro:     cel(colNumeroRegistro),
		Modalidade:         cel(colModalidade),
		IDComprasGov:       cel(colIDComprasGov),
	}

	return rec, true
}

// ParseCurrency interpreta moeda no formato brasileiro
// ("R$ 1.234.567,89"). Valor não interpretável vira 0; o pipeline
// nunca falha por uma célula malformada.
func ParseCurrency(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
