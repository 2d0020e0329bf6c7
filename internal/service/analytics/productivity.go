package analytics

import (
	"math"
	"strings"
	"time"

	"pca-golang/internal/constants"
	"pca-golang/internal/storage"
)

// JanelaProdutividade são as métricas de uma janela fiscal.
type JanelaProdutividade struct {
	Nome   string `json:"nome"`
	Inicio string `json:"inicio"` // DD/MM/YYYY
	Fim    string `json:"fim"`

	Aquisicoes int `json:"aquisicoes"`
	Renovacoes int `json:"renovacoes"`
	Total      int `json:"total"`

	Processados    []*storage.ProjectRecord `json:"processados"`
	NaoProcessados []*storage.ProjectRecord `json:"nao_processados"`

	PercentualConclusao int `json:"percentual_conclusao"`
	Meta80              int `json:"meta_80"`
	FaltamParaMeta      int `json:"faltam_para_meta"`
}

// Produtividade é o resultado das duas janelas do ano de referência.
type Produtividade struct {
	Ano     int                  `json:"ano"`
	Janela1 *JanelaProdutividade `json:"janela_1"`
	Janela2 *JanelaProdutividade `json:"janela_2"`
}

const formatoDataBR = "02/01/2006"

// ParseDataBR interpreta DD/MM/YYYY, ignorando hora quando presente.
func ParseDataBR(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if len(s) > len(formatoDataBR) {
		s = s[:len(formatoDataBR)]
	}
	t, err := time.Parse(formatoDataBR, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StatusProcessado verifica se o status pertence ao conjunto
// "processado" do cálculo de produtividade.
func StatusProcessado(status string) bool {
	for _, s := range constants.StatusProcessados {
		if strings.Contains(status, s) {
			return true
		}
	}
	return false
}

// CalcularProdutividade computa as duas janelas fiscais do ano Y:
// janela 1 de 01/11 do ano anterior a 30/06 de Y (a janela cruza a
// virada do ano por convenção do ciclo fiscal) e janela 2 de 01/07 a
// 31/12 de Y. A elegibilidade é re-derivada aqui sobre o conjunto
// recebido, pela mesma função usada no rebuild.
func CalcularProdutividade(ano int, projetos []*storage.ProjectRecord) *Produtividade {
	j1Inicio := time.Date(ano-1, time.November, 1, 0, 0, 0, 0, time.UTC)
	j1Fim := time.Date(ano, time.June, 30, 0, 0, 0, 0, time.UTC)
	j2Inicio := time.Date(ano, time.July, 1, 0, 0, 0, 0, time.UTC)
	j2Fim := time.Date(ano, time.December, 31, 0, 0, 0, 0, time.UTC)

	return &Produtividade{
		Ano:     ano,
		Janela1: calcularJanela("1ª janela", j1Inicio, j1Fim, projetos),
		Janela2: calcularJanela("2ª janela", j2Inicio, j2Fim, projetos),
	}
}

func calcularJanela(nome string, inicio, fim time.Time, projetos []*storage.ProjectRecord) *JanelaProdutividade {
	j := &JanelaProdutividade{
		Nome:           nome,
		Inicio:         inicio.Format(formatoDataBR),
		Fim:            fim.Format(formatoDataBR),
		Processados:    []*storage.ProjectRecord{},
		NaoProcessados: []*storage.ProjectRecord{},
	}

	for _, rec := range projetos {
		if !Elegivel(rec) {
			continue
		}
		autuacao, ok := ParseDataBR(rec.DataAutuacao)
		if !ok {
			continue
		}
		// limites inclusivos nas duas pontas
		if autuacao.Before(inicio) || autuacao.After(fim) {
			continue
		}

		switch rec.Tipo {
		case constants.TipoAquisicao:
			j.Aquisicoes++
		case constants.TipoRenovacao:
			j.Renovacoes++
		}

		if StatusProcessado(rec.Status) {
			j.Processados = append(j.Processados, rec)
		} else {
			j.NaoProcessados = append(j.NaoProcessados, rec)
		}
	}

	j.Total = j.Aquisicoes + j.Renovacoes

	processados := len(j.Processados)
	if j.Total > 0 {
		j.PercentualConclusao = int(math.Round(float64(processados) / float64(j.Total) * 100))
	}
	j.Meta80 = int(math.Ceil(float64(j.Total) * 0.8))
	if faltam := j.Meta80 - processados; faltam > 0 {
		j.FaltamParaMeta = faltam
	}

	return j
}
