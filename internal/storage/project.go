package storage

import "strings"

// ProjectRecord é uma linha do PCA depois da normalização posicional.
// Datas ficam como string DD/MM/YYYY; quem precisa de aritmética
// reinterpreta na hora.
type ProjectRecord struct {
	IDPca              string  `json:"id_pca"`
	Area               string  `json:"area"`
	Tipo               string  `json:"tipo"`
	Projeto            string  `json:"projeto"`
	Status             string  `json:"status"`
	OrcamentoCategoria string  `json:"orcamento_categoria"`
	Valor              float64 `json:"valor"`
	ProcessoSEI        string  `json:"processo_sei"`
	NumeroContrato     string  `json:"numero_contrato,omitempty"`
	NumeroRegistro     string  `json:"numero_registro,omitempty"`
	DataAutuacao       string  `json:"data_autuacao,omitempty"`
	ContratarAte       string  `json:"contratar_ate,omitempty"`
	DiasAtraso         string  `json:"dias_atraso,omitempty"`
	Modalidade         string  `json:"modalidade,omitempty"`
	IDComprasGov       string  `json:"id_comprasgov,omitempty"`
}

// AreaCount acumula os totais por unidade organizacional.
type AreaCount struct {
	Aquisicoes int `json:"aquisicoes"`
	Renovacoes int `json:"renovacoes"`
	Total      int `json:"total"`
}

// ValueTotals são os seis acumuladores monetários do boletim. As
// listas paralelas guardam os registros que contribuíram para cada
// total, para o drill-down do dashboard.
type ValueTotals struct {
	Custeio               float64 `json:"custeio"`
	Investimento          float64 `json:"investimento"`
	CusteioAquisicao      float64 `json:"custeio_aquisicao"`
	CusteioRenovacao      float64 `json:"custeio_renovacao"`
	InvestimentoAquisicao float64 `json:"investimento_aquisicao"`
	InvestimentoRenovacao float64 `json:"investimento_renovacao"`

	ProjetosCusteio               []*ProjectRecord `json:"-"`
	ProjetosInvestimento          []*ProjectRecord `json:"-"`
	ProjetosCusteioAquisicao      []*ProjectRecord `json:"-"`
	ProjetosCusteioRenovacao      []*ProjectRecord `json:"-"`
	ProjetosInvestimentoAquisicao []*ProjectRecord `json:"-"`
	ProjetosInvestimentoRenovacao []*ProjectRecord `json:"-"`
}

// AnalyticData é o modelo derivado consumido por todas as visões do
// dashboard. É reconstruído por inteiro a cada refresh; entre
// reconstruções os consumidores o tratam como snapshot somente
// leitura.
type AnalyticData struct {
	Ano int `json:"ano"`

	StatusCounts     map[string]int              `json:"status_counts"`
	ProjectsByStatus map[string][]*ProjectRecord `json:"projects_by_status"`

	TypeCounts     map[string]int              `json:"type_counts"`
	ProjectsByType map[string][]*ProjectRecord `json:"projects_by_type"`

	ValueTotals ValueTotals `json:"value_totals"`

	AreaCounts     map[string]*AreaCount       `json:"area_counts"`
	ProjectsByArea map[string][]*ProjectRecord `json:"projects_by_area"`

	SituationalBuckets map[string][]*ProjectRecord `json:"situational_buckets"`

	AllEligibleProjects []*ProjectRecord `json:"all_eligible_projects"`

	// Registros elegíveis cuja categoria orçamentária não casou com
	// exatamente uma das duas reconhecidas; excluídos dos totais
	// monetários, contados aqui para auditoria.
	OrcamentoNaoClassificado int `json:"orcamento_nao_classificado"`
}

// NewAnalyticData devolve um snapshot vazio com todos os mapas e os
// sete buckets situacionais já alocados.
func NewAnalyticData(ano int, buckets []string) *AnalyticData {
	d := &AnalyticData{
		Ano:                ano,
		StatusCounts:       make(map[string]int),
		ProjectsByStatus:   make(map[string][]*ProjectRecord),
		TypeCounts:         make(map[string]int),
		ProjectsByType:     make(map[string][]*ProjectRecord),
		AreaCounts:         make(map[string]*AreaCount),
		ProjectsByArea:     make(map[string][]*ProjectRecord),
		SituationalBuckets: make(map[string][]*ProjectRecord),
	}
	for _, b := range buckets {
		d.SituationalBuckets[b] = []*ProjectRecord{}
	}
	return d
}

// NormalizeProcessNumber reduz um número de processo à forma usada
// como chave de cache: apenas dígitos, '/' e '-'. Todo ponto de
// leitura e escrita do cache passa por aqui; duas variantes desta
// limpeza causariam misses silenciosos.
func NormalizeProcessNumber(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '/' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
