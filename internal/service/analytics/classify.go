package analytics

import (
	"strings"

	"pca-golang/internal/constants"
	"pca-golang/internal/storage"
)

// Elegivel é o filtro único de elegibilidade: cancelados e tipos não
// reconhecidos ficam fora de toda agregação. Contadores, buckets
// situacionais e o cálculo de produtividade usam esta mesma função;
// a regra nunca é duplicada.
func Elegivel(rec *storage.ProjectRecord) bool {
	if strings.Contains(rec.Status, "CANCELADO") {
		return false
	}
	return constants.TiposReconhecidos[rec.Tipo]
}

// classificar aplica todas as atualizações de contadores e buckets
// para um registro já aprovado no filtro de elegibilidade. Cada passo
// é independente; um registro pode atualizar vários ao mesmo tempo.
func classificar(d *storage.AnalyticData, rec *storage.ProjectRecord) {
	// status
	d.StatusCounts[rec.Status]++
	d.ProjectsByStatus[rec.Status] = append(d.ProjectsByStatus[rec.Status], rec)

	// tipo
	d.TypeCounts[rec.Tipo]++
	d.ProjectsByType[rec.Tipo] = append(d.ProjectsByType[rec.Tipo], rec)

	classificarOrcamento(d, rec)

	// área (só quando preenchida)
	if rec.Area != "" {
		ac := d.AreaCounts[rec.Area]
		if ac == nil {
			ac = &storage.AreaCount{}
			d.AreaCounts[rec.Area] = ac
		}
		switch rec.Tipo {
		case constants.TipoAquisicao:
			ac.Aquisicoes++
		case constants.TipoRenovacao:
			ac.Renovacoes++
		}
		ac.Total++
		d.ProjectsByArea[rec.Area] = append(d.ProjectsByArea[rec.Area], rec)
	}

	classificarSituacao(d, rec)
}

// classificarOrcamento cruza a categoria orçamentária com o tipo.
// Categoria que não casa com exatamente uma das duas substrings fica
// fora dos totais e entra no contador de auditoria.
func classificarOrcamento(d *storage.AnalyticData, rec *storage.ProjectRecord) {
	vt := &d.ValueTotals
	custeio := strings.Contains(rec.OrcamentoCategoria, "CUSTEIO")
	investimento := strings.Contains(rec.OrcamentoCategoria, "INVESTIMENTO")

	if custeio == investimento {
		// nenhuma ou ambas: excluída dos totais
		d.OrcamentoNaoClassificado++
		return
	}

	if custeio {
		vt.Custeio += rec.Valor
		vt.ProjetosCusteio = append(vt.ProjetosCusteio, rec)
		switch rec.Tipo {
		case constants.TipoAquisicao:
			vt.CusteioAquisicao += rec.Valor
			vt.ProjetosCusteioAquisicao = append(vt.ProjetosCusteioAquisicao, rec)
		case constants.TipoRenovacao:
			vt.CusteioRenovacao += rec.Valor
			vt.ProjetosCusteioRenovacao = append(vt.ProjetosCusteioRenovacao, rec)
		}
		return
	}

	vt.Investimento += rec.Valor
	vt.ProjetosInvestimento = append(vt.ProjetosInvestimento, rec)
	switch rec.Tipo {
	case constants.TipoAquisicao:
		vt.InvestimentoAquisicao += rec.Valor
		vt.ProjetosInvestimentoAquisicao = append(vt.ProjetosInvestimentoAquisicao, rec)
	case constants.TipoRenovacao:
		vt.InvestimentoRenovacao += rec.Valor
		vt.ProjetosInvestimentoRenovacao = append(vt.ProjetosInvestimentoRenovacao, rec)
	}
}

// classificarSituacao testa os sete predicados situacionais. Eles são
// independentes e não exclusivos: um registro pode cair em vários
// buckets, ou em nenhum.
func classificarSituacao(d *storage.AnalyticData, rec *storage.ProjectRecord) {
	if constants.ContratacaoForaSTIExatos[rec.Status] {
		d.SituationalBuckets[constants.BucketContratacaoForaSTI] =
			append(d.SituationalBuckets[constants.BucketContratacaoForaSTI], rec)
	}

	for bucket, substrings := range constants.SituacaoSubstrings {
		for _, sub := range substrings {
			if strings.Contains(rec.Status, sub) {
				d.SituationalBuckets[bucket] = append(d.SituationalBuckets[bucket], rec)
				break
			}
		}
	}
}
