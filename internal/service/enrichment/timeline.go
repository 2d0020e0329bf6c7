package enrichment

import (
	"sort"
	"time"

	"pca-golang/internal/storage"
)

// ConstruirLinhaDoTempo reconstrói as estadias do processo a partir
// do histórico de andamentos e agrega a permanência total por setor.
//
// As transições são ordenadas por timestamp (empate decidido pela
// sequência). Quando a data de autuação é cronologicamente anterior
// ou igual à primeira transição real, uma pseudo-transição inicial é
// sintetizada para que a permanência inicial não seja perdida. A
// estadia final fica em aberto e seu tempo corre contra "agora".
func ConstruirLinhaDoTempo(info *storage.ProcessInfo, agora time.Time) ([]storage.Estadia, []storage.PermanenciaSetor) {
	if info == nil {
		return nil, nil
	}

	transicoes := make([]storage.Transicao, len(info.Transicoes))
	copy(transicoes, info.Transicoes)

	sort.SliceStable(transicoes, func(i, j int) bool {
		if !transicoes[i].Timestamp.Equal(transicoes[j].Timestamp) {
			return transicoes[i].Timestamp.Before(transicoes[j].Timestamp)
		}
		return transicoes[i].Sequencia < transicoes[j].Sequencia
	})

	if pseudo, ok := transicaoInicial(info, transicoes); ok {
		transicoes = append([]storage.Transicao{pseudo}, transicoes...)
	}

	if len(transicoes) == 0 {
		return nil, nil
	}

	estadias := make([]storage.Estadia, 0, len(transicoes))
	for i, t := range transicoes {
		e := storage.Estadia{
			Setor:     t.ParaSetor,
			EntradaEm: t.Timestamp,
		}

		saida := agora
		if i+1 < len(transicoes) {
			prox := transicoes[i+1].Timestamp
			e.SaidaEm = &prox
			saida = prox
		}

		span := saida.Sub(t.Timestamp)
		if span < 0 {
			span = 0
		}
		if span >= 24*time.Hour {
			e.Dias = int(span.Hours() / 24)
		} else {
			// movimento no mesmo dia: horas em vez de "0 dias"
			e.Horas = int(span.Hours())
			e.MesmoDia = true
		}

		estadias = append(estadias, e)
	}

	return estadias, agregarPorSetor(estadias)
}

// transicaoInicial sintetiza a entrada original do processo usando a
// data de autuação, quando ela não contradiz a ordem do histórico.
func transicaoInicial(info *storage.ProcessInfo, transicoes []storage.Transicao) (storage.Transicao, bool) {
	autuacao, ok := parseDataBRTolerante(info.DataAutuacao)
	if !ok {
		return storage.Transicao{}, false
	}

	setor := info.Setor
	if len(transicoes) > 0 {
		if autuacao.After(transicoes[0].Timestamp) {
			return storage.Transicao{}, false
		}
		setor = transicoes[0].DeSetor
	}

	return storage.Transicao{
		Timestamp: autuacao,
		ParaSetor: setor,
		Acao:      "Autuação",
	}, true
}

func agregarPorSetor(estadias []storage.Estadia) []storage.PermanenciaSetor {
	porSetor := make(map[string]*storage.PermanenciaSetor)
	var ordem []string

	for _, e := range estadias {
		key := e.Setor.Key()
		p := porSetor[key]
		if p == nil {
			p = &storage.PermanenciaSetor{Setor: e.Setor}
			porSetor[key] = p
			ordem = append(ordem, key)
		}
		p.TotalDias += e.Dias
		p.Visitas++
	}

	out := make([]storage.PermanenciaSetor, 0, len(ordem))
	for _, key := range ordem {
		out = append(out, *porSetor[key])
	}
	return out
}
