package enrichment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pca-golang/internal/storage"
)

func ts(dia, hora int) time.Time {
	return time.Date(2025, 3, dia, hora, 0, 0, 0, time.UTC)
}

func TestConstruirLinhaDoTempo_EstadiasEncadeadas(t *testing.T) {
	agora := ts(20, 12)
	info := &storage.ProcessInfo{
		NumeroProcesso: "100/2024-0",
		Setor:          storage.Setor{ID: "3", Descricao: "Compras"},
		Transicoes: []storage.Transicao{
			{Sequencia: 1, Timestamp: ts(1, 9), DeSetor: storage.Setor{ID: "1", Descricao: "Protocolo"}, ParaSetor: storage.Setor{ID: "2", Descricao: "TI"}},
			{Sequencia: 2, Timestamp: ts(10, 9), DeSetor: storage.Setor{ID: "2", Descricao: "TI"}, ParaSetor: storage.Setor{ID: "3", Descricao: "Compras"}},
		},
	}

	estadias, _ := ConstruirLinhaDoTempo(info, agora)

	require.Len(t, estadias, 2)
	assert.Equal(t, "TI", estadias[0].Setor.Descricao)
	assert.Equal(t, 9, estadias[0].Dias)
	require.NotNil(t, estadias[0].SaidaEm)

	// última estadia em aberto, corre contra "agora"
	assert.Equal(t, "Compras", estadias[1].Setor.Descricao)
	assert.Nil(t, estadias[1].SaidaEm)
	assert.Equal(t, 10, estadias[1].Dias)
}

func TestConstruirLinhaDoTempo_MesmoDiaEmHoras(t *testing.T) {
	agora := ts(20, 12)
	info := &storage.ProcessInfo{
		Transicoes: []storage.Transicao{
			{Sequencia: 1, Timestamp: ts(5, 9), ParaSetor: storage.Setor{ID: "1", Descricao: "TI"}},
			{Sequencia: 2, Timestamp: ts(5, 15), ParaSetor: storage.Setor{ID: "2", Descricao: "Compras"}},
		},
	}

	estadias, _ := ConstruirLinhaDoTempo(info, agora)

	require.Len(t, estadias, 2)
	// movimento no mesmo dia: 6 horas, não "0 dias"
	assert.True(t, estadias[0].MesmoDia)
	assert.Equal(t, 6, estadias[0].Horas)
	assert.Equal(t, 0, estadias[0].Dias)
}

func TestConstruirLinhaDoTempo_PseudoTransicaoInicial(t *testing.T) {
	agora := ts(20, 12)
	info := &storage.ProcessInfo{
		DataAutuacao: "01/03/2025",
		Setor:        storage.Setor{ID: "2", Descricao: "TI"},
		Transicoes: []storage.Transicao{
			{Sequencia: 1, Timestamp: ts(10, 9), DeSetor: storage.Setor{ID: "1", Descricao: "Protocolo"}, ParaSetor: storage.Setor{ID: "2", Descricao: "TI"}},
		},
	}

	estadias, _ := ConstruirLinhaDoTempo(info, agora)

	// a permanência inicial no Protocolo não é perdida
	require.Len(t, estadias, 2)
	assert.Equal(t, "Protocolo", estadias[0].Setor.Descricao)
	assert.Equal(t, 9, estadias[0].Dias)
}

func TestConstruirLinhaDoTempo_AutuacaoPosteriorNaoSintetiza(t *testing.T) {
	agora := ts(20, 12)
	info := &storage.ProcessInfo{
		// autuação depois da primeira transição: não sintetiza
		DataAutuacao: "15/03/2025",
		Transicoes: []storage.Transicao{
			{Sequencia: 1, Timestamp: ts(10, 9), ParaSetor: storage.Setor{ID: "2", Descricao: "TI"}},
		},
	}

	estadias, _ := ConstruirLinhaDoTempo(info, agora)

	require.Len(t, estadias, 1)
	assert.Equal(t, "TI", estadias[0].Setor.Descricao)
}

func TestConstruirLinhaDoTempo_SemTransicoes(t *testing.T) {
	agora := ts(20, 12)

	// só a autuação: uma estadia aberta no setor atual
	info := &storage.ProcessInfo{
		DataAutuacao: "01/03/2025",
		Setor:        storage.Setor{ID: "1", Descricao: "Protocolo"},
	}
	estadias, permanencias := ConstruirLinhaDoTempo(info, agora)
	require.Len(t, estadias, 1)
	assert.Equal(t, "Protocolo", estadias[0].Setor.Descricao)
	assert.Equal(t, 19, estadias[0].Dias)
	require.Len(t, permanencias, 1)

	// sem autuação e sem transições não há linha do tempo
	estadias, permanencias = ConstruirLinhaDoTempo(&storage.ProcessInfo{}, agora)
	assert.Nil(t, estadias)
	assert.Nil(t, permanencias)
}

func TestConstruirLinhaDoTempo_AgregaPorSetor(t *testing.T) {
	agora := ts(30, 9)
	info := &storage.ProcessInfo{
		Transicoes: []storage.Transicao{
			{Sequencia: 1, Timestamp: ts(1, 9), ParaSetor: storage.Setor{ID: "2", Descricao: "TI"}},
			{Sequencia: 2, Timestamp: ts(5, 9), ParaSetor: storage.Setor{ID: "3", Descricao: "Compras"}},
			// volta para TI: segunda visita ao mesmo setor
			{Sequencia: 3, Timestamp: ts(10, 9), ParaSetor: storage.Setor{ID: "2", Descricao: "TI"}},
		},
	}

	_, permanencias := ConstruirLinhaDoTempo(info, agora)

	require.Len(t, permanencias, 2)
	porKey := map[string]storage.PermanenciaSetor{}
	for _, p := range permanencias {
		porKey[p.Setor.Key()] = p
	}

	assert.Equal(t, 2, porKey["2"].Visitas)
	assert.Equal(t, 4+20, porKey["2"].TotalDias)
	assert.Equal(t, 1, porKey["3"].Visitas)
	assert.Equal(t, 5, porKey["3"].TotalDias)
}

func TestConstruirLinhaDoTempo_DesempatePorSequencia(t *testing.T) {
	agora := ts(20, 12)
	mesmoInstante := ts(5, 9)
	info := &storage.ProcessInfo{
		Transicoes: []storage.Transicao{
			{Sequencia: 2, Timestamp: mesmoInstante, ParaSetor: storage.Setor{ID: "3", Descricao: "Compras"}},
			{Sequencia: 1, Timestamp: mesmoInstante, ParaSetor: storage.Setor{ID: "2", Descricao: "TI"}},
		},
	}

	estadias, _ := ConstruirLinhaDoTempo(info, agora)

	require.Len(t, estadias, 2)
	assert.Equal(t, "TI", estadias[0].Setor.Descricao)
	assert.Equal(t, "Compras", estadias[1].Setor.Descricao)
}
