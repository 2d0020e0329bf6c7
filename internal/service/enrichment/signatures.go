package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"pca-golang/internal/constants"
	"pca-golang/internal/storage"
	"pca-golang/internal/storage/memory"
)

// AssinanteNaoIdentificado agrupa pareceres sem signatário resolvido
// em vez de descartá-los.
const AssinanteNaoIdentificado = "Assinante não identificado"

// SignatureLookup é a consulta externa de assinaturas por documento.
type SignatureLookup interface {
	LookupDocumentSignatures(ctx context.Context, documentoID string) ([]storage.Signatario, error)
}

// Estado de resolução de um documento. A transição Falhou → Pendente
// só acontece por pedido explícito do usuário (RetryFailed).
type estadoDocumento int

const (
	docPendente estadoDocumento = iota
	docResolvido
	docFalhou
)

type itemEstado struct {
	estado     estadoDocumento
	tentativas int
}

// SignatureAggregator identifica pareceres jurídicos entre os
// documentos já resolvidos por processo, consulta os signatários de
// cada um e inverte o mapeamento para agrupar pareceres por
// assinante. Um parecer com vários signatários conta para todos eles.
type SignatureAggregator struct {
	lookup    SignatureLookup
	cache     *memory.SignatureCache
	processos *memory.ProcessCache
	log       *slog.Logger
	delay     time.Duration // pausa entre consultas, limite de taxa autoimposto

	mu      sync.Mutex
	estados map[string]*itemEstado
	sf      singleflight.Group
}

func NewSignatureAggregator(lookup SignatureLookup, cache *memory.SignatureCache, processos *memory.ProcessCache, log *slog.Logger, delay time.Duration) *SignatureAggregator {
	return &SignatureAggregator{
		lookup:    lookup,
		cache:     cache,
		processos: processos,
		log:       log,
		delay:     delay,
		estados:   make(map[string]*itemEstado),
	}
}

// ResultadoAssinaturas é a visão invertida: pareceres por assinante.
type ResultadoAssinaturas struct {
	Ano              int                           `json:"ano"`
	PorSignatario    map[string][]*storage.Parecer `json:"por_signatario"`
	DocumentosFalhos []string                      `json:"documentos_falhos"`
	TotalPareceres   int                           `json:"total_pareceres"`
}

// Aggregate percorre os projetos elegíveis, identifica os pareceres
// jurídicos nos processos cacheados e monta o agrupamento por
// assinante. Para renovações só contam pareceres do ano de referência
// recebido; aquisições não têm filtro de ano. Chamadas concorrentes
// do mesmo ano colapsam numa única passada em voo.
func (a *SignatureAggregator) Aggregate(ctx context.Context, ano int, projetos []*storage.ProjectRecord) (*ResultadoAssinaturas, error) {
	v, err, _ := a.sf.Do(fmt.Sprintf("aggregate-%d", ano), func() (interface{}, error) {
		return a.aggregate(ctx, ano, projetos)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ResultadoAssinaturas), nil
}

func (a *SignatureAggregator) aggregate(ctx context.Context, ano int, projetos []*storage.ProjectRecord) (*ResultadoAssinaturas, error) {
	const op = "enrichment.SignatureAggregator.Aggregate"

	res := &ResultadoAssinaturas{
		Ano:           ano,
		PorSignatario: make(map[string][]*storage.Parecer),
	}

	pareceres := a.coletarPareceres(ano, projetos)
	res.TotalPareceres = len(pareceres)

	// dedupe por (processo, documento) dentro de cada assinante
	vistos := make(map[string]map[[2]string]bool)
	adicionar := func(nome string, p *storage.Parecer) {
		key := [2]string{storage.NormalizeProcessNumber(p.NumeroProcesso), p.DocumentoID}
		if vistos[nome] == nil {
			vistos[nome] = make(map[[2]string]bool)
		}
		if vistos[nome][key] {
			return
		}
		vistos[nome][key] = true
		res.PorSignatario[nome] = append(res.PorSignatario[nome], p)
	}

	for i, parecer := range pareceres {
		sigs, ok := a.resolver(ctx, parecer.DocumentoID)
		if !ok {
			res.DocumentosFalhos = append(res.DocumentosFalhos, parecer.DocumentoID)
		}
		parecer.Signatarios = sigs

		if len(sigs) == 0 {
			adicionar(AssinanteNaoIdentificado, parecer)
		} else {
			for _, s := range sigs {
				adicionar(s.Nome, parecer)
			}
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if i+1 < len(pareceres) && a.delay > 0 {
			select {
			case <-time.After(a.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	sort.Strings(res.DocumentosFalhos)

	a.log.Info("agregação de assinaturas concluída",
		slog.String("op", op),
		slog.Int("ano", ano),
		slog.Int("pareceres", res.TotalPareceres),
		slog.Int("falhos", len(res.DocumentosFalhos)),
	)

	return res, nil
}

// coletarPareceres varre os documentos dos processos cacheados dos
// projetos e filtra os pareceres jurídicos aplicáveis.
func (a *SignatureAggregator) coletarPareceres(ano int, projetos []*storage.ProjectRecord) []*storage.Parecer {
	var pareceres []*storage.Parecer

	for _, p := range projetos {
		if p.ProcessoSEI == "" {
			continue
		}
		info, ok := a.processos.Get(p.ProcessoSEI)
		if !ok {
			continue
		}

		for _, doc := range info.Documentos {
			if !EhParecerJuridico(doc.Descricao) {
				continue
			}
			// parecer de ano anterior não conta para a renovação
			// do ciclo corrente
			if p.Tipo == constants.TipoRenovacao && doc.Ano != ano {
				continue
			}
			pareceres = append(pareceres, &storage.Parecer{
				NumeroProcesso: p.ProcessoSEI,
				DocumentoID:    doc.ID,
				Descricao:      doc.Descricao,
				Projeto:        p,
			})
		}
	}

	return pareceres
}

// resolver devolve os signatários do documento, consultando a API
// quando necessário. ok=false indica documento no estado Falhou
// (agora ou em passada anterior, aguardando retry manual).
func (a *SignatureAggregator) resolver(ctx context.Context, documentoID string) ([]storage.Signatario, bool) {
	if sigs, ok := a.cache.Get(documentoID); ok {
		return sigs, true
	}

	a.mu.Lock()
	item := a.estados[documentoID]
	if item == nil {
		item = &itemEstado{estado: docPendente}
		a.estados[documentoID] = item
	}
	if item.estado == docFalhou {
		a.mu.Unlock()
		return nil, false
	}
	a.mu.Unlock()

	sigs, err := a.lookup.LookupDocumentSignatures(ctx, documentoID)

	a.mu.Lock()
	defer a.mu.Unlock()

	item.tentativas++
	if err != nil {
		item.estado = docFalhou
		a.log.Error("consulta de assinaturas falhou",
			slog.String("documento", documentoID),
			slog.Int("tentativas", item.tentativas),
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	item.estado = docResolvido
	a.cache.Put(documentoID, sigs)
	return sigs, true
}

// RetryFailed recoloca todos os documentos falhos em Pendente e
// devolve quantos foram rearmados. A próxima agregação os consulta de
// novo.
func (a *SignatureAggregator) RetryFailed() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0
	for _, item := range a.estados {
		if item.estado == docFalhou {
			item.estado = docPendente
			n++
		}
	}
	return n
}

// FailedCount informa quantos documentos estão aguardando retry.
func (a *SignatureAggregator) FailedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0
	for _, item := range a.estados {
		if item.estado == docFalhou {
			n++
		}
	}
	return n
}
