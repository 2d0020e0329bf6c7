package enrichment

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"pca-golang/internal/constants"
	"pca-golang/internal/storage"
	"pca-golang/internal/storage/memory"
)

// ProcessLookup é a consulta externa de processos em lote.
type ProcessLookup interface {
	LookupProcesses(ctx context.Context, numeros []string) ([]*storage.ProcessInfo, error)
}

// SectorResolver resolve em que setor cada processo está: particiona
// os números pendentes em lotes, consulta o SEI lote a lote e mescla
// os resultados no cache compartilhado. Lote que falha só deixa seus
// processos sem resolução nesta passada; os irmãos seguem. Chamadas
// concorrentes colapsam numa única passada em voo.
type SectorResolver struct {
	lookup     ProcessLookup
	cache      *memory.ProcessCache
	log        *slog.Logger
	batchSize  int
	batchDelay time.Duration
	sf         singleflight.Group
}

func NewSectorResolver(lookup ProcessLookup, cache *memory.ProcessCache, log *slog.Logger, batchSize int, batchDelay time.Duration) *SectorResolver {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &SectorResolver{
		lookup:     lookup,
		cache:      cache,
		log:        log,
		batchSize:  batchSize,
		batchDelay: batchDelay,
	}
}

// GrupoSetor reúne os projetos atualmente no mesmo setor.
type GrupoSetor struct {
	Setor    storage.Setor            `json:"setor"`
	Projetos []*storage.ProjectRecord `json:"projetos"`
}

// ResultadoSetores é a visão agrupada por setor mais o que ficou sem
// resolução (para o aviso com retry no dashboard).
type ResultadoSetores struct {
	Grupos        []GrupoSetor `json:"grupos"`
	NaoResolvidos int          `json:"nao_resolvidos"`
}

// Resolve consulta os processos ainda não cacheados dos projetos
// recebidos e devolve o agrupamento por setor. Processos em status
// concluído não são rastreados por setor e ficam fora da entrada.
func (r *SectorResolver) Resolve(ctx context.Context, projetos []*storage.ProjectRecord) (*ResultadoSetores, error) {
	v, err, _ := r.sf.Do("resolve", func() (interface{}, error) {
		return r.resolve(ctx, projetos)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ResultadoSetores), nil
}

func (r *SectorResolver) resolve(ctx context.Context, projetos []*storage.ProjectRecord) (*ResultadoSetores, error) {
	const op = "enrichment.SectorResolver.Resolve"

	pendentes := r.pendentes(projetos)

	for i := 0; i < len(pendentes); i += r.batchSize {
		fim := i + r.batchSize
		if fim > len(pendentes) {
			fim = len(pendentes)
		}
		lote := pendentes[i:fim]

		infos, err := r.lookup.LookupProcesses(ctx, lote)
		if err != nil {
			// sem retry aqui: o lote fica sem resolução nesta
			// passada e aparece no contador de não resolvidos
			r.log.Error("lote de consulta de setores falhou",
				slog.String("op", op),
				slog.Int("tamanho", len(lote)),
				slog.String("error", err.Error()),
			)
		} else {
			for _, info := range infos {
				r.cache.Put(info)
			}
		}

		if fim < len(pendentes) && r.batchDelay > 0 {
			select {
			case <-time.After(r.batchDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return r.agrupar(projetos), nil
}

// pendentes filtra os números que ainda precisam de consulta:
// deduplica, remove concluídos e o que já está no cache.
func (r *SectorResolver) pendentes(projetos []*storage.ProjectRecord) []string {
	vistos := make(map[string]bool)
	var numeros []string

	for _, p := range projetos {
		if p.ProcessoSEI == "" || statusConcluido(p.Status) {
			continue
		}
		key := storage.NormalizeProcessNumber(p.ProcessoSEI)
		if key == "" || vistos[key] {
			continue
		}
		vistos[key] = true
		if !r.cache.Has(p.ProcessoSEI) {
			numeros = append(numeros, p.ProcessoSEI)
		}
	}

	return numeros
}

func (r *SectorResolver) agrupar(projetos []*storage.ProjectRecord) *ResultadoSetores {
	grupos := make(map[string]*GrupoSetor)
	res := &ResultadoSetores{}

	for _, p := range projetos {
		if p.ProcessoSEI == "" || statusConcluido(p.Status) {
			continue
		}

		info, ok := r.cache.Get(p.ProcessoSEI)
		if !ok {
			res.NaoResolvidos++
			continue
		}
		if constants.SetoresIgnorados[info.Setor.Descricao] {
			continue
		}

		key := info.Setor.Key()
		g := grupos[key]
		if g == nil {
			g = &GrupoSetor{Setor: info.Setor}
			grupos[key] = g
		}
		g.Projetos = append(g.Projetos, p)
	}

	for _, g := range grupos {
		res.Grupos = append(res.Grupos, *g)
	}
	sort.Slice(res.Grupos, func(i, j int) bool {
		return res.Grupos[i].Setor.Descricao < res.Grupos[j].Setor.Descricao
	})

	return res
}

func statusConcluido(status string) bool {
	for _, s := range constants.StatusConcluidos {
		if strings.Contains(status, s) {
			return true
		}
	}
	return false
}
