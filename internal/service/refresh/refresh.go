package refresh

import (
	"context"
	"fmt"
	"log/slog"

	"pca-golang/internal/service/analytics"
	"pca-golang/internal/storage"
	"pca-golang/internal/storage/memory"
)

// FeedFetcher baixa as linhas de dados do feed do ano pedido.
type FeedFetcher interface {
	FetchRows(ctx context.Context, ano int) ([][]string, error)
}

// Service executa o ciclo de refresh: baixa o feed, reconstrói o
// AnalyticData e troca o snapshot de uma vez. Se o feed falhar, o
// snapshot anterior é mantido e o erro sobe para o chamador avisar o
// usuário.
type Service struct {
	feed   FeedFetcher
	holder *memory.AnalyticHolder
	log    *slog.Logger
}

func New(feed FeedFetcher, holder *memory.AnalyticHolder, log *slog.Logger) *Service {
	return &Service{feed: feed, holder: holder, log: log}
}

func (s *Service) Refresh(ctx context.Context, ano int) (*storage.AnalyticData, error) {
	const op = "service.refresh.Refresh"

	linhas, err := s.feed.FetchRows(ctx, ano)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data := analytics.Rebuild(ano, linhas)
	s.holder.Replace(data)

	s.log.Info("snapshot reconstruído",
		slog.Int("ano", ano),
		slog.Int("elegiveis", len(data.AllEligibleProjects)),
		slog.Int("nao_classificados", data.OrcamentoNaoClassificado),
	)

	return data, nil
}

// Snapshot expõe o snapshot corrente (nil antes do primeiro refresh).
func (s *Service) Snapshot() *storage.AnalyticData {
	return s.holder.Snapshot()
}
