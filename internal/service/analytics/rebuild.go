package analytics

import (
	"pca-golang/internal/constants"
	"pca-golang/internal/storage"
)

// Rebuild faz a passada completa de reprocessamento: parte de um
// snapshot vazio e classifica todas as linhas do feed. Não há
// atualização incremental; a cada refresh o modelo anterior é
// descartado.
func Rebuild(ano int, linhas [][]string) *storage.AnalyticData {
	d := storage.NewAnalyticData(ano, constants.BucketNames)

	for _, celulas := range linhas {
		rec, ok := NormalizeRow(celulas)
		if !ok {
			continue
		}
		if !Elegivel(rec) {
			continue
		}

		d.AllEligibleProjects = append(d.AllEligibleProjects, rec)
		classificar(d, rec)
	}

	return d
}
