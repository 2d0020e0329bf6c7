package generate_excel

import (
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"pca-golang/internal/service/analytics"
	"pca-golang/internal/storage"
)

// SnapshotProvider entrega o snapshot analítico corrente.
type SnapshotProvider interface {
	Snapshot() *storage.AnalyticData
}

// GenerateExcelService monta a pasta de trabalho do boletim: uma aba
// de resumo (contadores e totais), uma com todos os projetos
// elegíveis e uma com as janelas de produtividade.
type GenerateExcelService struct {
	provider SnapshotProvider
}

func NewGenerateService(provider SnapshotProvider) *GenerateExcelService {
	return &GenerateExcelService{provider: provider}
}

func (g *GenerateExcelService) GenerateExcel(ctx context.Context, ano int) ([]byte, error) {
	const op = "service.generate_excel.GenerateExcel"

	data := g.provider.Snapshot()
	if data == nil {
		return nil, fmt.Errorf("%s: nenhum snapshot disponível, rode um refresh antes", op)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	if err := abaResumo(f, headerStyle, data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := abaProjetos(f, headerStyle, data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := abaProdutividade(f, headerStyle, ano, data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func abaResumo(f *excelize.File, headerStyle int, data *storage.AnalyticData) error {
	const sheet = "Resumo"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", "Status")
	f.SetCellValue(sheet, "B1", "Projetos")
	f.SetCellStyle(sheet, "A1", "B1", headerStyle)

	statuses := make([]string, 0, len(data.StatusCounts))
	for s := range data.StatusCounts {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)

	row := 2
	for _, s := range statuses {
		f.SetCellValue(sheet, cellName(1, row), s)
		f.SetCellValue(sheet, cellName(2, row), data.StatusCounts[s])
		row++
	}

	// bloco de totais monetários
	row += 2
	vt := data.ValueTotals
	totais := []struct {
		rotulo string
		valor  float64
	}{
		{"Custeio", vt.Custeio},
		{"Custeio / Aquisição", vt.CusteioAquisicao},
		{"Custeio / Renovação", vt.CusteioRenovacao},
		{"Investimento", vt.Investimento},
		{"Investimento / Aquisição", vt.InvestimentoAquisicao},
		{"Investimento / Renovação", vt.InvestimentoRenovacao},
		{"Total geral", vt.Custeio + vt.Investimento},
	}
	f.SetCellValue(sheet, cellName(1, row), "Categoria")
	f.SetCellValue(sheet, cellName(2, row), "Valor (R$)")
	f.SetCellStyle(sheet, cellName(1, row), cellName(2, row), headerStyle)
	for i, t := range totais {
		f.SetCellValue(sheet, cellName(1, row+1+i), t.rotulo)
		f.SetCellValue(sheet, cellName(2, row+1+i), t.valor)
	}

	f.SetColWidth(sheet, "A", "B", 32)
	return nil
}

func abaProjetos(f *excelize.File, headerStyle int, data *storage.AnalyticData) error {
	const sheet = "Projetos"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"ID PCA", "Área", "Tipo", "Projeto", "Status", "Categoria", "Valor (R$)", "Processo SEI", "Autuação", "Contratar até"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), h)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), headerStyle)

	for i, p := range data.AllEligibleProjects {
		row := i + 2
		f.SetCellValue(sheet, cellName(1, row), p.IDPca)
		f.SetCellValue(sheet, cellName(2, row), p.Area)
		f.SetCellValue(sheet, cellName(3, row), p.Tipo)
		f.SetCellValue(sheet, cellName(4, row), p.Projeto)
		f.SetCellValue(sheet, cellName(5, row), p.Status)
		f.SetCellValue(sheet, cellName(6, row), p.OrcamentoCategoria)
		f.SetCellValue(sheet, cellName(7, row), p.Valor)
		f.SetCellValue(sheet, cellName(8, row), p.ProcessoSEI)
		f.SetCellValue(sheet, cellName(9, row), p.DataAutuacao)
		f.SetCellValue(sheet, cellName(10, row), p.ContratarAte)
	}

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
	})
	f.SetColWidth(sheet, "A", "J", 18)
	return nil
}

func abaProdutividade(f *excelize.File, headerStyle int, ano int, data *storage.AnalyticData) error {
	const sheet = "Produtividade"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	prod := analytics.CalcularProdutividade(ano, data.AllEligibleProjects)

	headers := []string{"Janela", "Início", "Fim", "Aquisições", "Renovações", "Total", "Processados", "% Conclusão", "Meta 80%", "Faltam"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), h)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), headerStyle)

	for i, j := range []*analytics.JanelaProdutividade{prod.Janela1, prod.Janela2} {
		row := i + 2
		f.SetCellValue(sheet, cellName(1, row), j.Nome)
		f.SetCellValue(sheet, cellName(2, row), j.Inicio)
		f.SetCellValue(sheet, cellName(3, row), j.Fim)
		f.SetCellValue(sheet, cellName(4, row), j.Aquisicoes)
		f.SetCellValue(sheet, cellName(5, row), j.Renovacoes)
		f.SetCellValue(sheet, cellName(6, row), j.Total)
		f.SetCellValue(sheet, cellName(7, row), len(j.Processados))
		f.SetCellValue(sheet, cellName(8, row), j.PercentualConclusao)
		f.SetCellValue(sheet, cellName(9, row), j.Meta80)
		f.SetCellValue(sheet, cellName(10, row), j.FaltamParaMeta)
	}

	f.SetColWidth(sheet, "A", "J", 14)
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
