package storage

import "time"

// Setor identifica uma unidade no SEI. O ID é preferido como
// identidade; a descrição serve de fallback quando ele falta.
type Setor struct {
	ID        string `json:"id"`
	Descricao string `json:"descricao"`
}

// Key devolve a identidade estável do setor para agrupamentos.
func (s Setor) Key() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Descricao
}

// Transicao é um movimento do processo entre setores.
type Transicao struct {
	Sequencia int       `json:"sequencia"`
	Timestamp time.Time `json:"timestamp"`
	DeSetor   Setor     `json:"de_setor"`
	ParaSetor Setor     `json:"para_setor"`
	Acao      string    `json:"acao"`
}

// Documento é um documento anexado ao processo no SEI.
type Documento struct {
	ID        string `json:"id"`
	Descricao string `json:"descricao"`
	Ano       int    `json:"ano"`
}

// ProcessInfo é a entrada do cache compartilhado de processos:
// o registro externo mais os documentos já conhecidos.
type ProcessInfo struct {
	NumeroProcesso  string      `json:"numero_processo"`
	Setor           Setor       `json:"setor"`
	UltimoAndamento string      `json:"ultimo_andamento,omitempty"` // DD/MM/YYYY, opcionalmente com hora
	DataAutuacao    string      `json:"data_autuacao,omitempty"`
	Transicoes      []Transicao `json:"transicoes,omitempty"`
	Documentos      []Documento `json:"documentos,omitempty"`
	Sigiloso        bool        `json:"sigiloso"`
}

// Estadia é um período contíguo que o processo passou em um setor,
// derivado da lista de transições. SaidaEm == nil marca a estadia
// corrente, cujo tempo decorrido é recalculado contra "agora" a cada
// leitura.
type Estadia struct {
	Setor     Setor      `json:"setor"`
	EntradaEm time.Time  `json:"entrada_em"`
	SaidaEm   *time.Time `json:"saida_em,omitempty"`
	Dias      int        `json:"dias"`
	// Horas só é preenchido quando a estadia cabe no mesmo dia;
	// nesse caso Dias fica 0 e a exibição usa horas.
	Horas    int  `json:"horas,omitempty"`
	MesmoDia bool `json:"mesmo_dia"`
}

// PermanenciaSetor agrega as estadias de um mesmo setor.
type PermanenciaSetor struct {
	Setor     Setor `json:"setor"`
	TotalDias int   `json:"total_dias"`
	Visitas   int   `json:"visitas"`
}

// Signatario é um assinante devolvido pela consulta de assinaturas.
type Signatario struct {
	Nome       string `json:"nome"`
	Cargo      string `json:"cargo,omitempty"`
	AssinadoEm string `json:"assinado_em,omitempty"`
}

// Parecer liga um parecer jurídico identificado ao projeto dono.
type Parecer struct {
	NumeroProcesso string         `json:"numero_processo"`
	DocumentoID    string         `json:"documento_id"`
	Descricao      string         `json:"descricao"`
	Projeto        *ProjectRecord `json:"projeto"`
	Signatarios    []Signatario   `json:"signatarios"`
}
