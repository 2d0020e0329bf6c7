package constants

// Vocabulário de status e áreas do Boletim PCA. Todas as rotinas de
// classificação e exibição consultam estas tabelas; nada é duplicado
// nos consumidores.

const (
	TipoAquisicao = "🛒 Aquisição"
	TipoRenovacao = "🔄 Renovação"

	StatusCancelado = "CANCELADO ⛔"
)

var (
	// StatusGlyphs: rótulo base do status -> sufixo de exibição.
	StatusGlyphs = map[string]string{
		"A INICIAR":               "⏳",
		"AGUARDANDO DFD":          "📄",
		"DFD ATRASADO":            "📄⚠️",
		"AGUARDANDO ETP":          "📋",
		"ETP ATRASADO":            "📋⚠️",
		"ELABORANDO TR":           "📝",
		"ANÁLISE DE VIABILIDADE":  "🔍",
		"AUTUAÇÃO ATRASADA":       "🗂️⚠️",
		"EM CONTRATAÇÃO":          "🤝",
		"EM RENOVAÇÃO":            "🔄",
		"CONTRATAÇÃO ATRASADA":    "⏰❗",
		"CONTRATADO":              "✅",
		"RENOVADO":                "✅",
		"REVISÃO PCA":             "🛑",
		"CANCELADO":               "⛔",
	}

	// AreaGlyphs: unidade organizacional -> glifo de exibição.
	AreaGlyphs = map[string]string{
		"STI":             "💻",
		"GSTI":            "🏛️",
		"COINF":           "🖥️",
		"COSIS":           "⚙️",
		"COSEG":           "🔒",
		"SEGOV":           "📊",
	}

	// TiposReconhecidos: somente estes dois tipos entram na agregação.
	TiposReconhecidos = map[string]bool{
		TipoAquisicao: true,
		TipoRenovacao: true,
	}

	// StatusProcessados: conjunto usado pelo cálculo de produtividade
	// (substring sobre o status exibido).
	StatusProcessados = []string{
		"CONTRATADO",
		"RENOVADO",
		"EM CONTRATAÇÃO",
		"EM RENOVAÇÃO",
		"CONTRATAÇÃO ATRASADA",
	}

	// SetoresIgnorados: descrições de setor excluídas do agrupamento
	// por setor (caixas virtuais, não unidades reais).
	SetoresIgnorados = map[string]bool{
		"Arquivo Virtual":        true,
		"Arquivamento Definitivo": true,
	}

	// StatusConcluidos: processos nestes status não são rastreados por
	// setor (trabalho encerrado).
	StatusConcluidos = []string{
		"CONTRATADO",
		"RENOVADO",
	}
)

// Nomes das categorias situacionais (chaves do mapa situationalBuckets).
const (
	BucketContratacaoForaSTI  = "contratacaoForaSTI"
	BucketAutuacaoAtrasada    = "autuacaoAtrasada"
	BucketElaboracaoInterna   = "elaboracaoInterna"
	BucketContratacaoAtrasada = "contratacaoAtrasadaForaSTI"
	BucketConcluidos          = "concluidos"
	BucketSuspensos           = "suspensos"
	BucketAIniciar            = "aIniciar"
)

// SituacaoSubstrings: bucket -> substrings de status que o acionam.
// Predicados independentes e não exclusivos; um registro pode cair em
// mais de um bucket.
var SituacaoSubstrings = map[string][]string{
	BucketAutuacaoAtrasada: {"AUTUAÇÃO ATRASADA"},
	BucketElaboracaoInterna: {
		"DFD ATRASADO",
		"ETP ATRASADO",
		"AGUARDANDO ETP",
		"ELABORANDO TR",
		"ANÁLISE DE VIABILIDADE",
		"AGUARDANDO DFD",
	},
	BucketContratacaoAtrasada: {"CONTRATAÇÃO ATRASADA"},
	BucketConcluidos:          {"CONTRATADO", "RENOVADO"},
	BucketSuspensos:           {"REVISÃO PCA"},
	BucketAIniciar:            {"A INICIAR"},
}

// ContratacaoForaSTIExatos: o bucket contratacaoForaSTI usa igualdade
// exata contra o status exibido (com glifo), não substring.
var ContratacaoForaSTIExatos = map[string]bool{
	"EM CONTRATAÇÃO 🤝": true,
	"EM RENOVAÇÃO 🔄":   true,
}

// BucketNames lista os sete buckets na ordem de exibição do boletim.
var BucketNames = []string{
	BucketContratacaoForaSTI,
	BucketAutuacaoAtrasada,
	BucketElaboracaoInterna,
	BucketContratacaoAtrasada,
	BucketConcluidos,
	BucketSuspensos,
	BucketAIniciar,
}
