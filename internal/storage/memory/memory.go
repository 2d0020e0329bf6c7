package memory

import (
	"sync"

	"pca-golang/internal/storage"
)

// ProcessCache é o cache compartilhado de processos consultados no
// SEI. Entradas nunca são removidas dentro de uma sessão; a chave é
// sempre o número de processo normalizado. O mutex existe porque os
// resolvers de enriquecimento rodam em goroutines próprias.
type ProcessCache struct {
	mu      sync.RWMutex
	entries map[string]*storage.ProcessInfo
}

func NewProcessCache() *ProcessCache {
	return &ProcessCache{entries: make(map[string]*storage.ProcessInfo)}
}

// Get devolve a entrada do processo, se já consultado.
func (c *ProcessCache) Get(numero string) (*storage.ProcessInfo, bool) {
	key := storage.NormalizeProcessNumber(numero)

	c.mu.RLock()
	defer c.mu.RUnlock()

	info, ok := c.entries[key]
	return info, ok
}

// Put grava uma entrada resolvida. Lookups que falharam não chegam
// aqui: ausência no cache significa "ainda sem dado", nunca um
// placeholder.
func (c *ProcessCache) Put(info *storage.ProcessInfo) {
	key := storage.NormalizeProcessNumber(info.NumeroProcesso)
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = info
}

// Has informa se o processo já está resolvido no cache.
func (c *ProcessCache) Has(numero string) bool {
	_, ok := c.Get(numero)
	return ok
}

func (c *ProcessCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// AnalyticHolder guarda o snapshot corrente do AnalyticData. O
// rebuild produz um snapshot novo e o troca de uma vez; nenhum leitor
// observa estado parcial.
type AnalyticHolder struct {
	mu   sync.RWMutex
	data *storage.AnalyticData
}

func NewAnalyticHolder() *AnalyticHolder {
	return &AnalyticHolder{}
}

// Snapshot devolve o snapshot corrente, ou nil antes do primeiro
// refresh bem-sucedido.
func (h *AnalyticHolder) Snapshot() *storage.AnalyticData {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.data
}

// Replace troca o snapshot por inteiro.
func (h *AnalyticHolder) Replace(data *storage.AnalyticData) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.data = data
}

// SignatureCache guarda os signatários já consultados por documento.
type SignatureCache struct {
	mu      sync.RWMutex
	entries map[string][]storage.Signatario
}

func NewSignatureCache() *SignatureCache {
	return &SignatureCache{entries: make(map[string][]storage.Signatario)}
}

func (c *SignatureCache) Get(documentoID string) ([]storage.Signatario, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sigs, ok := c.entries[documentoID]
	return sigs, ok
}

func (c *SignatureCache) Put(documentoID string, sigs []storage.Signatario) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[documentoID] = sigs
}
