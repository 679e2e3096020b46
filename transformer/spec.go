// spec.go - Layer-Spezifikationen und Spec-Registry
//
// MODUL: spec
// ZWECK: Beschreibt welche konkrete Implementierung hinter jedem Submodul eines Layers steht
// INPUT: Spec-Name, SpecBuilder, *Config
// OUTPUT: *LayerSpec
// NEBENEFFEKTE: RegisterSpec aendert die globale Registry
// ABHAENGIGKEITEN: go-ordered-map (Submodul-Reihenfolge)
// HINWEISE: Specs werden ueber init() registriert und nur per Name ausgewaehlt
package transformer

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ============================================================================
// LayerSpec
// ============================================================================

// LayerSpec benennt das Modul eines Layers und die Implementierungen seiner Submodule
type LayerSpec struct {
	Name       string
	Module     string
	Submodules *orderedmap.OrderedMap[string, string]
}

// NewLayerSpec erstellt eine leere Spec
func NewLayerSpec(name, module string) *LayerSpec {
	return &LayerSpec{
		Name:       name,
		Module:     module,
		Submodules: orderedmap.New[string, string](),
	}
}

// With setzt die Implementierung eines Submoduls und gibt die Spec zurueck
func (s *LayerSpec) With(submodule, impl string) *LayerSpec {
	s.Submodules.Set(submodule, impl)
	return s
}

// Submodule gibt die Implementierung fuer submodule zurueck
func (s *LayerSpec) Submodule(submodule string) (string, bool) {
	return s.Submodules.Get(submodule)
}

// Clone gibt eine unabhaengige Kopie zurueck
func (s *LayerSpec) Clone() *LayerSpec {
	if s == nil {
		return nil
	}

	out := NewLayerSpec(s.Name, s.Module)
	for pair := s.Submodules.Oldest(); pair != nil; pair = pair.Next() {
		out.Submodules.Set(pair.Key, pair.Value)
	}
	return out
}

// String formatiert die Spec als module(sub=impl, ...)
func (s *LayerSpec) String() string {
	var sb strings.Builder
	sb.WriteString(s.Module)
	sb.WriteByte('(')
	first := true
	for pair := s.Submodules.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(pair.Key)
		sb.WriteByte('=')
		sb.WriteString(pair.Value)
	}
	sb.WriteByte(')')
	return sb.String()
}

// ============================================================================
// Spec-Registry
// ============================================================================

// SpecBuilder baut eine LayerSpec fuer eine Konfiguration
type SpecBuilder func(cfg *Config) (*LayerSpec, error)

var (
	specsMu sync.RWMutex
	specs   = make(map[string]SpecBuilder)
)

// RegisterSpec registriert einen SpecBuilder unter name.
// Doppelte Registrierung ist ein Programmierfehler.
func RegisterSpec(name string, builder SpecBuilder) {
	specsMu.Lock()
	defer specsMu.Unlock()

	if _, ok := specs[name]; ok {
		panic("transformer: spec already registered: " + name)
	}
	specs[name] = builder
}

// HasSpec prueft ob ein Spec registriert ist
func HasSpec(name string) bool {
	specsMu.RLock()
	defer specsMu.RUnlock()

	_, ok := specs[name]
	return ok
}

// Specs gibt alle registrierten Spec-Namen sortiert zurueck
func Specs() []string {
	specsMu.RLock()
	defer specsMu.RUnlock()

	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// BuildSpec baut die unter name registrierte Spec fuer cfg
func BuildSpec(name string, cfg *Config) (*LayerSpec, error) {
	specsMu.RLock()
	builder, ok := specs[name]
	specsMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpec, name)
	}

	spec, err := builder(cfg)
	if err != nil {
		return nil, fmt.Errorf("build spec %q: %w", name, err)
	}
	return spec, nil
}

// ============================================================================
// Generische GPT-Specs
// ============================================================================

func init() {
	RegisterSpec("gpt-local", func(cfg *Config) (*LayerSpec, error) {
		return gptSpec("gpt-local", cfg, "ColumnParallelLinear", "RowParallelLinear", "FusedLayerNorm"), nil
	})
	RegisterSpec("gpt-te", func(cfg *Config) (*LayerSpec, error) {
		return gptSpec("gpt-te", cfg, "TELayerNormColumnParallelLinear", "TERowParallelLinear", "IdentityOp"), nil
	})
}

// gptSpec baut einen Standard-Decoder-Layer.
// Bei TE sind die Normen in die Linear-Layer fusioniert (IdentityOp).
func gptSpec(name string, cfg *Config, column, row, norm string) *LayerSpec {
	attention := "DotProductAttention"
	if cfg != nil && cfg.ContextParallelSize > 1 {
		attention = "TEDotProductAttention"
	}

	return NewLayerSpec(name, "TransformerLayer").
		With("input_layernorm", norm).
		With("self_attention", "SelfAttention").
		With("linear_qkv", column).
		With("core_attention", attention).
		With("linear_proj", row).
		With("pre_mlp_layernorm", norm).
		With("mlp", "MLP").
		With("linear_fc1", column).
		With("linear_fc2", row)
}
