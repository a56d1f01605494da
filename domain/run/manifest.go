package run

import (
	"encoding/json"
	"io"
	"time"

	"assaystat/domain/core"
	"assaystat/internal/errors"
)

// Kind names the analysis a run performed
type Kind string

const (
	KindANOVA      Kind = "anova"
	KindComparison Kind = "comparison"
	KindClean      Kind = "clean"
)

// Manifest records one run: what was read, how, and what was written.
// It is the last file a run writes.
type Manifest struct {
	RunID       core.RunID        `json:"run_id"`
	Kind        Kind              `json:"kind"`
	Input       string            `json:"input"`
	InputHash   core.Hash         `json:"input_hash"`
	Columns     []string          `json:"columns"`
	Options     map[string]string `json:"options,omitempty"`
	Fingerprint core.Hash         `json:"fingerprint"`
	Outputs     []string          `json:"outputs"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewManifest starts a manifest with a fresh run ID
func NewManifest(kind Kind, input string, inputHash core.Hash, columns []string, options map[string]string) *Manifest {
	return &Manifest{
		RunID:       core.NewRunID(),
		Kind:        kind,
		Input:       input,
		InputHash:   inputHash,
		Columns:     columns,
		Options:     options,
		Fingerprint: Fingerprint(kind, inputHash, columns, options),
		Outputs:     []string{},
		CreatedAt:   time.Now().UTC(),
	}
}

// AddOutput records a written file
func (m *Manifest) AddOutput(path string) {
	m.Outputs = append(m.Outputs, path)
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return errors.InvalidInput("manifest: run_id cannot be empty")
	}
	switch m.Kind {
	case KindANOVA, KindComparison, KindClean:
	default:
		return errors.Newf(errors.CodeInvalidInput, "manifest: unknown kind %q", m.Kind)
	}
	if m.Input == "" {
		return errors.InvalidInput("manifest: input cannot be empty")
	}
	if m.InputHash.IsEmpty() {
		return errors.InvalidInput("manifest: input_hash cannot be empty")
	}
	if len(m.Columns) == 0 {
		return errors.InvalidInput("manifest: columns cannot be empty")
	}
	return nil
}

// WriteJSON validates the manifest and writes it as indented JSON
func (m *Manifest) WriteJSON(w io.Writer) error {
	if err := m.Validate(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return errors.IOError("write manifest", err)
	}
	return nil
}

// ReadManifest decodes and validates a manifest
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.IOError("read manifest", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
