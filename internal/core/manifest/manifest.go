// Package manifest loads and writes the YAML documents the triggerkeeper CLI
// works with: candidate lists, term lists, monitor states and editor scripts.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/solatis/triggerkeeper/internal/types"
	"gopkg.in/yaml.v3"
)

// ErrMultipleDocuments indicates a file holding more than one YAML document.
var ErrMultipleDocuments = errors.New("multiple YAML documents are not supported")

// candidateFile is the mapping form of a candidate list.
type candidateFile struct {
	Candidates types.Candidates `yaml:"candidates"`
}

// LoadCandidates reads a candidate list, either a bare sequence or a mapping
// with a candidates key.
func LoadCandidates(path string) (types.Candidates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	cs, err := ParseCandidates(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cs, nil
}

// ParseCandidates decodes a candidate list document.
func ParseCandidates(data []byte) (types.Candidates, error) {
	var seq types.Candidates
	err := decodeStrict(data, &seq)
	if err == nil {
		return seq, nil
	}
	if errors.Is(err, ErrMultipleDocuments) {
		return nil, err
	}

	var file candidateFile
	if err := decodeStrict(data, &file); err != nil {
		return nil, fmt.Errorf("invalid candidate list: %w", err)
	}
	return file.Candidates, nil
}

// LoadTerms reads a term list. Conditions outside the closed set are rejected.
func LoadTerms(path string) ([]types.Term, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read terms: %w", err)
	}

	var terms []types.Term
	if err := decodeStrict(data, &terms); err != nil {
		return nil, fmt.Errorf("%s: invalid term list: %w", path, err)
	}
	return terms, nil
}

// LoadStates reads a mapping of delegate id to triggered state.
func LoadStates(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read states: %w", err)
	}

	states := map[string]bool{}
	if err := decodeStrict(data, &states); err != nil {
		return nil, fmt.Errorf("%s: invalid states: %w", path, err)
	}
	return states, nil
}

// WriteTerms encodes terms as a YAML sequence.
func WriteTerms(w io.Writer, terms []types.Term) error {
	return WriteYAML(w, terms)
}

// WriteYAML encodes v as a single YAML document with two-space indentation.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// decodeStrict decodes a single YAML document, rejecting unknown fields.
// An empty document leaves out untouched.
func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	var extra any
	if err := dec.Decode(&extra); err == nil {
		return ErrMultipleDocuments
	} else if !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
