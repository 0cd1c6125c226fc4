// Package metadata signs output tables with SHA-256 hashes and verifies them.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the manifest written next to the output tables.
const FileName = "manifest.yaml"

// Version of the manifest layout.
const Version = "1"

// Manifest verification errors.
var (
	ErrNoManifest   = errors.New("no manifest found")
	ErrNoHashFound  = errors.New("no hash found in manifest")
	ErrHashMismatch = errors.New("hash mismatch")
	ErrEmptyTables  = errors.New("manifest lists no tables")
)

// Manifest records the hash of every output file of one run.
type Manifest struct {
	Tables     map[string]string `yaml:"tables"`
	LastModify time.Time         `yaml:"last_modify"`
	Version    string            `yaml:"version"`
	RunID      string            `yaml:"run_id"`
}

// CalculateHash computes the SHA-256 hash of content.
func CalculateHash(content []byte) string {
	hash := sha256.Sum256(content)

	return hex.EncodeToString(hash[:])
}

// Sign builds a manifest for the named file contents.
func Sign(files map[string][]byte, runID string) *Manifest {
	m := &Manifest{
		Version:    Version,
		RunID:      runID,
		LastModify: time.Now().UTC().Truncate(time.Second),
		Tables:     make(map[string]string, len(files)),
	}

	for name, content := range files {
		m.Tables[name] = CalculateHash(content)
	}

	return m
}

// Names returns the signed file names in sorted order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Tables))
	for name := range m.Tables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Save writes the manifest as YAML into dir.
func (m *Manifest) Save(dir string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Load reads the manifest from dir.
func Load(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoManifest
		}

		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}

// Verify checks every file listed in the manifest in dir against its hash.
// All mismatches are reported together.
func Verify(dir string) (*Manifest, error) {
	m, err := Load(dir)
	if err != nil {
		return nil, err
	}

	if len(m.Tables) == 0 {
		return m, ErrEmptyTables
	}

	var errs []error

	for _, name := range m.Names() {
		expected := m.Tables[name]
		if expected == "" {
			errs = append(errs, fmt.Errorf("%s: %w", name, ErrNoHashFound))

			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))

			continue
		}

		if calculated := CalculateHash(content); calculated != expected {
			errs = append(errs, fmt.Errorf("%s: %w: expected %s, got %s", name, ErrHashMismatch, expected, calculated))
		}
	}

	return m, errors.Join(errs...)
}
