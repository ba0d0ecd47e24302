package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/pathway/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the project file looked up in a project directory.
const DefaultFile = "pathway.yaml"

// BubbleSpec declares one bubble and its outgoing edges.
type BubbleSpec struct {
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description,omitempty"`
	Depth       int      `yaml:"depth,omitempty"`
	Connections []string `yaml:"connections,omitempty"`
}

// RedisSpec configures the Redis snapshot store.
type RedisSpec struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password,omitempty"`
	DB       int           `yaml:"db,omitempty"`
	Prefix   string        `yaml:"prefix,omitempty"`
	TTL      time.Duration `yaml:"ttl,omitempty"`
}

// SQLiteSpec configures the SQLite trace recorder.
type SQLiteSpec struct {
	Path string `yaml:"path"`
}

// FileSpec configures the JSON file snapshot store.
type FileSpec struct {
	Dir string `yaml:"dir"`
}

// StorageSpec groups the optional persistence backends.
// Redis wins over File when both are set.
type StorageSpec struct {
	Redis  *RedisSpec  `yaml:"redis,omitempty"`
	File   *FileSpec   `yaml:"file,omitempty"`
	SQLite *SQLiteSpec `yaml:"sqlite,omitempty"`
}

// Project is the decoded project file.
type Project struct {
	Name      string  `yaml:"name"`
	Seed      *int64  `yaml:"seed,omitempty"`
	Horizon   float64 `yaml:"horizon,omitempty"`
	MaxEvents int     `yaml:"max_events,omitempty"`
	Start     string  `yaml:"start"`
	Agents    int     `yaml:"agents,omitempty"`

	Bubbles []BubbleSpec `yaml:"bubbles"`
	// Policy and Population are kept raw; they are decoded by the policy
	// and factory packages.
	Policy     map[string]any `yaml:"policy,omitempty"`
	Population map[string]any `yaml:"population,omitempty"`

	// Variant names a registered agent constructor. Empty means plain agents.
	Variant string `yaml:"variant,omitempty"`

	Storage StorageSpec `yaml:"storage,omitempty"`
}

// Parser is responsible for converting raw bytes into a Project.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a YAML project. Unknown top-level keys are rejected.
func (p *Parser) Parse(data []byte) (*Project, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var proj Project
	if err := dec.Decode(&proj); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: failed to parse project: %v", domain.ErrConfiguration, err)
	}

	if proj.Horizon < 0 || proj.MaxEvents < 0 || proj.Agents < 0 {
		return nil, fmt.Errorf("%w: horizon, max_events and agents must not be negative", domain.ErrConfiguration)
	}
	for i, b := range proj.Bubbles {
		if b.Slug == "" {
			return nil, fmt.Errorf("%w: bubble %d missing slug", domain.ErrConfiguration, i)
		}
	}
	return &proj, nil
}

// ParseFile reads and parses the project file at path.
func (p *Parser) ParseFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}
	return p.Parse(data)
}
