package agents

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	dom "github.com/cuihairu/agentdeck/internal/ports"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed resources.schema.json
var resourcesSchema string

// Resources describes the static assets and templates uploaded by
// InitGameResources. Asset fields hold either a local storage reference or
// an http(s) URL.
type Resources struct {
	Music  MusicResource `yaml:"music"`
	Map    MapResource   `yaml:"map"`
	Game   GameResource  `yaml:"game"`
	Agents []AgentLevel  `yaml:"agents"`
}

type MusicResource struct {
	Audio       string `yaml:"audio"`
	Cover       string `yaml:"cover"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
	Visibility  string `yaml:"visibility"`
}

type MapResource struct {
	Image       string `yaml:"image"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
	Visibility  string `yaml:"visibility"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
}

// AgentLevel is the agent template for one level.
type AgentLevel struct {
	Level       int    `yaml:"level"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Avatar      string `yaml:"avatar"`
	Sprite      string `yaml:"sprite"`
	Status      string `yaml:"status"`
	Visibility  string `yaml:"visibility"`
}

// config carries the raw sources; init replaces them with local refs.
func (l AgentLevel) config() dom.AgentConfig {
	return dom.AgentConfig{
		Name:            l.Name,
		Description:     l.Description,
		AvatarStorageID: l.Avatar,
		SpriteStorageID: l.Sprite,
		Status:          l.Status,
		Visibility:      l.Visibility,
	}
}

type GameResource struct {
	Background    string `yaml:"background"`
	Logo          string `yaml:"logo"`
	TwitterHandle string `yaml:"twitterHandle"`
	Title         string `yaml:"title"`
	UniqueTitle   bool   `yaml:"uniqueTitle"`
	Description   string `yaml:"description"`
	Visibility    string `yaml:"visibility"`
}

// LoadResources reads and validates a resources document.
func LoadResources(path string) (*Resources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseResources(data)
}

// ParseResources validates data against the embedded schema and decodes it.
func ParseResources(data []byte) (*Resources, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResources, err)
	}
	res, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(resourcesSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResources, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidResources, strings.Join(msgs, "; "))
	}

	var r Resources
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResources, err)
	}
	seen := map[int]bool{}
	for _, a := range r.Agents {
		if seen[a.Level] {
			return nil, fmt.Errorf("%w: duplicate agent level %d", ErrInvalidResources, a.Level)
		}
		seen[a.Level] = true
	}
	return &r, nil
}
