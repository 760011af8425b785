package internal

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	BaseURL         string        `yaml:"base_url"`
	AgentID         string        `yaml:"agent_id"`
	UserID          string        `yaml:"user_id"`
	AddTimeout      time.Duration `yaml:"add_timeout"`
	RetrieveTimeout time.Duration `yaml:"retrieve_timeout"`
	HealthTimeout   time.Duration `yaml:"health_timeout"`
}

// APIURL returns the versioned API root of the memory server.
func (c ServerConfig) APIURL() string {
	return c.BaseURL + "/api/v1"
}

type OpenSearchConfig struct {
	Addresses    []string `yaml:"addresses"`
	Username     string   `yaml:"username,omitempty"`
	Password     string   `yaml:"password,omitempty"`
	EmbeddingDim int      `yaml:"embedding_dim"`
	InsecureSSL  bool     `yaml:"insecure_ssl,omitempty"`
}

type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type TestConfig struct {
	DataFile    string `yaml:"data_file"`
	ReportDir   string `yaml:"report_dir"`
	StrictSmoke bool   `yaml:"strict_smoke"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Index      string           `yaml:"index"`
	OpenSearch OpenSearchConfig `yaml:"opensearch"`
	Neo4j      Neo4jConfig      `yaml:"neo4j"`
	Test       TestConfig       `yaml:"test"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:         "http://localhost:8080",
			AgentID:         "贾维斯",
			UserID:          "阿信",
			AddTimeout:      120 * time.Second,
			RetrieveTimeout: 60 * time.Second,
			HealthTimeout:   5 * time.Second,
		},
		Index: "memories",
		OpenSearch: OpenSearchConfig{
			Addresses:    []string{"http://localhost:9200"},
			EmbeddingDim: 4096,
		},
		Neo4j: Neo4jConfig{
			URI:      "neo4j://localhost:7687",
			Username: "neo4j",
			Password: "neo4j",
			Database: "neo4j",
		},
		Test: TestConfig{
			DataFile:  "data/test_data_complete.json",
			ReportDir: "data",
		},
	}
}

// LoadConfig reads a yaml config from path. A missing file yields the
// defaults so the harness works against a local stack out of the box.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
