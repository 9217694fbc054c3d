package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	EmbedLLM LLMConfig      `yaml:"embed_llm"`
	ChatLLM  LLMConfig      `yaml:"chat_llm"`
	RAG      RAGConfig      `yaml:"rag"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Insecure bool   `yaml:"insecure"`
	Debug    bool   `yaml:"debug"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	BaseURL     string  `yaml:"base_url"`
	ProjectID   string  `yaml:"project_id"`
	Key         string  `yaml:"key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type RAGConfig struct {
	MaxWords              int    `yaml:"max_words"`
	OverlapWords          int    `yaml:"overlap_words"`
	TopK                  int    `yaml:"top_k"`
	Metric                string `yaml:"metric"`
	VectorSize            int    `yaml:"vector_size"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

const (
	DefaultMaxWords       = 200
	DefaultOverlapWords   = 50
	DefaultTopK           = 5
	DefaultMetric         = "euclidean"
	DefaultVectorSize     = 384
	DefaultRequestTimeout = 60
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Secrets may come from the environment instead of the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.ChatLLM.Key = v
	}
	if v := os.Getenv("EMBED_LLM_API_KEY"); v != "" {
		c.EmbedLLM.Key = v
	}
}

func (c *Config) applyDefaults() {
	if c.RAG.MaxWords == 0 {
		c.RAG.MaxWords = DefaultMaxWords
	}
	if c.RAG.OverlapWords == 0 {
		c.RAG.OverlapWords = DefaultOverlapWords
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = DefaultTopK
	}
	if c.RAG.Metric == "" {
		c.RAG.Metric = DefaultMetric
	}
	if c.RAG.VectorSize == 0 {
		c.RAG.VectorSize = DefaultVectorSize
	}
	if c.RAG.RequestTimeoutSeconds == 0 {
		c.RAG.RequestTimeoutSeconds = DefaultRequestTimeout
	}
	if c.EmbedLLM.Provider == "" {
		c.EmbedLLM.Provider = "ollama"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
}

func (c *Config) Validate() error {
	if c.RAG.MaxWords <= 0 {
		return fmt.Errorf("rag.max_words must be positive, got %d", c.RAG.MaxWords)
	}
	if c.RAG.OverlapWords < 0 {
		return fmt.Errorf("rag.overlap_words must not be negative, got %d", c.RAG.OverlapWords)
	}
	if c.RAG.OverlapWords >= c.RAG.MaxWords {
		return fmt.Errorf("rag.overlap_words (%d) must be smaller than rag.max_words (%d)",
			c.RAG.OverlapWords, c.RAG.MaxWords)
	}
	if c.RAG.TopK <= 0 {
		return fmt.Errorf("rag.top_k must be positive, got %d", c.RAG.TopK)
	}
	// The embedding dimension is a contract with the model and the vector
	// column, not a tunable.
	if c.RAG.VectorSize != DefaultVectorSize {
		return fmt.Errorf("rag.vector_size must be %d, got %d", DefaultVectorSize, c.RAG.VectorSize)
	}
	switch c.RAG.Metric {
	case "euclidean", "cosine", "inner_product":
	default:
		return fmt.Errorf("rag.metric %q is not one of euclidean, cosine, inner_product", c.RAG.Metric)
	}
	switch c.EmbedLLM.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("embed_llm.provider %q is not one of ollama, openai", c.EmbedLLM.Provider)
	}
	return nil
}
