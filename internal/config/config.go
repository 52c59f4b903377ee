package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	LLMServerURL    string
	LLMModel        string
	GithubAPIURL    string
	CacheDir        string
	CacheBackend    string // "file" or "neo4j"
	Neo4jURI        string
	Neo4jUser       string
	Neo4jPass       string
	PageConcurrency int
}

func Load() *Config {
	return &Config{
		Port:            getEnv("BACKEND_PORT", "8001"),
		LLMServerURL:    getEnv("LLM_SERVER_URL", "http://localhost:8001"),
		LLMModel:        getEnv("LLM_MODEL", "gemini-2.5-pro"),
		GithubAPIURL:    getEnv("GITHUB_API_URL", "https://api.github.com"),
		CacheDir:        getEnv("WIKI_CACHE_DIR", "./wiki_cache"),
		CacheBackend:    getEnv("CACHE_BACKEND", "file"),
		Neo4jURI:        getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:       getEnv("NEO4J_USER", "neo4j"),
		Neo4jPass:       getEnv("NEO4J_PASSWORD", "codewiki_password"),
		PageConcurrency: getEnvInt("PAGE_CONCURRENCY", 1),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
