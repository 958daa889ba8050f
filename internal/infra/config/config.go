package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	LLM        LLMConfig        `yaml:"llm"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Artifacts  ArtifactConfig   `yaml:"artifacts"`
	Strava     StravaConfig     `yaml:"strava"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// AuthConfig holds the shared bearer credential accepted by /submit.
type AuthConfig struct {
	APIKey string `yaml:"apiKey"`
}

// LLMConfig contains the chat completion endpoint settings.
type LLMConfig struct {
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// AnalysisConfig controls the staged lesson analysis.
type AnalysisConfig struct {
	MaxAttempts int           `yaml:"maxAttempts"`
	Prompts     PromptsConfig `yaml:"prompts"`
}

// PromptsConfig overrides the built-in instructions when set. Transcript must
// contain the {transcript} placeholder.
type PromptsConfig struct {
	Transcript string `yaml:"transcript"`
	Intensity  string `yaml:"intensity"`
	Scores     string `yaml:"scores"`
	Title      string `yaml:"title"`
}

// TranscriptConfig controls caption retrieval.
type TranscriptConfig struct {
	Language      string `yaml:"language"`
	YtDLPBinary   string `yaml:"ytdlpBinary"`
	MaxTokens     int    `yaml:"maxTokens"`
	FetchAttempts int    `yaml:"fetchAttempts"`
}

// ArtifactConfig selects where transient subtitle files are written.
type ArtifactConfig struct {
	Backend  string        `yaml:"backend"`
	Dir      string        `yaml:"dir"`
	TTL      time.Duration `yaml:"ttl"`
	Compress bool          `yaml:"compress"`
	R2       R2Config      `yaml:"r2"`
	Valkey   ValkeyConfig  `yaml:"valkey"`
}

// R2Config contains S3-compatible storage credentials.
type R2Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// ValkeyConfig contains connection information for the Valkey artifact store.
type ValkeyConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// StravaConfig holds the activity service credentials and endpoints.
type StravaConfig struct {
	ClientID     string        `yaml:"clientId"`
	ClientSecret string        `yaml:"clientSecret"`
	RefreshToken string        `yaml:"refreshToken"`
	TokenURL     string        `yaml:"tokenUrl"`
	APIBaseURL   string        `yaml:"apiBaseUrl"`
	SportType    string        `yaml:"sportType"`
	StartBuffer  time.Duration `yaml:"startBuffer"`
	Timeout      time.Duration `yaml:"timeout"`
}

const (
	ArtifactBackendLocal  = "local"
	ArtifactBackendR2     = "r2"
	ArtifactBackendValkey = "valkey"
)

// Load reads configuration from an optional .env file, a YAML file and environment variables.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_WRITE_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.WriteTimeout = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("YOGAVA_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("ANALYSIS_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("TRANSCRIPT_LANGUAGE"); v != "" {
		cfg.Transcript.Language = v
	}
	if v := os.Getenv("YTDLP_BINARY"); v != "" {
		cfg.Transcript.YtDLPBinary = v
	}
	if v := os.Getenv("TRANSCRIPT_MAX_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Transcript.MaxTokens = parsed
		}
	}
	if v := os.Getenv("ARTIFACT_BACKEND"); v != "" {
		cfg.Artifacts.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("ARTIFACT_DIR"); v != "" {
		cfg.Artifacts.Dir = v
	}
	if v := os.Getenv("ARTIFACT_COMPRESS"); v != "" {
		cfg.Artifacts.Compress = parseBool(v)
	}
	if v := os.Getenv("R2_ENDPOINT"); v != "" {
		cfg.Artifacts.R2.Endpoint = v
	}
	if v := os.Getenv("R2_ACCESS_KEY"); v != "" {
		cfg.Artifacts.R2.AccessKey = v
	}
	if v := os.Getenv("R2_SECRET_KEY"); v != "" {
		cfg.Artifacts.R2.SecretKey = v
	}
	if v := os.Getenv("R2_BUCKET"); v != "" {
		cfg.Artifacts.R2.Bucket = v
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Artifacts.Valkey.Addr = v
	}
	if v := os.Getenv("STRAVA_CLIENT_ID"); v != "" {
		cfg.Strava.ClientID = v
	}
	if v := os.Getenv("STRAVA_CLIENT_SECRET"); v != "" {
		cfg.Strava.ClientSecret = v
	}
	if v := os.Getenv("STRAVA_REFRESH_TOKEN"); v != "" {
		cfg.Strava.RefreshToken = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Minute,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 6,
				Burst:             3,
			},
		},
		LLM: LLMConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			Model:   "google/gemini-2.0-flash-thinking-exp:free",
			Timeout: 3 * time.Minute,
		},
		Analysis: AnalysisConfig{
			MaxAttempts: 3,
		},
		Transcript: TranscriptConfig{
			Language:      "en",
			YtDLPBinary:   "yt-dlp",
			MaxTokens:     60000,
			FetchAttempts: 3,
		},
		Artifacts: ArtifactConfig{
			Backend: ArtifactBackendLocal,
			Dir:     "subtitles",
			TTL:     time.Hour,
			Valkey: ValkeyConfig{
				Prefix: "yogava:artifact",
			},
		},
		Strava: StravaConfig{
			TokenURL:    "https://www.strava.com/oauth/token",
			APIBaseURL:  "https://www.strava.com/api/v3",
			SportType:   "Yoga",
			StartBuffer: 60 * time.Second,
			Timeout:     30 * time.Second,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.Auth.APIKey) == "" {
		return errors.New("auth.apiKey cannot be empty")
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return errors.New("llm.apiKey cannot be empty")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.Analysis.MaxAttempts <= 0 {
		return errors.New("analysis.maxAttempts must be positive")
	}
	if strings.TrimSpace(c.Transcript.Language) == "" {
		return errors.New("transcript.language cannot be empty")
	}
	if c.Transcript.MaxTokens < 0 {
		return errors.New("transcript.maxTokens cannot be negative")
	}
	if strings.TrimSpace(c.Strava.ClientID) == "" || strings.TrimSpace(c.Strava.ClientSecret) == "" {
		return errors.New("strava.clientId and strava.clientSecret are required")
	}
	if _, err := strconv.Atoi(c.Strava.ClientID); err != nil {
		return errors.New("strava.clientId must be numeric")
	}
	if strings.TrimSpace(c.Strava.RefreshToken) == "" {
		return errors.New("strava.refreshToken cannot be empty")
	}
	if c.Strava.StartBuffer < 0 {
		return errors.New("strava.startBuffer cannot be negative")
	}
	switch c.Artifacts.Backend {
	case ArtifactBackendLocal:
		if strings.TrimSpace(c.Artifacts.Dir) == "" {
			return errors.New("artifacts.dir cannot be empty for the local backend")
		}
	case ArtifactBackendR2:
		r2 := c.Artifacts.R2
		if r2.Endpoint == "" || r2.AccessKey == "" || r2.SecretKey == "" || r2.Bucket == "" {
			return errors.New("artifacts.r2 endpoint, accessKey, secretKey and bucket are required")
		}
	case ArtifactBackendValkey:
		if strings.TrimSpace(c.Artifacts.Valkey.Addr) == "" {
			return errors.New("artifacts.valkey.addr cannot be empty")
		}
	default:
		return fmt.Errorf("unknown artifacts.backend %q", c.Artifacts.Backend)
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
