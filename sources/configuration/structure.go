package configuration

import (
	"time"
)

type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	AI        AIConfig        `yaml:"ai"`
	Search    SearchConfig    `yaml:"search"`
	Media     MediaConfig     `yaml:"media"`
	Queue     QueueConfig     `yaml:"queue"`
	Billing   BillingConfig   `yaml:"billing"`
	Proxy     ProxyConfig     `yaml:"proxy"`
	Network   NetworkConfig   `yaml:"network"`
	Throttler ThrottlerConfig `yaml:"throttler"`
	Features  FeaturesConfig  `yaml:"features"`
}

type ServiceConfig struct {
	StartupPort            int `yaml:"startup_port"`
	SystemMetricsPort      int `yaml:"system_metrics_port"`
	ApplicationMetricsPort int `yaml:"application_metrics_port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"ssl_mode"`
	TimeZone string `yaml:"time_zone"`

	ReplicaHosts []string `yaml:"replica_hosts"`
}

type RedisConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

type AIConfig struct {
	Provider string `yaml:"provider"`

	AzureEndpoint   string `yaml:"azure_endpoint"`
	AzureKey        string `yaml:"azure_key"`
	AzureDeployment string `yaml:"azure_deployment"`
	AzureAPIVersion string `yaml:"azure_api_version"`

	NativeModel     string `yaml:"native_model"`
	OpenRouterToken string `yaml:"open_router_token"`

	GeminiKey      string `yaml:"gemini_key"`
	GeminiModel    string `yaml:"gemini_model"`
	GeminiEndpoint string `yaml:"gemini_endpoint"`

	OpenAIToken  string `yaml:"openai_token"`
	OpenAIModel  string `yaml:"openai_model"`
	WhisperModel string `yaml:"whisper_model"`

	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type SearchConfig struct {
	Key      string        `yaml:"key"`
	Endpoint string        `yaml:"endpoint"`
	Count    int           `yaml:"count"`
	Timeout  time.Duration `yaml:"timeout"`
}

type MediaConfig struct {
	ImageHost   string `yaml:"image_host"`
	ImageKey    string `yaml:"image_key"`
	ImageEngine string `yaml:"image_engine"`

	SpeechHost  string `yaml:"speech_host"`
	SpeechKey   string `yaml:"speech_key"`
	SpeechVoice string `yaml:"speech_voice"`
	SpeechModel string `yaml:"speech_model"`
}

type QueueConfig struct {
	Concurrency   int           `yaml:"concurrency"`
	Retention     time.Duration `yaml:"retention"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type BillingConfig struct {
	FreeTokens    int64 `yaml:"free_tokens"`
	StarterTokens int64 `yaml:"starter_tokens"`
	ProTokens     int64 `yaml:"pro_tokens"`
	TeamTokens    int64 `yaml:"team_tokens"`

	FreeCredits    int64 `yaml:"free_credits"`
	StarterCredits int64 `yaml:"starter_credits"`
	ProCredits     int64 `yaml:"pro_credits"`
	TeamCredits    int64 `yaml:"team_credits"`

	TokenPrice  string `yaml:"token_price"`
	CreditPrice string `yaml:"credit_price"`
}

type ProxyConfig struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type NetworkConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type ThrottlerConfig struct {
	Limit      time.Duration `yaml:"limit"`
	HeavyLimit time.Duration `yaml:"heavy_limit"`
}

type FeaturesConfig struct {
	UnleashAPIURL     string `yaml:"unleash_api_url"`
	UnleashAppName    string `yaml:"unleash_app_name"`
	UnleashInstanceID string `yaml:"unleash_instance_id"`
	RefreshInterval   int    `yaml:"refresh_interval"`
}
