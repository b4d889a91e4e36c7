package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Data       DataConfig       `mapstructure:"data"`
	Providers  ProvidersConfig  `mapstructure:"providers"`
	Options    OptionsConfig    `mapstructure:"options"`
	Screener   ScreenerConfig   `mapstructure:"screener"`
	Simulator  SimulatorConfig  `mapstructure:"simulator"`
	Allocation AllocationConfig `mapstructure:"allocation"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

// DataConfig selects mock vs live sources and bounds the memo cache.
type DataConfig struct {
	Mode     string        `mapstructure:"mode"` // "mock" or "live"
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	MockSeed int64         `mapstructure:"mock_seed"`
}

func (d DataConfig) Mock() bool {
	return strings.EqualFold(strings.TrimSpace(d.Mode), "mock")
}

type ProvidersConfig struct {
	Yahoo        YahooConfig        `mapstructure:"yahoo"`
	Tradier      TradierConfig      `mapstructure:"tradier"`
	Stooq        StooqConfig        `mapstructure:"stooq"`
	AlphaVantage AlphaVantageConfig `mapstructure:"alphavantage"`
}

type YahooConfig struct {
	QuoteBaseURL string        `mapstructure:"quote_base_url"`
	DataBaseURL  string        `mapstructure:"data_base_url"`
	UserAgent    string        `mapstructure:"user_agent"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

type TradierConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type StooqConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AlphaVantageConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type OptionsConfig struct {
	RiskFreeRate   float64 `mapstructure:"risk_free_rate"`
	TargetAbsDelta float64 `mapstructure:"target_abs_delta"`
	MinDTE         int     `mapstructure:"min_dte"`
	MaxDTE         int     `mapstructure:"max_dte"`
	MinOpenInt     int64   `mapstructure:"min_open_interest"`
	MinVolume      int64   `mapstructure:"min_volume"`
}

type ScreenerConfig struct {
	DefaultUniverse []string      `mapstructure:"default_universe"`
	PaceDelay       time.Duration `mapstructure:"pace_delay"`
	HistoryDays     int           `mapstructure:"history_days"`
	MaxIdeas        int           `mapstructure:"max_ideas"`
}

type SimulatorConfig struct {
	DefaultPaths int `mapstructure:"default_paths"`
	MaxPaths     int `mapstructure:"max_paths"`
	MaxDays      int `mapstructure:"max_days"`
	PlotSamples  int `mapstructure:"plot_samples"`
}

type AllocationConfig struct {
	Samples int `mapstructure:"samples"`
	TopN    int `mapstructure:"top_n"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("QA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)

	v.SetDefault("data.mode", "mock")
	v.SetDefault("data.cache_ttl", "120s")
	v.SetDefault("data.mock_seed", 42)

	v.SetDefault("providers.yahoo.quote_base_url", "https://query2.finance.yahoo.com")
	v.SetDefault("providers.yahoo.data_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("providers.yahoo.user_agent", "Mozilla/5.0 (compatible; QuantAssistant/1.0)")
	v.SetDefault("providers.yahoo.timeout", "10s")
	v.SetDefault("providers.yahoo.max_retries", 2)
	v.SetDefault("providers.yahoo.retry_backoff", "300ms")
	v.SetDefault("providers.tradier.base_url", "https://api.tradier.com")
	v.SetDefault("providers.tradier.token", "")
	v.SetDefault("providers.tradier.timeout", "15s")
	v.SetDefault("providers.stooq.base_url", "https://stooq.com")
	v.SetDefault("providers.stooq.timeout", "15s")
	v.SetDefault("providers.alphavantage.base_url", "https://www.alphavantage.co")
	v.SetDefault("providers.alphavantage.api_key", "")
	v.SetDefault("providers.alphavantage.timeout", "30s")

	v.SetDefault("options.risk_free_rate", 0.0)
	v.SetDefault("options.target_abs_delta", 0.25)
	v.SetDefault("options.min_dte", 21)
	v.SetDefault("options.max_dte", 45)
	v.SetDefault("options.min_open_interest", 50)
	v.SetDefault("options.min_volume", 10)

	v.SetDefault("screener.default_universe", []string{
		"AAPL", "MSFT", "NVDA", "AMZN", "META", "GOOGL", "TSLA", "AMD", "JPM", "XOM",
	})
	v.SetDefault("screener.pace_delay", "75ms")
	v.SetDefault("screener.history_days", 180)
	v.SetDefault("screener.max_ideas", 3)

	v.SetDefault("simulator.default_paths", 2000)
	v.SetDefault("simulator.max_paths", 20000)
	v.SetDefault("simulator.max_days", 365)
	v.SetDefault("simulator.plot_samples", 300)

	v.SetDefault("allocation.samples", 5000)
	v.SetDefault("allocation.top_n", 25)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
