package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/swos-squad-import/internal/platform/logging"
)

const (
	SinkCSV      = "csv"
	SinkJSONL    = "jsonl"
	SinkPostgres = "postgres"
	SinkMemory   = "memory"
)

const defaultLeagueURL = "https://www.transfermarkt.com/premier-league/startseite/wettbewerb/GB1"

// Config stores runtime configuration for the importer.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level
	LogFormat      logging.Format

	LeagueURL        string
	Country          string
	NumberOfClubs    int
	CurrentSeason    string
	SeasonYear       int
	MaxClubWorkers   int
	MaxPlayerWorkers int
	LookupDir        string

	TMBaseURL      string
	TMUserAgent    string
	TMTimeout      time.Duration
	TMPageCacheTTL time.Duration

	SinkKinds               []string
	OutputDir               string
	DBURL                   string
	DBDisablePreparedBinary bool

	UptraceEnabled bool
	UptraceDSN     string
	PushgatewayURL string
}

func Load() (Config, error) {
	return load(time.Now())
}

func load(now time.Time) (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	logFormatDefault := string(logging.FormatConsole)
	if appEnv == EnvProd {
		logFormatDefault = string(logging.FormatJSON)
	}
	logFormat, err := parseLogFormat(getEnv("APP_LOG_FORMAT", logFormatDefault))
	if err != nil {
		return Config{}, err
	}

	numberOfClubs, err := getEnvAsInt("IMPORT_NUMBER_OF_CLUBS", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse IMPORT_NUMBER_OF_CLUBS: %w", err)
	}
	if numberOfClubs < 0 {
		return Config{}, fmt.Errorf("IMPORT_NUMBER_OF_CLUBS must be >= 0")
	}

	seasonYear, err := getEnvAsInt("IMPORT_SEASON_YEAR", now.Year())
	if err != nil {
		return Config{}, fmt.Errorf("parse IMPORT_SEASON_YEAR: %w", err)
	}
	if seasonYear < 1900 {
		return Config{}, fmt.Errorf("IMPORT_SEASON_YEAR must be >= 1900")
	}

	currentSeason := strings.TrimSpace(getEnv("IMPORT_CURRENT_SEASON", SeasonLabel(seasonStartYear(now))))

	maxClubWorkers, err := getEnvAsInt("IMPORT_MAX_CLUB_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse IMPORT_MAX_CLUB_WORKERS: %w", err)
	}
	if maxClubWorkers <= 0 {
		return Config{}, fmt.Errorf("IMPORT_MAX_CLUB_WORKERS must be > 0")
	}

	maxPlayerWorkers, err := getEnvAsInt("IMPORT_MAX_PLAYER_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse IMPORT_MAX_PLAYER_WORKERS: %w", err)
	}
	if maxPlayerWorkers <= 0 {
		return Config{}, fmt.Errorf("IMPORT_MAX_PLAYER_WORKERS must be > 0")
	}

	tmTimeout, err := time.ParseDuration(getEnv("TM_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TM_TIMEOUT: %w", err)
	}
	if tmTimeout <= 0 {
		return Config{}, fmt.Errorf("TM_TIMEOUT must be > 0")
	}

	tmPageCacheTTL, err := time.ParseDuration(getEnv("TM_PAGE_CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TM_PAGE_CACHE_TTL: %w", err)
	}
	if tmPageCacheTTL <= 0 {
		return Config{}, fmt.Errorf("TM_PAGE_CACHE_TTL must be > 0")
	}

	sinkKinds, err := ParseSinkKinds(getEnv("SINK_KINDS", SinkCSV))
	if err != nil {
		return Config{}, err
	}

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if containsSink(sinkKinds, SinkPostgres) && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when SINK_KINDS contains %s", SinkPostgres)
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	return Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "swos-squad-import"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                logLevel,
		LogFormat:               logFormat,
		LeagueURL:               strings.TrimSpace(getEnv("IMPORT_LEAGUE_URL", defaultLeagueURL)),
		Country:                 strings.TrimSpace(getEnv("IMPORT_COUNTRY", "")),
		NumberOfClubs:           numberOfClubs,
		CurrentSeason:           currentSeason,
		SeasonYear:              seasonYear,
		MaxClubWorkers:          maxClubWorkers,
		MaxPlayerWorkers:        maxPlayerWorkers,
		LookupDir:               strings.TrimSpace(getEnv("LOOKUP_DIR", "")),
		TMBaseURL:               strings.TrimSpace(getEnv("TM_BASE_URL", "https://www.transfermarkt.com")),
		TMUserAgent:             getEnv("TM_USER_AGENT", ""),
		TMTimeout:               tmTimeout,
		TMPageCacheTTL:          tmPageCacheTTL,
		SinkKinds:               sinkKinds,
		OutputDir:               strings.TrimSpace(getEnv("OUTPUT_DIR", "out")),
		DBURL:                   dbURL,
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		UptraceEnabled:          uptraceEnabled,
		UptraceDSN:              uptraceDSN,
		PushgatewayURL:          strings.TrimSpace(getEnv("PUSHGATEWAY_URL", "")),
	}, nil
}

// SeasonLabel renders the two-digit season label used on statistics pages,
// e.g. 2025 -> "25/26".
func SeasonLabel(startYear int) string {
	return fmt.Sprintf("%02d/%02d", startYear%100, (startYear+1)%100)
}

// seasonStartYear treats July as the first month of a season.
func seasonStartYear(now time.Time) int {
	if now.Month() >= time.July {
		return now.Year()
	}
	return now.Year() - 1
}

func (c Config) HasSink(kind string) bool {
	return containsSink(c.SinkKinds, kind)
}

// ParseSinkKinds validates a comma separated sink list and drops duplicates.
func ParseSinkKinds(raw string) ([]string, error) {
	kinds := splitCSV(strings.ToLower(raw))
	if len(kinds) == 0 {
		return nil, fmt.Errorf("SINK_KINDS cannot be empty")
	}

	out := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		switch kind {
		case SinkCSV, SinkJSONL, SinkPostgres, SinkMemory:
		default:
			return nil, fmt.Errorf("invalid SINK_KINDS item %q: valid values are %s, %s, %s, %s", kind, SinkCSV, SinkJSONL, SinkPostgres, SinkMemory)
		}
		if containsSink(out, kind) {
			continue
		}
		out = append(out, kind)
	}
	return out, nil
}

func containsSink(kinds []string, kind string) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func parseLogFormat(v string) (logging.Format, error) {
	switch format := logging.Format(strings.ToLower(strings.TrimSpace(v))); format {
	case logging.FormatJSON, logging.FormatConsole:
		return format, nil
	default:
		return "", fmt.Errorf("invalid APP_LOG_FORMAT %q: valid values are %s, %s", v, logging.FormatJSON, logging.FormatConsole)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
