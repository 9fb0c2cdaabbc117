package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rhyrak/pick-scheduler/internal/csvio"
	"github.com/rhyrak/pick-scheduler/internal/scheduler"
	"github.com/rhyrak/pick-scheduler/internal/weight"
	appErrors "github.com/rhyrak/pick-scheduler/pkg/errors"
	"github.com/rhyrak/pick-scheduler/pkg/model"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	RosterFile   string
	CapacityFile string
	ResultsDir   string
	MetricsFile  string

	Policy    string
	Weights   weight.Options
	Roster    csvio.RosterOptions
	Scheduler scheduler.Configuration

	Log    LogConfig
	Server ServerConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	Port       int
	StorageDir string
}

// New returns a viper instance with every default registered, reading an
// optional .env file and the process environment.
func New() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)
	return v
}

// Load reads configuration through v; flags bound onto v take precedence.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{
		Env:          v.GetString("ENV"),
		RosterFile:   v.GetString("ROSTER_FILE"),
		CapacityFile: v.GetString("CAPACITY_FILE"),
		ResultsDir:   v.GetString("RESULTS_DIR"),
		MetricsFile:  v.GetString("METRICS_FILE"),
		Policy:       v.GetString("WEIGHT_POLICY"),
	}
	if v.GetBool("EXP_WEIGHTING") {
		cfg.Policy = string(weight.KindExponential)
	}

	cfg.Weights = weight.DefaultOptions()
	cfg.Weights.ExponentBase = v.GetInt("EXP_BASE")
	cfg.Weights.Webtree.YearMultiplier[model.Senior] = v.GetInt("WEBTREE_SENIOR_MULTIPLIER")
	cfg.Weights.Webtree.YearMultiplier[model.Junior] = v.GetInt("WEBTREE_JUNIOR_MULTIPLIER")
	cfg.Weights.Webtree.YearMultiplier[model.Sophomore] = v.GetInt("WEBTREE_SOPHOMORE_MULTIPLIER")
	cfg.Weights.Webtree.PrimaryMajor = v.GetInt("WEBTREE_PRIMARY_MAJOR_MULTIPLIER")
	cfg.Weights.Webtree.SecondaryMajor = v.GetInt("WEBTREE_SECONDARY_MAJOR_MULTIPLIER")
	if err := cfg.Weights.Webtree.Check(); err != nil {
		return nil, err
	}

	delim, err := parseDelimiter(v.GetString("CSV_DELIMITER"))
	if err != nil {
		return nil, err
	}
	cfg.Roster = csvio.RosterOptions{
		Delimiter:         delim,
		IdentityColumns:   v.GetInt("IDENTITY_COLUMNS"),
		PeriodCount:       v.GetInt("PERIOD_COUNT"),
		ClassYearColumn:   v.GetString("CLASS_YEAR_COLUMN"),
		MajorColumn:       v.GetString("MAJOR_COLUMN"),
		SecondMajorColumn: v.GetString("SECOND_MAJOR_COLUMN"),
	}

	timeout, err := parseDuration("SOLVER_TIMEOUT", v.GetString("SOLVER_TIMEOUT"))
	if err != nil {
		return nil, err
	}
	cfg.Scheduler = scheduler.Configuration{
		Capacity: model.Capacity{
			Min: v.GetInt("CAPACITY_MIN"),
			Max: v.GetInt("CAPACITY_MAX"),
		},
		EnforceMinCapacity: v.GetBool("ENFORCE_MIN_CAPACITY"),
		SolverTimeout:      timeout,
	}
	if err := cfg.Scheduler.Check(); err != nil {
		return nil, err
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}
	cfg.Server = ServerConfig{
		Port:       v.GetInt("PORT"),
		StorageDir: v.GetString("STORAGE_DIR"),
	}
	return cfg, nil
}

// PolicyFor builds the weight policy selected by the configuration.
func (c *Config) PolicyFor() (weight.Policy, error) {
	return weight.New(c.Policy, c.Weights)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("ROSTER_FILE", "CoursePicks.csv")
	v.SetDefault("CAPACITY_FILE", "")
	v.SetDefault("RESULTS_DIR", "results")
	v.SetDefault("METRICS_FILE", "")

	v.SetDefault("WEIGHT_POLICY", string(weight.KindLinear))
	v.SetDefault("EXP_WEIGHTING", false)
	v.SetDefault("EXP_BASE", 5)
	v.SetDefault("WEBTREE_SENIOR_MULTIPLIER", 4)
	v.SetDefault("WEBTREE_JUNIOR_MULTIPLIER", 3)
	v.SetDefault("WEBTREE_SOPHOMORE_MULTIPLIER", 2)
	v.SetDefault("WEBTREE_PRIMARY_MAJOR_MULTIPLIER", 1)
	v.SetDefault("WEBTREE_SECONDARY_MAJOR_MULTIPLIER", 1)

	v.SetDefault("CSV_DELIMITER", ",")
	v.SetDefault("IDENTITY_COLUMNS", 3)
	v.SetDefault("PERIOD_COUNT", 4)
	v.SetDefault("CLASS_YEAR_COLUMN", "Class Year")
	v.SetDefault("MAJOR_COLUMN", "Major")
	v.SetDefault("SECOND_MAJOR_COLUMN", "Second Major")

	v.SetDefault("CAPACITY_MIN", 5)
	v.SetDefault("CAPACITY_MAX", 10)
	v.SetDefault("ENFORCE_MIN_CAPACITY", true)
	v.SetDefault("SOLVER_TIMEOUT", "0s")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("PORT", 3001)
	v.SetDefault("STORAGE_DIR", "db")
}

// parseDuration accepts Go durations such as "90s" or "2m". Empty means zero.
func parseDuration(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInvalidConfig.Code, fmt.Sprintf("%s %q is not a duration", key, value))
	}
	return d, nil
}

func parseDelimiter(value string) (rune, error) {
	if value == `\t` || value == "tab" {
		return '\t', nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, appErrors.Clone(appErrors.ErrInvalidConfig, fmt.Sprintf("delimiter %q must be a single character", value))
	}
	r, _ := utf8.DecodeRuneInString(value)
	return r, nil
}
