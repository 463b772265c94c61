package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/casematch/internal/logger"
	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/refstore"
)

// Version is set at build time with -ldflags
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "casematch",
	Short: "casematch - precedent retrieval and rights/defense scoring for Indian criminal law",
	Long: `casematch turns a case narrative into a ranked list of similar precedents
and a ranked list of candidate rights and defense options.

It works on a fixed reference dataset of statute sections (IPC, CrPC, CPC,
Evidence Act, IT Act, MV Act) and landmark precedents, using lexical
TF-IDF similarity and rule-based relevance scores.

casematch is a drafting aid. It does not give legal advice.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose || viper.GetBool("output.verbose"))
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("casematch %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.casematch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("data", "", "reference dataset YAML (default: built-in)")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("data.reference_path", rootCmd.PersistentFlags().Lookup("data"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig loads .env, then the config file and CASEMATCH_* variables
func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".casematch"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// CASEMATCH_ENGINE_TOP_K overrides engine.top_k
	viper.SetEnvPrefix("CASEMATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so environment variables can
// override keys absent from the config file
func setDefaults(cfg *model.Config) {
	defaults := map[string]any{
		"engine.max_features":            cfg.Engine.MaxFeatures,
		"engine.ngram_max":               cfg.Engine.NGramMax,
		"engine.top_k":                   cfg.Engine.TopK,
		"data.reference_path":            cfg.Data.ReferencePath,
		"cache.enabled":                  cfg.Cache.Enabled,
		"cache.memory_ttl":               cfg.Cache.MemoryTTL,
		"cache.cleanup_interval":         cfg.Cache.CleanupInterval,
		"cache.dir":                      cfg.Cache.Dir,
		"cache.disk_ttl":                 cfg.Cache.DiskTTL,
		"concurrency.workers":            cfg.Concurrency.Workers,
		"concurrency.queries_per_second": cfg.Concurrency.QueriesPerSecond,
		"concurrency.queries_burst":      cfg.Concurrency.QueriesBurst,
		"server.addr":                    cfg.Server.Addr,
		"server.requests_per_second":     cfg.Server.RequestsPerSecond,
		"server.burst":                   cfg.Server.Burst,
		"fetch.timeout":                  cfg.Fetch.Timeout,
		"fetch.user_agent":               cfg.Fetch.UserAgent,
		"fetch.max_body_bytes":           cfg.Fetch.MaxBodyBytes,
		"fetch.insecure_tls":             cfg.Fetch.InsecureTLS,
		"fetch.http_proxy":               cfg.Fetch.HTTPProxy,
		"fetch.https_proxy":              cfg.Fetch.HTTPSProxy,
		"fetch.no_proxy":                 cfg.Fetch.NoProxy,
		"fetch.respect_robots":           cfg.Fetch.RespectRobots,
		"output.verbose":                 cfg.Output.Verbose,
		"output.format":                  cfg.Output.Format,
		"output.include_footer":          cfg.Output.IncludeFooter,
	}
	for key, val := range defaults {
		viper.SetDefault(key, val)
	}
}

// loadConfig resolves the effective configuration
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// loadStore opens the configured reference dataset
func loadStore(cfg *model.Config) (*refstore.Store, error) {
	if cfg.Data.ReferencePath == "" {
		return refstore.Default()
	}
	logger.Debug("loading reference data from %s", cfg.Data.ReferencePath)
	store, err := refstore.LoadFile(cfg.Data.ReferencePath)
	if err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}
	return store, nil
}

func loadConfigAndStore() (*model.Config, *refstore.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := loadStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}
