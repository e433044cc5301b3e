// Package cli 는 sentinelctl 유지보수 명령을 제공한다.
package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
	"github.com/Sanjaykumaar123/sentinelnet/internal/logging"
	"github.com/Sanjaykumaar123/sentinelnet/internal/metrics"
	"github.com/Sanjaykumaar123/sentinelnet/internal/randx"
	"github.com/Sanjaykumaar123/sentinelnet/internal/scanner"
	"github.com/Sanjaykumaar123/sentinelnet/internal/store"
)

const envPrefix = "SENTINELCTL"

// runtime 은 명령이 공유하는 의존성이다.
type runtime struct {
	cfg     *config.Config
	repo    *store.Repository
	scanner *scanner.Scanner
	metrics *metrics.Store
	logger  *slog.Logger
}

func (rt *runtime) close() {
	if rt != nil && rt.repo != nil {
		rt.repo.Close()
	}
}

// Execute 는 sentinelctl 진입점이다.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd 는 환경 변수/플래그로 설정을 읽는 루트 명령을 만든다.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

// newRootCmd 는 preset 이 있으면 설정 로딩을 건너뛴다.
func newRootCmd(preset *runtime) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	rt := preset
	root := &cobra.Command{
		Use:           "sentinelctl",
		Short:         "SentinelNet maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt != nil {
				return nil
			}
			built, err := buildRuntime(v)
			if err != nil {
				return err
			}
			rt = built
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if preset == nil {
				rt.close()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("db-driver", "", "database driver override (postgres, sqlite)")
	flags.String("database-url", "", "postgres connection URL override")
	flags.String("sqlite-path", "", "sqlite file path override")
	flags.String("rulepack", "", "scanner rulepack path override")
	for _, name := range []string{"db-driver", "database-url", "sqlite-path", "rulepack"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	get := func() *runtime { return rt }
	root.AddCommand(
		newResetDBCmd(get),
		newViewDBCmd(get),
		newFixChannelsCmd(get),
		newFixDMReceiversCmd(get),
		newPurgeMessagesCmd(get),
		newPurgeVulgarCmd(get),
		newScanCmd(get),
	)
	return root
}

func buildRuntime(v *viper.Viper) (*runtime, error) {
	cfg := config.Load()
	applyOverrides(cfg, v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Logging, false)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	rules, err := scanner.LoadRules(cfg.Scanner.RulepackPath, cfg.Scanner.ExtraVulgar)
	if err != nil {
		return nil, fmt.Errorf("rulepack: %w", err)
	}
	sc, err := scanner.New(rules, randx.New(nil))
	if err != nil {
		return nil, fmt.Errorf("scanner: %w", err)
	}

	return &runtime{
		cfg:     cfg,
		repo:    store.NewRepository(cfg, logger),
		scanner: sc,
		metrics: metrics.NewStore(nil),
		logger:  logger,
	}, nil
}

// applyOverrides 는 플래그/SENTINELCTL_* 값이 있으면 환경 설정을 덮어쓴다.
func applyOverrides(cfg *config.Config, v *viper.Viper) {
	if driver := strings.ToLower(strings.TrimSpace(v.GetString("db-driver"))); driver != "" {
		cfg.Database.Driver = driver
	}
	if url := strings.TrimSpace(v.GetString("database-url")); url != "" {
		cfg.Database.URL = url
		if v.GetString("db-driver") == "" {
			cfg.Database.Driver = config.DriverPostgres
		}
	}
	if path := strings.TrimSpace(v.GetString("sqlite-path")); path != "" {
		cfg.Database.SQLitePath = path
		if v.GetString("db-driver") == "" && v.GetString("database-url") == "" {
			cfg.Database.Driver = config.DriverSQLite
		}
	}
	if rulepack := strings.TrimSpace(v.GetString("rulepack")); rulepack != "" {
		cfg.Scanner.RulepackPath = rulepack
	}
	// 관리 명령은 토큰을 다루지 않으므로 외부 저장소에 붙지 않는다.
	cfg.TokenStore.Enabled = false
	cfg.TokenStore.Required = false
}
