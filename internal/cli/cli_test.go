package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/goccy/go-json"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/Sanjaykumaar123/sentinelnet/internal/auth"
	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
	"github.com/Sanjaykumaar123/sentinelnet/internal/logging"
	"github.com/Sanjaykumaar123/sentinelnet/internal/metrics"
	"github.com/Sanjaykumaar123/sentinelnet/internal/scanner"
	"github.com/Sanjaykumaar123/sentinelnet/internal/store"
)

type fixedJitter struct{}

func (fixedJitter) Uniform(lo, _ float64) float64 { return lo }

func newTestRuntime(t *testing.T) *runtime {
	t.Helper()
	rt, _ := newTestRuntimeDB(t)
	return rt
}

func newTestRuntimeDB(t *testing.T) (*runtime, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	logger := logging.Discard()
	repo, err := store.NewRepositoryWithDB(context.Background(), db, logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(repo.Close)

	sc, err := scanner.New(scanner.DefaultRules(), fixedJitter{})
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{Auth: config.AuthConfig{
		SecretKey:                "test-secret",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 60,
		BcryptCost:               4,
	}}
	return &runtime{cfg: cfg, repo: repo, scanner: sc, metrics: metrics.NewStore(nil), logger: logger}, db
}

func run(t *testing.T, rt *runtime, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(rt)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func addMessage(t *testing.T, rt *runtime, senderID uint, text string, channelID string) *store.Message {
	t.Helper()
	msg := &store.Message{SenderID: senderID, ContentEncrypted: text, ChannelID: channelID, Timestamp: time.Now().UTC()}
	if err := rt.repo.CreateMessage(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	return msg
}

func TestScanCommand(t *testing.T) {
	rt := newTestRuntime(t)

	out, err := run(t, rt, "scan", "the", "bomb", "is", "ready")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	var result scanner.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if result.OpsecRisk != scanner.OpsecHigh {
		t.Fatalf("unexpected verdict: %+v", result)
	}

	if _, err := run(t, rt, "scan"); err == nil {
		t.Fatalf("expected missing argument error")
	}
}

func TestResetDBSeedsAdmin(t *testing.T) {
	rt := newTestRuntime(t)
	addMessage(t, rt, 1, "hello", "general")

	if _, err := run(t, rt, "reset-db"); err == nil {
		t.Fatalf("expected confirmation error")
	}

	out, err := run(t, rt, "reset-db", "--yes")
	if err != nil {
		t.Fatalf("reset-db: %v", err)
	}
	if !strings.Contains(out, auth.DefaultAdminEmail) {
		t.Fatalf("unexpected output: %s", out)
	}

	admin, err := rt.repo.UserByEmail(context.Background(), auth.DefaultAdminEmail)
	if err != nil {
		t.Fatalf("admin lookup: %v", err)
	}
	if admin.Role != string(auth.RoleAdmin) || !auth.VerifyPassword(auth.DefaultAdminPassword, admin.HashedPassword) {
		t.Fatalf("unexpected admin: %+v", admin)
	}
	latest, err := rt.repo.LatestMessages(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(latest) != 0 {
		t.Fatalf("expected messages to be dropped, got %d", len(latest))
	}
}

func TestPurgeVulgar(t *testing.T) {
	rt := newTestRuntime(t)
	addMessage(t, rt, 1, "you bastard", "general")
	clean := addMessage(t, rt, 1, "status report at noon", "general")

	out, err := run(t, rt, "purge-vulgar", "--dry-run")
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !strings.Contains(out, "found 1") {
		t.Fatalf("unexpected dry run output: %s", out)
	}

	if _, err := run(t, rt, "purge-vulgar"); err != nil {
		t.Fatalf("purge-vulgar: %v", err)
	}
	latest, err := rt.repo.LatestMessages(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(latest) != 1 || latest[0].ID != clean.ID {
		t.Fatalf("unexpected remaining messages: %+v", latest)
	}
}

func TestPurgeMessagesAndFixChannels(t *testing.T) {
	rt, db := newTestRuntimeDB(t)
	first := addMessage(t, rt, 1, "one", "general")
	addMessage(t, rt, 1, "two", "general")
	addMessage(t, rt, 1, "three", "general")
	// 채널 컬럼이 없던 시절의 행
	if err := db.Model(&store.Message{}).Where("id = ?", first.ID).Update("channel_id", "").Error; err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, rt, "purge-messages"); err == nil {
		t.Fatalf("expected --last validation error")
	}
	out, err := run(t, rt, "purge-messages", "--last", "2")
	if err != nil {
		t.Fatalf("purge-messages: %v", err)
	}
	if !strings.Contains(out, "deleted 2") {
		t.Fatalf("unexpected output: %s", out)
	}

	out, err = run(t, rt, "fix-channels")
	if err != nil {
		t.Fatalf("fix-channels: %v", err)
	}
	if !strings.Contains(out, "updated 1") {
		t.Fatalf("unexpected output: %s", out)
	}
	msg, err := rt.repo.MessageByID(context.Background(), first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if msg.ChannelID != "general" {
		t.Fatalf("expected general channel, got %q", msg.ChannelID)
	}
}

func TestViewDB(t *testing.T) {
	rt := newTestRuntime(t)
	user := &store.User{Email: "a@sentinel.net", HashedPassword: "x", Role: "user", IsActive: true}
	if err := rt.repo.CreateUser(context.Background(), user); err != nil {
		t.Fatal(err)
	}
	addMessage(t, rt, user.ID, "hello", "general")

	out, err := run(t, rt, "view-db", "--limit", "5")
	if err != nil {
		t.Fatalf("view-db: %v", err)
	}
	var view dbView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(view.Users) != 1 || len(view.Messages) != 1 || view.Messages[0].Text != "hello" {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestApplyOverrides(t *testing.T) {
	v := viper.New()
	v.Set("sqlite-path", "/tmp/other.db")
	v.Set("rulepack", "/etc/sentinel/rules.yml")
	cfg := &config.Config{
		Database:   config.DatabaseConfig{Driver: config.DriverPostgres},
		TokenStore: config.TokenStoreConfig{Enabled: true, Required: true},
	}

	applyOverrides(cfg, v)
	if cfg.Database.Driver != config.DriverSQLite || cfg.Database.SQLitePath != "/tmp/other.db" {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Scanner.RulepackPath != "/etc/sentinel/rules.yml" {
		t.Fatalf("unexpected rulepack: %s", cfg.Scanner.RulepackPath)
	}
	if cfg.TokenStore.Enabled || cfg.TokenStore.Required {
		t.Fatalf("token store must be disabled for maintenance commands")
	}
}
