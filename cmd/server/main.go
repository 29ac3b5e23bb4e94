package main

import (
	"crypto/rand"
	"database/sql"
	"log"
	"log/slog"
	"net/http"

	_ "modernc.org/sqlite"

	emailPkg "dojo/internal/adapters/email"
	web "dojo/internal/adapters/http"
	"dojo/internal/adapters/http/perf"
	"dojo/internal/adapters/identity"
	"dojo/internal/adapters/storage"
	accountStore "dojo/internal/adapters/storage/account"
	auditStore "dojo/internal/adapters/storage/audit"
	childStore "dojo/internal/adapters/storage/child"
	classLogStore "dojo/internal/adapters/storage/classlog"
	gymClassStore "dojo/internal/adapters/storage/gymclass"
	membershipStore "dojo/internal/adapters/storage/membership"
	profileStore "dojo/internal/adapters/storage/profile"
	trainingLogStore "dojo/internal/adapters/storage/traininglog"
	waiverStore "dojo/internal/adapters/storage/waiver"
	"dojo/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// WAL mode, foreign keys and busy timeout for concurrent handlers
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)

	stores := &web.Stores{
		CredentialStore:  accountStore.NewSQLiteStore(timedDB),
		ProfileStore:     profileStore.NewSQLiteStore(timedDB),
		PlanStore:        membershipStore.NewPlanSQLiteStore(timedDB),
		AssignmentStore:  membershipStore.NewAssignmentSQLiteStore(timedDB),
		TrainingLogStore: trainingLogStore.NewSQLiteStore(timedDB),
		ClassStore:       gymClassStore.NewSQLiteStore(timedDB),
		ClassLogStore:    classLogStore.NewSQLiteStore(timedDB),
		ChildStore:       childStore.NewSQLiteStore(timedDB),
		WaiverStore:      waiverStore.NewSQLiteStore(timedDB),
		AuditStore:       auditStore.NewSQLiteStore(timedDB),
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		// Sessions do not survive a restart in development.
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("failed to generate session secret: %v", err)
		}
		log.Println("GYM_SESSION_SECRET not set; using an ephemeral secret")
	}

	var roles identity.RoleChecker = identity.StoreRoleChecker{Profiles: stores.ProfileStore}
	if cfg.BackendURL != "" {
		roles = identity.NewRPCRoleChecker(cfg.BackendURL, cfg.BackendAnonKey)
		log.Printf("Role checks delegated to %s", cfg.BackendURL)
	}
	provider := &identity.Local{
		Credentials:   stores.CredentialStore,
		Tokens:        identity.NewTokens(secret, identity.DefaultSessionTTL),
		Roles:         roles,
		SecureCookies: cfg.IsProduction(),
	}

	var sender emailPkg.Sender
	var leads emailPkg.LeadNotifier = emailPkg.LogNotifier{}
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.MailFrom, cfg.ReplyTo)
		leads = emailPkg.MailNotifier{Sender: sender, Inbox: cfg.ReplyTo}
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			log.Println("WARNING: GYM_RESEND_KEY is not set, reminder e-mails are DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set GYM_RESEND_KEY for real delivery)")
		}
	}

	handler, err := web.NewMux("static", cfg, stores, web.Services{
		Identity: provider,
		Sender:   sender,
		Leads:    leads,
		Perf:     collector,
	})
	if err != nil {
		log.Fatalf("failed to build handler: %v", err)
	}

	slog.Info("server_start", "version", version, "addr", cfg.Addr, "env", cfg.Env, "schema", storage.LatestSchemaVersion())
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
