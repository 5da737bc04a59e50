package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/balancehq/practice-backend-go/internal/config"
	"github.com/balancehq/practice-backend-go/internal/domain/invitation"
	appHTTP "github.com/balancehq/practice-backend-go/internal/handler/http"
	"github.com/balancehq/practice-backend-go/internal/jobs"
	"github.com/balancehq/practice-backend-go/internal/migration"
	"github.com/balancehq/practice-backend-go/internal/pkg/database"
	"github.com/balancehq/practice-backend-go/internal/pkg/email"
	"github.com/balancehq/practice-backend-go/internal/pkg/jwt"
	"github.com/balancehq/practice-backend-go/internal/pkg/oauth"
	"github.com/balancehq/practice-backend-go/internal/repository/postgresql"
	"github.com/balancehq/practice-backend-go/internal/scheduler"
	serviceAuth "github.com/balancehq/practice-backend-go/internal/service/auth"
	serviceFirm "github.com/balancehq/practice-backend-go/internal/service/firm"
	serviceInvitation "github.com/balancehq/practice-backend-go/internal/service/invitation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	if err := migration.RunMigrations(db.SQLDB()); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	userRepo := postgresql.NewUserRepository(db)
	firmRepo := postgresql.NewFirmRepository(db)
	accountantRepo := postgresql.NewAccountantRepository(db)
	invitationRepo := postgresql.NewInvitationRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	auditRecorder := postgresql.NewAuditRecorder(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	GoogleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}

	invitation.SetUUIDBackfillComplete(cfg.Invitation.UUIDBackfillComplete)

	authService := serviceAuth.NewAuthService(db, userRepo, JWTService, JWTRepository)
	firmService := serviceFirm.NewFirmService(db, firmRepo, accountantRepo, userRepo, auditRecorder)
	invitationService := serviceInvitation.NewInvitationService(
		db,
		invitationRepo,
		firmRepo,
		accountantRepo,
		auditRecorder,
		emailService,
		cfg.Invitation.LinkBaseURL,
	)

	authHandler := appHTTP.NewAuthHandler(JWTService, authService, GoogleService, cfg.App.FrontendURL)
	firmHandler := appHTTP.NewFirmHandler(firmService)
	invitationHandler := appHTTP.NewInvitationHandler(invitationService)

	if cfg.Cron.Enabled {
		jobRunner := jobs.NewJobRunner(invitationRepo, JWTRepository, cfg)
		cronScheduler := scheduler.NewScheduler(jobRunner)
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	router := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		authHandler,
		firmHandler,
		invitationHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
