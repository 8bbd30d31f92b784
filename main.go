package main

import (
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mudler/xlog"

	"github.com/productivity-engines/website/core/deploy"
	"github.com/productivity-engines/website/core/sse"
	"github.com/productivity-engines/website/core/store"
	"github.com/productivity-engines/website/db"
	"github.com/productivity-engines/website/pkg/agentclient"
	"github.com/productivity-engines/website/pkg/gotrue"
	"github.com/productivity-engines/website/pkg/mailer"
	"github.com/productivity-engines/website/pkg/xstrings"
	"github.com/productivity-engines/website/webui"
)

var (
	listenAddr      string
	siteURL         string
	databaseURL     string
	supabaseURL     string
	supabaseAnonKey string
	serviceRoleKey  string
	jwtSecret       string
	agentAPIURL     string
	agentAPIKey     string
	agentTimeout    string
	adminEmails     string
	activationDelay string

	emailJSServiceID  string
	emailJSTemplateID string
	emailJSPublicKey  string
	emailJSPrivateKey string
	smtpServer        string
	smtpUsername      string
	smtpPassword      string
	contactEmailTo    string
)

func init() {
	// .env is optional
	_ = godotenv.Load()

	listenAddr = os.Getenv("LISTEN_ADDR")
	siteURL = os.Getenv("SITE_URL")
	databaseURL = os.Getenv("DATABASE_URL")
	supabaseURL = os.Getenv("SUPABASE_URL")
	supabaseAnonKey = os.Getenv("SUPABASE_ANON_KEY")
	serviceRoleKey = os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	jwtSecret = os.Getenv("SUPABASE_JWT_SECRET")
	agentAPIURL = os.Getenv("AGENT_API_URL")
	agentAPIKey = os.Getenv("AGENT_API_KEY")
	agentTimeout = os.Getenv("AGENT_API_TIMEOUT")
	adminEmails = os.Getenv("ADMIN_EMAILS")
	activationDelay = os.Getenv("DEPLOY_ACTIVATION_DELAY")

	emailJSServiceID = os.Getenv("EMAILJS_SERVICE_ID")
	emailJSTemplateID = os.Getenv("EMAILJS_TEMPLATE_ID")
	emailJSPublicKey = os.Getenv("EMAILJS_PUBLIC_KEY")
	emailJSPrivateKey = os.Getenv("EMAILJS_PRIVATE_KEY")
	smtpServer = os.Getenv("CONTACT_SMTP_SERVER")
	smtpUsername = os.Getenv("CONTACT_SMTP_USERNAME")
	smtpPassword = os.Getenv("CONTACT_SMTP_PASSWORD")
	contactEmailTo = os.Getenv("CONTACT_EMAIL_TO")

	if listenAddr == "" {
		listenAddr = ":3000"
	}
	if siteURL == "" {
		siteURL = "http://" + listenAddr
		if strings.HasPrefix(listenAddr, ":") {
			siteURL = "http://localhost" + listenAddr
		}
	}
	if databaseURL == "" {
		cwd, err := os.Getwd()
		if err != nil {
			panic(err)
		}
		databaseURL = filepath.Join(cwd, "productivity-engines.db")
	}
	if agentTimeout == "" {
		agentTimeout = "2m"
	}
}

func duration(name, value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		xlog.Error("Invalid duration", "variable", name, "value", value, "error", err)
		os.Exit(1)
	}
	return d
}

func main() {
	conn, err := db.Connect(databaseURL)
	if err != nil {
		xlog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(conn); err != nil {
		xlog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	s := store.New(conn)

	auth := gotrue.NewClient(supabaseURL, supabaseAnonKey, jwtSecret, 0)
	if !auth.Configured() {
		xlog.Warn("Supabase URL or anon key missing, authentication is disabled")
	}
	if serviceRoleKey == "" {
		xlog.Warn("SUPABASE_SERVICE_ROLE_KEY not set, /api maintenance routes will refuse requests")
	}

	options := []webui.Option{
		webui.WithStore(s),
		webui.WithAuth(auth),
		webui.WithServiceRoleKey(serviceRoleKey),
		webui.WithSiteURL(siteURL),
		webui.WithSecureCookies(strings.HasPrefix(siteURL, "https://")),
		webui.WithAdminEmails(xstrings.SplitList(adminEmails)...),
	}

	sender, err := mailer.New(mailer.Config{
		EmailJSServiceID:  emailJSServiceID,
		EmailJSTemplateID: emailJSTemplateID,
		EmailJSPublicKey:  emailJSPublicKey,
		EmailJSPrivateKey: emailJSPrivateKey,
		SMTPServer:        smtpServer,
		SMTPUsername:      smtpUsername,
		SMTPPassword:      smtpPassword,
		To:                xstrings.SplitList(contactEmailTo),
	})
	switch {
	case errors.Is(err, mailer.ErrNotConfigured):
		xlog.Warn("Email relay is not configured, the contact form will be unavailable")
	case err != nil:
		xlog.Error("Failed to configure email relay", "error", err)
		os.Exit(1)
	default:
		options = append(options, webui.WithMailer(sender))
	}

	if agentAPIURL != "" {
		options = append(options, webui.WithAgentClient(
			agentclient.NewClient(agentAPIURL, agentAPIKey, duration("AGENT_API_TIMEOUT", agentTimeout)),
		))
	} else {
		xlog.Warn("AGENT_API_URL not set, the marketing agent will be unavailable")
	}

	events := sse.NewManager(5, 20)
	deployOpts := []deploy.Option{deploy.WithPublisher(events)}
	if activationDelay != "" {
		deployOpts = append(deployOpts, deploy.WithDelay(duration("DEPLOY_ACTIVATION_DELAY", activationDelay)))
	}
	deployments := deploy.New(s, deployOpts...)
	options = append(options, webui.WithEvents(events), webui.WithDeployService(deployments))

	activator := deploy.NewActivator(deployments, "")
	if err := activator.Start(); err != nil {
		xlog.Error("Failed to start deployment activator", "error", err)
		os.Exit(1)
	}

	app, err := webui.NewApp(options...)
	if err != nil {
		xlog.Error("Failed to build application", "error", err)
		os.Exit(1)
	}

	go func() {
		xlog.Info("Starting web server", "addr", listenAddr, "site", siteURL)
		if err := app.Listen(listenAddr); err != nil {
			xlog.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	xlog.Info("Shutting down")
	activator.Stop()
	if err := app.Shutdown(); err != nil {
		xlog.Error("Shutdown failed", "error", err)
	}
}
