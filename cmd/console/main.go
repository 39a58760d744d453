package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"vidhost/console/internal/api"
	"vidhost/console/internal/config"
	"vidhost/console/internal/guard"
	"vidhost/console/internal/log"
	"vidhost/console/internal/service"
	"vidhost/console/internal/session"
	"vidhost/console/internal/storage"
	"vidhost/console/internal/store"
)

const usage = `usage: console <command> [args]

commands:
  login         -email -password        sign in and persist the session
  logout                                drop the persisted session
  whoami                                show the signed-in identity
  videos        list|upload|edit|delete|check-title
  admins        list|create|update|delete
  theme         [-set dark|light]       show or change the UI theme
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	app, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	cfg      *config.AppConfig
	storage  *storage.Storage
	sessions *session.Store
	guard    *guard.Guard
	auth     *service.AuthService
	videos   *store.VideoStore
	admins   *store.AdminStore
	titles   *service.TitleChecker
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := log.New(cfg.Environment)

	st, err := storage.Open(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	deviceID, err := st.DeviceID()
	if err != nil {
		return nil, err
	}

	sessions := session.New(st, logger)

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout, sessions, deviceID, logger)
	client.OnSessionInvalid(func() {
		if err := sessions.Clear(); err != nil {
			logger.Error().Err(err).Msg("clear session")
		}
		fmt.Fprintf(os.Stderr, "session expired, sign in again at %s\n", guard.SignInPath)
	})

	videoSvc := service.NewVideoService(client, cfg.Upload, logger)
	adminSvc := service.NewAdminService(client, logger)

	pageSize := cfg.PageSize
	if prefs, err := st.ReadPreferences(); err == nil && prefs.PageSize > 0 {
		pageSize = prefs.PageSize
	}

	return &app{
		cfg:      cfg,
		storage:  st,
		sessions: sessions,
		guard:    guard.New(sessions),
		auth:     service.NewAuthService(client, sessions, logger),
		videos:   store.NewVideoStore(videoSvc, pageSize, logger),
		admins:   store.NewAdminStore(adminSvc, logger),
		titles:   service.NewTitleChecker(videoSvc),
	}, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.auth.Logout()
	case "whoami":
		return a.cmdWhoami()
	case "videos":
		return a.cmdVideos(ctx, args)
	case "admins":
		return a.cmdAdmins(ctx, args)
	case "theme":
		return a.cmdTheme(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// gate enforces the navigation rules before a command touches a resource.
func (a *app) gate(route guard.Route) error {
	switch a.guard.Check(route) {
	case guard.RedirectSignIn:
		return fmt.Errorf("not signed in, go to %s", guard.SignInPath)
	case guard.RedirectUnauthorized:
		return fmt.Errorf("insufficient privileges, see %s", guard.UnauthorizedPath)
	}
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	user, err := a.auth.Login(ctx, service.LoginInput{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", user.Username, user.Role)
	return nil
}

func (a *app) cmdWhoami() error {
	user, ok := a.sessions.User()
	if !ok {
		return fmt.Errorf("not signed in")
	}
	fmt.Printf("%s <%s> role=%s\n", user.Username, user.Email, user.Role)
	return nil
}

func (a *app) cmdTheme(args []string) error {
	fs := flag.NewFlagSet("theme", flag.ExitOnError)
	set := fs.String("set", "", "theme to switch to (dark|light)")
	_ = fs.Parse(args)

	prefs, err := a.storage.ReadPreferences()
	if err != nil && err != storage.ErrNotFound {
		return err
	}
	if *set == "" {
		if prefs.Theme == "" {
			prefs.Theme = "light"
		}
		fmt.Println(prefs.Theme)
		return nil
	}
	if *set != "dark" && *set != "light" {
		return fmt.Errorf("unknown theme %q", *set)
	}
	prefs.Theme = *set
	return a.storage.WritePreferences(prefs)
}
