package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/avicena/avicena/internal/api"
	"github.com/avicena/avicena/internal/config"
	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/log"
	"github.com/avicena/avicena/internal/query"
	"github.com/avicena/avicena/internal/service"
	"github.com/avicena/avicena/internal/session"
	"github.com/avicena/avicena/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("avicena %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting avicena", "version", Version)

	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg); err != nil {
			return err
		}
	}

	sessions, err := session.NewStore(cfg.Session.File)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer sessions.Close()

	client := api.NewClient(cfg.API.BaseURL, sessions, logger)
	if cfg.API.TimeoutSeconds > 0 {
		client.SetTimeout(time.Duration(cfg.API.TimeoutSeconds) * time.Second)
	}

	// The executor tears the session down on a 401; the TUI watches this
	// channel to drop back into the sign-in flow.
	expiry := make(chan struct{}, 1)
	client.OnUnauthorized(func() {
		select {
		case expiry <- struct{}{}:
		default:
		}
	})

	cache := query.NewStore(logger)

	svcs := &tui.Services{
		Session:      service.NewSessionService(client, sessions, cache, logger),
		Clinics:      service.NewClinicService(client, cache, logger),
		Doctors:      service.NewDoctorService(client, cache, logger),
		Schedules:    service.NewScheduleService(client, cache, logger),
		Appointments: service.NewAppointmentService(client, cache, logger),
		Patients:     service.NewPatientService(client, cache, logger),
		Reference:    service.NewReferenceService(client, cache, logger),
		Files:        service.NewFileService(client, logger),
		Cache:        cache,
	}

	for {
		user := svcs.Session.CurrentUser()
		if !svcs.Session.LoggedIn() {
			user, err = runLoginFlow(svcs.Session)
			if err != nil {
				return err
			}
		}

		// Drop any expiry signal left over from before sign-in
		select {
		case <-expiry:
		default:
		}

		model := tui.NewModel(svcs, user, cfg.UI.PageSize, expiry)
		p := tea.NewProgram(model, tea.WithAltScreen())

		logger.Info("starting TUI", "user", user.Email)
		final, err := p.Run()
		if err != nil {
			logger.Error("TUI error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}

		m, ok := final.(tui.Model)
		switch {
		case ok && m.Expired:
			fmt.Println("Your session expired. Please sign in again.")
			continue
		case ok && m.LoggedOut:
			fmt.Println("Signed out.")
			continue
		}

		logger.Info("shutting down")
		return nil
	}
}

// runSetupFlow prompts for the backend URL on first run
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to Avicena!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Enter the API base URL (e.g., https://api.example.com/api/v1): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		baseURL := strings.TrimSpace(input)
		if baseURL == "" {
			fmt.Println("The base URL cannot be empty. Please try again.")
			continue
		}
		cfg.API.BaseURL = baseURL
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}

// runLoginFlow prompts for credentials until sign-in succeeds
func runLoginFlow(sessions *service.SessionService) (*domain.User, error) {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("Email: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		email := strings.TrimSpace(input)
		if email == "" {
			continue
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		user, err := sessions.Login(ctx, email, string(password))
		cancel()
		if err == nil {
			fmt.Printf("✓ Signed in as %s\n", user.Email)
			return user, nil
		}

		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			fmt.Println("Invalid email or password. Please try again.")
		case len(domain.FieldMessages(err)) > 0:
			for field, msg := range domain.FieldMessages(err) {
				fmt.Printf("  %s: %s\n", field, msg)
			}
		case domain.IsTransport(err):
			fmt.Printf("Could not reach the server: %v\n", err)
		default:
			return nil, err
		}
		fmt.Println()
	}
}
