// Package console is the interactive operator surface: a line-editing
// command loop over the auth, mediation, directory, and administration
// services. It renders results and never makes access decisions itself.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"blpgate/internal/audit"
	"blpgate/internal/auth"
	"blpgate/internal/directory"
	"blpgate/internal/domain"
	"blpgate/internal/mediator"
	"blpgate/internal/users"
	dErrors "blpgate/pkg/domain-errors"
)

const welcome = `
============================================================
    MANDATORY ACCESS CONTROL SYSTEM - BELL-LAPADULA MODEL
============================================================
Security Levels: 0=Public, 1=Confidential, 2=Secret, 3=Top Secret
Type 'help' for available commands
============================================================`

const helpText = `
Available Commands:

AUTHENTICATION:
  register     - Register a new user
  login        - Login to system
  logout       - Logout current user
  whoami       - Show current user information

OBJECT OPERATIONS:
  create_obj   - Create a new object with security level
  list_obj     - List accessible objects
  read_obj     - Read object content
  write_obj    - Update object content
  delete_obj   - Delete an object
  search_obj   - Search objects by name

USER MANAGEMENT (Admin):
  list_users   - List all users (Top Secret required)
  user_info    - View user information
  change_level - Change user security level (Super Admin only)
  deactivate   - Deactivate user account (Super Admin only)
  activate     - Activate user account (Super Admin only)

AUDIT & SYSTEM:
  show_audit   - Display audit logs
  filter_audit - Filter audit logs by criteria
  stats        - System statistics (Top Secret required)
  help         - Show this help message
  exit         - Exit system

Security Rules:
  - Read: Your level must be >= object level
  - Write: Your level must be <= object level
  - Delete: Owner or Top Secret Super Admin only`

// Console drives the interactive session. It holds the one piece of UI
// state, the logged-in user, and routes every command to a service.
type Console struct {
	auth      *auth.Service
	mediator  *mediator.Service
	directory *directory.Service
	admin     *users.Service
	reports   *audit.Service
	logger    *slog.Logger
	out       io.Writer

	line    *liner.State
	current *domain.User
}

type Option func(*Console)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		c.logger = logger
	}
}

// WithOutput redirects rendered output, used by tests.
func WithOutput(w io.Writer) Option {
	return func(c *Console) {
		c.out = w
	}
}

func New(authSvc *auth.Service, mediatorSvc *mediator.Service, directorySvc *directory.Service, adminSvc *users.Service, reports *audit.Service, opts ...Option) (*Console, error) {
	if authSvc == nil || mediatorSvc == nil || directorySvc == nil || adminSvc == nil || reports == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "all services are required")
	}
	c := &Console{
		auth:      authSvc,
		mediator:  mediatorSvc,
		directory: directorySvc,
		admin:     adminSvc,
		reports:   reports,
		logger:    slog.Default(),
		out:       os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run blocks on the command loop until exit, EOF, or context cancellation.
func (c *Console) Run(ctx context.Context) error {
	c.line = liner.NewLiner()
	c.line.SetCtrlCAborts(true)
	defer c.line.Close()

	fmt.Fprintln(c.out, welcome)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		input, err := c.line.Prompt(c.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out, "\nExiting Mandatory Access Control System. Goodbye!")
				return nil
			}
			return err
		}
		command := strings.ToLower(strings.TrimSpace(input))
		if command == "" {
			continue
		}
		c.line.AppendHistory(command)

		if command == "exit" {
			fmt.Fprintln(c.out, "Exiting Mandatory Access Control System. Goodbye!")
			return nil
		}
		c.dispatch(ctx, command)
	}
}

func (c *Console) prompt() string {
	if c.current == nil {
		return "system> "
	}
	return fmt.Sprintf("%s(%s)> ", c.current.Username, c.current.SecurityLevel.String())
}

func (c *Console) dispatch(ctx context.Context, command string) {
	switch command {
	case "help":
		fmt.Fprintln(c.out, helpText)
	case "register":
		c.handleRegister(ctx)
	case "login":
		c.handleLogin(ctx)
	case "logout":
		c.handleLogout(ctx)
	case "whoami":
		c.handleWhoami(ctx)
	case "create_obj":
		c.handleCreateObject(ctx)
	case "list_obj":
		c.handleListObjects(ctx)
	case "read_obj":
		c.handleReadObject(ctx)
	case "write_obj":
		c.handleWriteObject(ctx)
	case "delete_obj":
		c.handleDeleteObject(ctx)
	case "search_obj":
		c.handleSearchObjects(ctx)
	case "list_users":
		c.handleListUsers(ctx)
	case "user_info":
		c.handleUserInfo(ctx)
	case "change_level":
		c.handleChangeLevel(ctx)
	case "activate":
		c.handleSetActive(ctx, true)
	case "deactivate":
		c.handleSetActive(ctx, false)
	case "show_audit":
		c.handleShowAudit(ctx)
	case "filter_audit":
		c.handleFilterAudit(ctx)
	case "stats":
		c.handleStats(ctx)
	default:
		fmt.Fprintln(c.out, "Unknown command. Type 'help' for available commands.")
	}
}

func (c *Console) ask(prompt string) (string, bool) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(input), true
}

// requireLogin gates the commands that need a subject.
func (c *Console) requireLogin() bool {
	if c.current == nil {
		fmt.Fprintln(c.out, "Error: You must be logged in")
		return false
	}
	return true
}

func (c *Console) printError(err error) {
	fmt.Fprintf(c.out, "Error: %s\n", err.Error())
}
