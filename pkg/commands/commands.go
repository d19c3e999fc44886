package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/auth"
	"tableflip.dev/progressly/pkg/config"
	"tableflip.dev/progressly/pkg/runner/account"
	"tableflip.dev/progressly/pkg/store"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "progressly",
		Short: base.Wrap80("Monthly task tracking with progress, subtasks and due dates, on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addAdd(topLevel)
	addList(topLevel)
	addShow(topLevel)
	addEdit(topLevel)
	addProgress(topLevel)
	addDone(topLevel)
	addSubtask(topLevel)
	addDelete(topLevel)
	addTrash(topLevel)
	addStats(topLevel)
	addHistory(topLevel)
	addWatch(topLevel)
	addExport(topLevel)
	addImport(topLevel)
	addAccount(topLevel)
	addUI(topLevel)
	addMCP(topLevel)
	addKey(topLevel)
	addInfo(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
}

// session is the opened configuration, store and services of one command.
type session struct {
	settings    *config.Settings
	persistence store.Persistence
	service     *app.Service
	auth        *auth.Local
}

// openAuth loads the configuration and store without touching tasks.
func openAuth() (*session, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	p, err := store.Load(settings)
	if err != nil {
		return nil, err
	}
	scheme, err := auth.SchemeFor(settings.AuthScheme)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return &session{
		settings:    settings,
		persistence: p,
		service:     &app.Service{Persistence: p},
		auth:        &auth.Local{Persistence: p, Scheme: scheme},
	}, nil
}

// open prepares a session for task commands. When the configuration requires
// it a signed in user is needed, and unfinished tasks from past months are
// carried into the current one before anything else runs.
func open(ctx context.Context) (*session, error) {
	s, err := openAuth()
	if err != nil {
		return nil, err
	}
	if s.settings.RequireAuth {
		if _, err := account.Require(ctx, s.auth); err != nil {
			s.close()
			return nil, err
		}
	}
	if _, err := s.service.Load(ctx); err != nil {
		s.close()
		return nil, fmt.Errorf("migrating tasks: %w", err)
	}
	return s, nil
}

func (s *session) close() {
	_ = s.persistence.Close()
}
