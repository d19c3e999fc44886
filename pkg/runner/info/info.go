// Package info prints where progressly keeps its data.
package info

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/progressly/pkg/config"
	"tableflip.dev/progressly/pkg/store"
)

type Info struct {
	Settings    *config.Settings
	Persistence store.Persistence
	Out         io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("PROGRESSLY_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "PROGRESSLY_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "PROGRESSLY_CONFIG_PATH env var not set")
	}

	if n.Settings == nil {
		var err error
		n.Settings, err = config.Load()
		if err != nil {
			return err
		}
	}
	s := n.Settings

	file := s.ConfigFile
	if file == "" {
		file = "none, using defaults"
	}
	_, _ = fmt.Fprintln(out, "Config file:", file)
	_, _ = fmt.Fprintln(out, "Path:", s.BasePath())
	_, _ = fmt.Fprintln(out, "Backend:", s.Backend())
	_, _ = fmt.Fprintln(out, "Categories:", strings.Join(s.Categories, ", "))
	_, _ = fmt.Fprintf(out, "Auth: scheme=%s required=%t\n", s.AuthScheme, s.RequireAuth)

	if n.Persistence == nil {
		return fmt.Errorf("failed to create persistence object")
	}

	keys, err := n.Persistence.Keys(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Keys:\n")
	if len(keys) == 0 {
		_, _ = fmt.Fprintf(out, "  %s\n", "no keys")
	}
	for _, k := range keys {
		_, _ = fmt.Fprintf(out, "  %s\n", k)
	}
	return nil
}
