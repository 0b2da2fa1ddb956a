// Package commands wires the vaultengine binary's cobra command tree.
package commands

import (
	"os"

	"github.com/arkan-labs/vaultengine/internal/projectcache"
	"github.com/arkan-labs/vaultengine/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	vaultName string
	vaultPath string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "vaultengine",
	Short: "Programmable knowledge-vault engine",
	Long: `vaultengine parses, links, and edits a directory of Markdown notes
(frontmatter, wikilinks, tags, tasks, callouts) and exposes that as a
typed call surface over stdio.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&vaultName, "name", "default", "name under which the vault is registered")
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", ".", "path to the vault root")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")
}

func newLogger() *zap.SugaredLogger {
	if !verbose {
		return zap.NewNop().Sugar()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// openSession builds a Session for the current invocation, attaching the
// project cache (C9) before registering the --name/--vault pair so a
// restart restores whatever vaults a prior run persisted. If the cache
// already registered --name (e.g. from a previous run), the vault is left
// alone and just made active rather than re-added.
func openSession(log *zap.SugaredLogger) (*session.Session, error) {
	sess := session.New(log)

	cwd, err := os.Getwd()
	if err != nil {
		cwd = vaultPath
	}
	root, ok := projectcache.FindProjectRoot(cwd, projectcache.DefaultMarkers)
	if !ok {
		root = cwd
	}
	store, err := projectcache.NewStore(root)
	if err != nil {
		return nil, err
	}
	if err := sess.AttachCache(store); err != nil {
		return nil, err
	}

	registered := false
	for _, n := range sess.ListVaults() {
		if n == vaultName {
			registered = true
			break
		}
	}
	if !registered {
		if err := sess.AddVault(vaultName, vaultPath); err != nil {
			return nil, err
		}
	} else if err := sess.SetActive(vaultName); err != nil {
		return nil, err
	}
	return sess, nil
}
