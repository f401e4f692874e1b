// Package cli implements the gvc command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/gvc/pkg/buildinfo"
	"github.com/matzehuels/gvc/pkg/config"
	"github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/gradle"
	"github.com/matzehuels/gvc/pkg/integrations/maven"
	"github.com/matzehuels/gvc/pkg/project"
	"github.com/matzehuels/gvc/pkg/repository"
	"github.com/matzehuels/gvc/pkg/vcs"
	"github.com/matzehuels/gvc/pkg/workflow"
)

const appName = "gvc"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	viper      *viper.Viper
	dir        string
	configFile string
	format     string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		viper:  config.New(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gvc keeps Gradle version catalogs up to date",
		Long: `gvc checks gradle/libs.versions.toml against the project's Maven repositories,
proposes newer versions and rewrites only the version values it changes.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return workflow.ValidateFormat(c.format)
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVarP(&c.dir, "path", "C", ".", "Gradle project directory")
	flags.StringVar(&c.configFile, "config", "", "config file (default: .gvc.toml in the project or home directory)")
	flags.StringVar(&c.format, "format", workflow.FormatText, "output format: text, json or yaml")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.updateCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// env is everything a command needs for one project.
type env struct {
	project *project.Project
	cfg     config.Config
	repos   []repository.Descriptor
	query   *maven.Client
}

// setup validates the project, loads configuration with cmd's flags bound
// over it and collects the repositories to query.
func (c *CLI) setup(cmd *cobra.Command, bindings map[string]string) (*env, error) {
	proj, err := project.Open(c.dir)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("project", "root", proj.Root, "catalog", proj.Rel(proj.CatalogPath), "git", proj.HasGit)

	for key, flag := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := c.viper.BindPFlag(key, f); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "bind --%s", flag)
			}
		}
	}
	home, _ := os.UserHomeDir()
	if err := config.ReadFile(c.viper, c.configFile, proj.Root, home); err != nil {
		return nil, err
	}
	if used := c.viper.ConfigFileUsed(); used != "" {
		c.Logger.Debug("config", "file", used)
	}
	cfg, err := config.Load(c.viper)
	if err != nil {
		return nil, err
	}

	scraped, err := gradle.NewProvider(proj.Root, c.Logger).Repositories()
	if err != nil {
		return nil, err
	}
	extra, err := cfg.Descriptors()
	if err != nil {
		return nil, err
	}

	return &env{
		project: proj,
		cfg:     cfg,
		repos:   repository.Dedupe(append(scraped, extra...)),
		query:   maven.NewClient(cfg.HTTP.Timeout, cfg.RetryPolicy(), c.Logger),
	}, nil
}

// runner builds a workflow runner. withGit attaches the git collaborator
// when the project is a repository and git is not disabled.
func (c *CLI) runner(e *env, withGit bool) (*workflow.Runner, error) {
	r := workflow.NewRunner(e.query, nil, c.Logger)
	if !withGit || e.cfg.NoGit {
		return r, nil
	}
	if !e.project.HasGit {
		c.Logger.Info("no git repository detected, skipping git steps")
		return r, nil
	}
	git, err := vcs.NewGit(e.project.Root, vcs.Options{
		BranchPrefix: e.cfg.Commit.BranchPrefix,
		Logger:       c.Logger,
	})
	if err != nil {
		return nil, err
	}
	r.VCS = git
	return r, nil
}
