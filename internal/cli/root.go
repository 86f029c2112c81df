// Package cli implements the esmigrate command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	infralogger "github.com/jonesrussell/es-index-migrator/infrastructure/logger"
	"github.com/jonesrussell/es-index-migrator/internal/bootstrap"
	"github.com/jonesrussell/es-index-migrator/internal/config"
	"github.com/jonesrussell/es-index-migrator/internal/service"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

// Viper keys.
const (
	keyAction      = "action"
	keyAPIKey      = "api-key"
	keySnapshot    = "snapshot"
	keyConfig      = "config"
	keyEnvironment = "environment"
	keyYes         = "yes"
	keyDebug       = "debug"
	keyOutput      = "output"
)

// Deps are the process resources a command uses.
type Deps struct {
	In  io.Reader
	Out io.Writer
	// Err receives prompts so Out only carries command output.
	Err io.Writer

	LookupEnv func(string) (string, bool)
	Connect   func(ctx context.Context, cfg *config.Config, log infralogger.Logger) (service.Gateway, error)
}

func (d *Deps) setDefaults() {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Err == nil {
		d.Err = os.Stderr
	}
	if d.LookupEnv == nil {
		d.LookupEnv = os.LookupEnv
	}
	if d.Connect == nil {
		d.Connect = connectElasticsearch
	}
}

func connectElasticsearch(ctx context.Context, cfg *config.Config, log infralogger.Logger) (service.Gateway, error) {
	client, err := bootstrap.SetupElasticsearch(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Execute runs the esmigrate command on the process streams.
func Execute() error {
	return NewRootCommand(Deps{}).ExecuteContext(context.Background())
}

// NewRootCommand builds the esmigrate command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	deps.setDefaults()
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "esmigrate",
		Short: "Migrate Elasticsearch index mappings without downtime",
		Long: `esmigrate updates the mapping of a live Elasticsearch index by copying its
documents through a shadow index, and restores an index from a snapshot.

Actions:
  0, none                 do nothing
  1, get-mapping          print the current index mapping
  2, update-mapping       recreate the index with the mapping file
  3, create-snapshot      snapshot the index
  4, restore-and-reindex  rebuild the index from a snapshot`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return newRunner(deps, v).run(cmd.Context())
		},
	}
	cmd.SetIn(deps.In)
	cmd.SetOut(deps.Out)
	cmd.SetErr(deps.Err)

	flags := cmd.Flags()
	flags.StringP(keyAction, "a", "", "action to run (0-4 or its name); prompts when omitted")
	flags.String(keyAPIKey, "", "API key for staging and production clusters")
	flags.String(keySnapshot, "", "snapshot to restore for restore-and-reindex")
	flags.String(keyConfig, "", "config file (default is config.<environment>.yml)")
	flags.StringP(keyEnvironment, "e", "", "target environment: local, staging or production")
	flags.BoolP(keyYes, "y", false, "skip the initial confirmation")
	flags.Bool(keyDebug, false, "enable debug logging")
	flags.StringP(keyOutput, "o", "", "with get-mapping, also write the mapping to this file")

	cobra.CheckErr(v.BindPFlags(flags))
	cobra.CheckErr(v.BindEnv(keyAction, "ESMIGRATE_ACTION"))
	cobra.CheckErr(v.BindEnv(keyEnvironment, "ELASTIC_ENVIRONMENT"))
	cobra.CheckErr(v.BindEnv(keyConfig, "CONFIG_PATH"))

	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "esmigrate version %s\n", Version)
		},
	}
}
