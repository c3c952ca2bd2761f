package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgetl/internal/db/manager"
	"github.com/vvka-141/pgetl/internal/logging"
	"github.com/vvka-141/pgetl/internal/services"
	"github.com/vvka-141/pgetl/internal/ui"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create or drop the analytics tables",
}

var schemaCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create songs, artists, time, users and songplays if they do not exist",
	Long: `Create creates the five analytics tables in the target database.
Existing tables are left untouched.

The tables carry no uniqueness constraints besides the songplays serial
key, so loading the same files twice duplicates every row.

Example:
  pgetl schema create -h 127.0.0.1 -U student -d sparkifydb`,
	Args: cobra.NoArgs,
	RunE: runSchemaCreate,
}

var schemaDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the analytics tables",
	Long: `Drop removes the five analytics tables and all loaded rows.

You are asked to type the database name to confirm. With --force a
countdown replaces the prompt; press Ctrl+C to abort.

Example:
  pgetl schema drop -d sparkifydb --force`,
	Args: cobra.NoArgs,
	RunE: runSchemaDrop,
}

type schemaFlagValues struct {
	conn  connectionFlags
	force bool
}

var (
	schemaCreateFlags schemaFlagValues
	schemaDropFlags   schemaFlagValues
)

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaCreateCmd, schemaDropCmd)

	registerConnectionFlags(schemaCreateCmd, &schemaCreateFlags.conn)
	registerConnectionFlags(schemaDropCmd, &schemaDropFlags.conn)

	schemaDropCmd.Flags().BoolVar(&schemaDropFlags.force, "force", false,
		"Skip the interactive prompt and drop after a countdown\n"+
			"For scripted environments")
}

// prepareSchemaCommand resolves the connection and returns a SchemaService.
func prepareSchemaCommand(cmd *cobra.Command, f schemaFlagValues) (*services.SchemaService, *pgetl.ConnectionConfig, error) {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	projectCfg, err := loadProjectConfig(f.conn.configDir)
	if err != nil {
		return nil, nil, err
	}

	connConfig, err := resolveConnection(f.conn, projectCfg)
	if err != nil {
		return nil, nil, err
	}
	logConnectionVerbose(logger, connConfig)

	var approver pgetl.Approver
	if f.force {
		approver = ui.NewForcedApprover(verbose)
	} else {
		approver = ui.NewInteractiveApprover(verbose)
	}

	svc := services.NewSchemaService(newSessionManager(logger), manager.New(), approver, logger)
	return svc, connConfig, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), pgetl.DefaultTimeout)
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	return sigCtx, func() {
		stop()
		cancel()
	}
}

func runSchemaCreate(cmd *cobra.Command, args []string) error {
	svc, connConfig, err := prepareSchemaCommand(cmd, schemaCreateFlags)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := svc.Create(ctx, connConfig); err != nil {
		return fmt.Errorf("schema create failed: %w", err)
	}
	return nil
}

func runSchemaDrop(cmd *cobra.Command, args []string) error {
	svc, connConfig, err := prepareSchemaCommand(cmd, schemaDropFlags)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := svc.Drop(ctx, connConfig); err != nil {
		return fmt.Errorf("schema drop failed: %w", err)
	}
	return nil
}
