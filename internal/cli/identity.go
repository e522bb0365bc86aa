package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ebb/internal/config"
)

// IdentityOptions holds flags for the identity command.
type IdentityOptions struct {
	*RootOptions
	Output   string
	Identity config.IdentityConfig
}

// NewIdentityCommand creates the identity command.
func NewIdentityCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IdentityOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Set the robot identity of a session file",
		Long: `Replace the identity record of a session file. The record is rebuilt
from the supplied attributes; flags left empty fall back to the config
file, then to the built-in defaults. Attribute values must not contain
spaces or colons.

Example:
  ebb identity --out session.ebb --name TurtleBot3 --serial TB3-0042`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdentity(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Output, "out", "", "session file (overrides config)")
	cmd.Flags().StringVar(&opts.Identity.RobotName, "name", "", "robot name")
	cmd.Flags().StringVar(&opts.Identity.Version, "robot-version", "", "robot software version")
	cmd.Flags().StringVar(&opts.Identity.Serial, "serial", "", "robot serial number")
	cmd.Flags().StringVar(&opts.Identity.Manufacturer, "manufacturer", "", "robot manufacturer")
	cmd.Flags().StringVar(&opts.Identity.Operator, "operator", "", "operator name")
	cmd.Flags().StringVar(&opts.Identity.Responsible, "responsible", "", "responsible person")

	return cmd
}

func runIdentity(opts *IdentityOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	output := cfg.Output
	if opts.Output != "" {
		output = opts.Output
	}

	rec, err := openSession(cfg, output)
	if err != nil {
		return err
	}

	id := mergeIdentity(cfg.Identity, opts.Identity)
	meta := rec.SetIdentity(id.Identity())

	if err := rec.ExportTo(output); err != nil {
		return WrapExitError(ExitCommandError, "failed to export session", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(fmt.Sprintf("identity updated in %s (%s)", output, meta.Timestamp()))
}

// mergeIdentity overlays flag values on top of config values.
func mergeIdentity(base, flags config.IdentityConfig) config.IdentityConfig {
	pick := func(flag, cfg string) string {
		if flag != "" {
			return flag
		}
		return cfg
	}
	return config.IdentityConfig{
		RobotName:    pick(flags.RobotName, base.RobotName),
		Version:      pick(flags.Version, base.Version),
		Serial:       pick(flags.Serial, base.Serial),
		Manufacturer: pick(flags.Manufacturer, base.Manufacturer),
		Operator:     pick(flags.Operator, base.Operator),
		Responsible:  pick(flags.Responsible, base.Responsible),
	}
}
