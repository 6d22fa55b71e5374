package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createConfigCommand creates the 'config' command group
func (c *CLI) createConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tempo configuration",
		Long:  `View and modify configuration. Values can also be set via TEMPO_* environment variables.`,
	}

	cmd.AddCommand(
		c.createConfigGetCommand(),
		c.createConfigSetCommand(),
		c.createConfigPathCommand(),
		c.createConfigValidateCommand(),
	)

	return cmd
}

func (c *CLI) createConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := c.configMgr.Get(args[0])
			if err != nil {
				return c.handleError(cmd, err)
			}

			formatter := c.getOutputFormatter(cmd)
			return formatter.FormatMessage(fmt.Sprintf("%s = %v", args[0], value))
		},
	}
}

func (c *CLI) createConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.configMgr.Set(args[0], args[1]); err != nil {
				return c.handleError(cmd, err)
			}

			formatter := c.getOutputFormatter(cmd)
			return formatter.FormatMessage(fmt.Sprintf("%s = %s", args[0], args[1]))
		},
	}
}

func (c *CLI) createConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := c.getOutputFormatter(cmd)
			return formatter.FormatMessage(c.configMgr.GetConfigPath())
		},
	}
}

func (c *CLI) createConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.configMgr.Validate(); err != nil {
				return c.handleError(cmd, err)
			}

			formatter := c.getOutputFormatter(cmd)
			return formatter.FormatMessage("Configuration is valid.")
		},
	}
}
