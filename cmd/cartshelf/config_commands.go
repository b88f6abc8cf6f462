package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"cartshelf/internal/config"
)

func newConfigCommand(cctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(cctx))
	configCmd.AddCommand(newConfigPathCommand())
	configCmd.AddCommand(newConfigEditCommand())

	return configCmd
}

func newConfigShowCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			_, path, exists, err := config.Load(configFlagValue(cctx))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file does not exist; defaults are in effect")
			}

			rows := [][]string{
				{"paths.roms_dir", cfg.Paths.RomsDir},
				{"paths.database_csv", cfg.Paths.DatabaseCSV},
				{"paths.media_dir", cfg.Paths.MediaDir},
				{"paths.gamelist_path", cfg.Paths.GamelistPath},
				{"paths.backup_roms_dir", cfg.Paths.BackupRomsDir},
				{"paths.log_dir", cfg.Paths.LogDir},
				{"paths.itch_header_path", cfg.Paths.ItchHeaderPath},
				{"paths.source_code_dir", cfg.Paths.SourceCodeDir},
				{"paths.describe_out_dir", cfg.Paths.DescribeOutDir},
				{"network.ipfs_gateways", strings.Join(cfg.Network.IPFSGateways, ", ")},
				{"network.request_timeout", fmt.Sprintf("%ds", cfg.Network.RequestTimeout)},
				{"network.user_agent", cfg.Network.UserAgent},
				{"llm.api_key", maskSecret(cfg.LLM.APIKey)},
				{"llm.base_url", cfg.LLM.BaseURL},
				{"llm.model", cfg.LLM.Model},
				{"llm.workers", fmt.Sprintf("%d", cfg.LLM.Workers)},
				{"naming.folder_organization", cfg.Naming.FolderOrganization},
				{"naming.filename_case", cfg.Naming.FilenameCase},
				{"naming.category_parenthesis", yesNo(cfg.Naming.CategoryParenthesis)},
				{"naming.use_custom_filenames", yesNo(cfg.Naming.UseCustomFilenames)},
				{"naming.use_custom_gamenames", yesNo(cfg.Naming.UseCustomGamenames)},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Setting", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the configuration file location",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, path, _, err := config.Load("")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "edit",
		Short:       "Open the configuration file in $EDITOR",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return fmt.Errorf("determine config path: %w", err)
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				if err := config.CreateSample(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created sample configuration at %s\n", path)
			}

			editor := strings.TrimSpace(os.Getenv("EDITOR"))
			if editor == "" {
				editor = "vi"
			}
			editCmd := exec.CommandContext(cmd.Context(), editor, path)
			editCmd.Stdin = os.Stdin
			editCmd.Stdout = os.Stdout
			editCmd.Stderr = os.Stderr
			if err := editCmd.Run(); err != nil {
				return fmt.Errorf("run editor %q: %w", editor, err)
			}

			// Reparse so typos surface immediately instead of on the next run.
			if _, _, _, err := config.Load(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	}
}

func configFlagValue(cctx *commandContext) string {
	if cctx.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*cctx.configFlag)
}

func maskSecret(value string) string {
	if value == "" {
		return "(unset)"
	}
	if len(value) <= 8 {
		return "********"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
