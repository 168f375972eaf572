package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grandcamel/confluence-skills/internal/errors"
	"github.com/grandcamel/confluence-skills/internal/format"
	"github.com/grandcamel/confluence-skills/internal/skills"
)

// defaultSkillsDir is used when the config names no manifest directory.
const defaultSkillsDir = ".confluence-skills/skills"

// skillsCmd represents the skills command group
var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List and inspect skill manifests",
	Long: `Skill manifests are YAML files describing the command surface an AI
assistant can drive through this CLI. They live in the configured
skills directory (skills.dir, default ` + defaultSkillsDir + `).`,
}

func skillsDir(cc *CommandContext) string {
	if cc.Config.Skills.Dir != "" {
		return cc.Config.Skills.Dir
	}
	return defaultSkillsDir
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available skills",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newLocalContext()
		if err != nil {
			return err
		}
		defer cc.Close()

		all, err := skills.List(skillsDir(cc))
		if err != nil {
			return errors.WrapError(err, "failed to load skills", errors.ExitConfigError)
		}
		if len(all) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No skills found.")
			return nil
		}
		rows := make([][]string, 0, len(all))
		for _, s := range all {
			rows = append(rows, []string{s.Name, fmt.Sprintf("%d", len(s.Commands)), s.Description})
		}
		fmt.Fprint(cmd.OutOrStdout(), format.Table([]string{"NAME", "COMMANDS", "DESCRIPTION"}, rows))
		return nil
	},
}

var skillsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a skill's commands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newLocalContext()
		if err != nil {
			return err
		}
		defer cc.Close()

		all, err := skills.List(skillsDir(cc))
		if err != nil {
			return errors.WrapError(err, "failed to load skills", errors.ExitConfigError)
		}
		for _, s := range all {
			if s.Name != args[0] {
				continue
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Skill: %s", s.Name)
			if s.Version != "" {
				fmt.Fprintf(out, " (version %s)", s.Version)
			}
			fmt.Fprintln(out)
			if s.Description != "" {
				fmt.Fprintln(out, s.Description)
			}
			if len(s.Commands) > 0 {
				fmt.Fprintln(out)
				rows := make([][]string, 0, len(s.Commands))
				for _, c := range s.Commands {
					rows = append(rows, []string{c.Name, c.Usage, c.Description})
				}
				fmt.Fprint(out, format.Table([]string{"COMMAND", "USAGE", "DESCRIPTION"}, rows))
			}
			return nil
		}
		return errors.NewError(fmt.Sprintf("no skill named %q", args[0]), errors.ExitNotFoundError)
	},
}

func init() {
	skillsCmd.AddCommand(skillsListCmd, skillsShowCmd)
	rootCmd.AddCommand(skillsCmd)
}
