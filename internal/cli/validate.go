package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"depman/internal/app"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a project file, its configuration graph and resolvers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd)
		},
	}
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command) error {
	service := newAppService()
	result, err := service.Validate(ctx, app.ValidateRequest{
		ProjectPath: resolveString(cmd, projectFlag(cmd), "project", "project"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "validated: %s\n", result.Module)
	fmt.Fprintf(cmd.OutOrStdout(), "configurations: %s\n", strings.Join(result.Configurations, ", "))
	fmt.Fprintf(cmd.OutOrStdout(), "resolvers: %s\n", strings.Join(result.Resolvers, ", "))
	return nil
}

func projectFlag(cmd *cobra.Command) string {
	if cmd == nil {
		return ""
	}
	flag := cmd.Flags().Lookup("project")
	if flag == nil {
		flag = cmd.InheritedFlags().Lookup("project")
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}
