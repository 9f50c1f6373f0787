package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depman/internal/app"
)

type inspectOptions struct {
	Configuration string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the module descriptor without publishing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Configuration, "configuration", "", "Limit the descriptor to this configuration's hierarchy")
	_ = viper.BindPFlag("inspect_configuration", cmd.Flags().Lookup("configuration"))
	return cmd
}

func runInspect(ctx context.Context, cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(ctx, app.InspectRequest{
		ProjectPath:   resolveString(cmd, projectFlag(cmd), "project", "project"),
		Configuration: resolveString(cmd, opts.Configuration, "inspect_configuration", "configuration"),
	})
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(result.Rendered)
	return err
}
