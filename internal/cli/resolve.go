package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depman/internal/app"
)

type resolveOptions struct {
	Configuration string
	CacheDir      string
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a configuration into cached artifact files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Configuration, "configuration", app.DefaultConfiguration, "Configuration to resolve")
	cmd.Flags().StringVar(&opts.CacheDir, "cache-dir", ".depman/cache", "Directory receiving resolved artifacts")
	_ = viper.BindPFlag("configuration", cmd.Flags().Lookup("configuration"))
	_ = viper.BindPFlag("cache_dir", cmd.Flags().Lookup("cache-dir"))
	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts resolveOptions) error {
	service := newAppService()
	result, err := service.Resolve(ctx, app.ResolveRequest{
		ProjectPath:   resolveString(cmd, projectFlag(cmd), "project", "project"),
		Configuration: resolveString(cmd, opts.Configuration, "configuration", "configuration"),
		CacheDir:      resolveString(cmd, opts.CacheDir, "cache_dir", "cache-dir"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "resolved %s (%s): %d modules, %d artifacts\n",
		result.Module, result.Resolved.Configuration, len(result.Resolved.Modules), len(result.Resolved.Artifacts))
	for _, module := range result.Resolved.Modules {
		fmt.Fprintf(out, "  %s from %s\n", module.Module, module.Resolver)
	}
	for _, file := range result.Resolved.Files() {
		fmt.Fprintf(out, "  %s\n", file)
	}
	return nil
}
