package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depman/internal/app"
)

type publishOptions struct {
	Configuration string
	Descriptor    string
	Overwrite     bool
	Checksums     []string
	MetricsFile   string
}

func newPublishCommand() *cobra.Command {
	opts := publishOptions{}
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a configuration's artifacts and descriptor to every resolver",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPublish(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Configuration, "configuration", app.DefaultConfiguration, "Configuration to publish (with its parents)")
	cmd.Flags().StringVar(&opts.Descriptor, "descriptor", "", "Write the module descriptor to this path and publish it")
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "Replace artifacts that already exist in a resolver")
	cmd.Flags().StringSliceVar(&opts.Checksums, "checksum", nil, "Checksum files to publish (sha1, sha256, md5)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write publish metrics in Prometheus textfile format")
	_ = viper.BindPFlag("configuration", cmd.Flags().Lookup("configuration"))
	_ = viper.BindPFlag("descriptor", cmd.Flags().Lookup("descriptor"))
	_ = viper.BindPFlag("overwrite", cmd.Flags().Lookup("overwrite"))
	_ = viper.BindPFlag("checksums", cmd.Flags().Lookup("checksum"))
	_ = viper.BindPFlag("metrics_file", cmd.Flags().Lookup("metrics-file"))
	return cmd
}

func runPublish(ctx context.Context, cmd *cobra.Command, opts publishOptions) error {
	service := newAppService()
	result, err := service.Publish(ctx, app.PublishRequest{
		ProjectPath:    resolveString(cmd, projectFlag(cmd), "project", "project"),
		Configuration:  resolveString(cmd, opts.Configuration, "configuration", "configuration"),
		DescriptorPath: resolveString(cmd, opts.Descriptor, "descriptor", "descriptor"),
		Overwrite:      resolveBool(cmd, opts.Overwrite, "overwrite", "overwrite"),
		Checksums:      resolveStrings(cmd, opts.Checksums, "checksums", "checksum"),
		MetricsFile:    resolveString(cmd, opts.MetricsFile, "metrics_file", "metrics-file"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "published %s [%s] to %s\n",
		result.Module, strings.Join(result.Configurations, ", "), strings.Join(result.Resolvers, ", "))
	if result.DescriptorPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "descriptor: %s\n", result.DescriptorPath)
	}
	return nil
}
