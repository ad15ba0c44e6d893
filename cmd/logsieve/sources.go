package main

import (
	"github.com/spf13/cobra"

	"github.com/Geun-Oh/logsieve/internal/config"
	"github.com/Geun-Oh/logsieve/internal/source"
)

func newDockerCmd(o *options) *cobra.Command {
	var host string

	cmd := &cobra.Command{
		Use:   "docker <container>",
		Short: "Filter the logs of a docker container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(cfg *config.Config) (source.Source, error) {
				if !cmd.Flags().Changed("host") {
					host = cfg.Sources.DockerHost
				}
				return source.NewDockerSource(source.DockerOptions{
					Container: args[0],
					Host:      host,
					Tail:      cfg.Sources.Tail,
					Since:     o.since,
					Follow:    o.follow,
				}), nil
			})
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "docker daemon to connect to, e.g. ssh://user@remote")
	return cmd
}

func newKubeCmd(o *options) *cobra.Command {
	var kopts source.KubeOptions

	cmd := &cobra.Command{
		Use:     "kube [pod | type/name]",
		Aliases: []string{"kubectl", "k8s"},
		Short:   "Filter the logs of a Kubernetes pod or workload",
		Long: `Filter the logs of a Kubernetes pod or workload.

A type/name argument such as deployment/api reads a single pod of that workload.
Use --deployment to read every pod of a deployment, or --selector for any label set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				kopts.Pod = args[0]
			}
			return o.run(cmd, func(cfg *config.Config) (source.Source, error) {
				opts := kopts
				if !cmd.Flags().Changed("namespace") {
					opts.Namespace = cfg.Sources.Namespace
				}
				if !cmd.Flags().Changed("kube-context") {
					opts.Context = cfg.Sources.KubeContext
				}
				if err := opts.Validate(); err != nil {
					return nil, err
				}
				if opts.Deployment != "" {
					sel, err := source.DeploymentSelector(cmd.Context(), opts)
					if err != nil {
						return nil, err
					}
					opts.Selector = sel
				}
				opts.Tail = cfg.Sources.Tail
				opts.Since = o.since
				opts.Follow = o.follow
				return source.NewKubeSource(opts), nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&kopts.Namespace, "namespace", "", "namespace to read from")
	f.StringVar(&kopts.Context, "kube-context", "", "kubeconfig context")
	f.StringVar(&kopts.Selector, "selector", "", "label selector instead of a pod name")
	f.StringVar(&kopts.Deployment, "deployment", "", "read every pod of this deployment")
	f.StringVarP(&kopts.Container, "container", "c", "", "container within the pod")
	f.BoolVar(&kopts.Previous, "previous", false, "logs of the previous container instance")
	cmd.MarkFlagsMutuallyExclusive("selector", "deployment")
	return cmd
}

func newComposeCmd(o *options) *cobra.Command {
	var projectDir string

	cmd := &cobra.Command{
		Use:   "compose [service]",
		Short: "Filter the logs of a docker compose project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(cfg *config.Config) (source.Source, error) {
				opts := source.ComposeOptions{
					ProjectDir: projectDir,
					Tail:       cfg.Sources.Tail,
					Since:      o.since,
					Follow:     o.follow,
				}
				if len(args) == 1 {
					opts.Service = args[0]
				}
				return source.NewComposeSource(opts), nil
			})
		},
	}
	cmd.Flags().StringVar(&projectDir, "project-dir", "", "directory holding the compose file")
	return cmd
}

func newExecCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "exec -- <command> [args...]",
		Short: "Run a command and filter its stdout and stderr",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(*config.Config) (source.Source, error) {
				return source.NewExecSource(args[0], args[1:]), nil
			})
		},
	}
}

func newFileCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "file <path>",
		Short: "Filter a log file, optionally following it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(*config.Config) (source.Source, error) {
				return source.NewFileSource(args[0], o.follow, o.localTail(cmd)), nil
			})
		},
	}
}
