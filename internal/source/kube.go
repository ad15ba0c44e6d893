package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

// KubeOptions selects which pod logs `kubectl logs` returns.
type KubeOptions struct {
	Pod        string // pod name, or type/name such as deployment/api (one pod)
	Selector   string // label selector; used instead of Pod when set
	Deployment string // every pod of this deployment; see DeploymentSelector
	Container  string
	Namespace  string
	Context    string
	Tail       int // lines from the end; negative means all
	Since      string
	Previous   bool
	Follow     bool
}

// Validate rejects option sets kubectl logs cannot serve.
func (o KubeOptions) Validate() error {
	if o.Pod == "" && o.Selector == "" && o.Deployment == "" {
		return errors.New("kube: a pod name, --selector or --deployment is required")
	}
	if o.Namespace == "all" {
		return errors.New(`kube: kubectl logs reads a single namespace; "all" is not supported`)
	}
	return nil
}

// KubeArgs builds the `kubectl` argument list for opts.
func KubeArgs(opts KubeOptions) []string {
	args := kubeGlobalArgs(opts)

	// Always explicit: with --selector kubectl would otherwise default to 10 lines.
	args = append(args, "logs", "--tail", strconv.Itoa(max(opts.Tail, -1)))
	if opts.Since != "" {
		args = append(args, "--since", opts.Since)
	}
	if opts.Previous {
		args = append(args, "--previous")
	}
	if opts.Follow {
		args = append(args, "--follow")
	}
	if opts.Container != "" {
		args = append(args, "--container", opts.Container)
	}
	if opts.Selector != "" {
		// Lines from several pods are interleaved; keep the pod name on each.
		return append(args, "--selector", opts.Selector, "--prefix")
	}
	return append(args, opts.Pod)
}

func kubeGlobalArgs(opts KubeOptions) []string {
	var args []string
	if opts.Context != "" {
		args = append(args, "--context", opts.Context)
	}
	if opts.Namespace != "" {
		args = append(args, "--namespace", opts.Namespace)
	}
	return args
}

// NewKubeSource creates a source that reads pod logs via `kubectl logs`.
func NewKubeSource(opts KubeOptions) *ExecSource {
	s := NewExecSource("kubectl", KubeArgs(opts))
	target := opts.Pod
	if opts.Selector != "" {
		target = opts.Selector
	}
	s.name = fmt.Sprintf("kube:%s", target)
	return s
}

// DeploymentArgs builds the `kubectl` argument list that prints a deployment's match labels.
func DeploymentArgs(opts KubeOptions) []string {
	return append(kubeGlobalArgs(opts),
		"get", "deployment", opts.Deployment, "-o", "jsonpath={.spec.selector.matchLabels}")
}

// ParseMatchLabels turns a matchLabels JSON object into a label selector, keys sorted.
// Output that is not a non-empty object yields app=<deployment>.
func ParseMatchLabels(out []byte, deployment string) string {
	var labels map[string]string
	if err := json.Unmarshal(bytes.TrimSpace(out), &labels); err != nil || len(labels) == 0 {
		return "app=" + deployment
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+labels[k])
	}
	return strings.Join(pairs, ",")
}

// DeploymentSelector asks kubectl for the label selector of opts.Deployment's pods.
func DeploymentSelector(ctx context.Context, opts KubeOptions) (string, error) {
	deployment := opts.Deployment
	cmd := exec.CommandContext(ctx, "kubectl", DeploymentArgs(opts)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("kube: deployment %s: %s: %w", deployment, msg, err)
		}
		return "", fmt.Errorf("kube: deployment %s: %w", deployment, err)
	}
	return ParseMatchLabels(out, deployment), nil
}
