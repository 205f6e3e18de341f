// Package cli implements the mgwctl command tree.
package cli

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgefn/model-gateway/internal/version"
	"github.com/edgefn/model-gateway/pkg/gateway"
)

type rootOptions struct {
	gatewayURL string
	apiKey     string
	timeout    time.Duration
}

func (o *rootOptions) client() *gateway.Client {
	url := strings.TrimSpace(o.gatewayURL)
	if url == "" {
		url = strings.TrimSpace(os.Getenv("MGW_GATEWAY_URL"))
	}
	if url == "" {
		url = "http://127.0.0.1:5000"
	}
	key := strings.TrimSpace(o.apiKey)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("MGW_API_KEY"))
	}
	return gateway.New(url, gateway.WithAPIKey(key))
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{timeout: gateway.DefaultTimeout}
	cmd := &cobra.Command{
		Use:           "mgwctl",
		Short:         "Operate a model-gateway instance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.gatewayURL, "gateway", "", "gateway base URL (default $MGW_GATEWAY_URL or http://127.0.0.1:5000)")
	pf.StringVar(&opts.apiKey, "api-key", "", "gateway API key (default $MGW_API_KEY)")
	pf.DurationVar(&opts.timeout, "timeout", gateway.DefaultTimeout, "per-call timeout")

	cmd.AddCommand(newRoutesCmd(opts), newInvokeCmd(opts), newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print mgwctl version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(version.Get())
			return nil
		},
	}
}
