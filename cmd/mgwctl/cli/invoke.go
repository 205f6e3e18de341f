package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgefn/model-gateway/pkg/gateway"
)

func newInvokeCmd(opts *rootOptions) *cobra.Command {
	var dataArg string
	var showMeta bool
	cmd := &cobra.Command{
		Use:   "invoke <route>",
		Short: "Invoke a route with a JSON query payload",
		Long: `Invoke a route with a JSON query payload.

The payload is read from --data, or from stdin when --data is "-".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readPayload(dataArg, cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			act := opts.client().InvokeAction(ctx, gateway.Route{Name: args[0]}, data)
			out, err := act.Await(ctx)
			if err != nil {
				return err
			}
			if showMeta {
				cmd.PrintErrf("dispatch: id=%s elapsed=%s\n", act.Meta.ID, time.Since(act.Meta.StartTime).Round(time.Millisecond))
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&dataArg, "data", "{}", `JSON payload, or "-" to read stdin`)
	cmd.Flags().BoolVar(&showMeta, "meta", false, "print dispatch id and latency to stderr")
	return cmd
}

func readPayload(arg string, stdin io.Reader) (map[string]any, error) {
	raw := strings.TrimSpace(arg)
	if raw == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		raw = strings.TrimSpace(string(b))
	} else if strings.HasPrefix(raw, "@") {
		// curl-style: --data @payload.json
		b, err := os.ReadFile(strings.TrimPrefix(raw, "@"))
		if err != nil {
			return nil, err
		}
		raw = strings.TrimSpace(string(b))
	}
	if raw == "" {
		return map[string]any{}, nil
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("payload must be a JSON object: %w", err)
	}
	return data, nil
}
