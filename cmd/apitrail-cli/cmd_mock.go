package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newMockCmd() *cobra.Command {
	var schemaJSON string
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Generate mock data from a schema document",
		Run: func(cmd *cobra.Command, args []string) {
			raw := []byte(schemaJSON)
			if schemaJSON == "" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					fatal("read stdin", err)
				}
				raw = data
			}
			result, err := apiClient.Mock.Generate(context.Background(), json.RawMessage(raw))
			if err != nil {
				fatal("generate mock", err)
			}
			var v any
			if err := json.Unmarshal(result, &v); err != nil {
				fatal("decode result", err)
			}
			output(v, "")
		},
	}
	cmd.Flags().StringVar(&schemaJSON, "schema", "", "Schema as JSON (reads stdin when omitted)")
	return cmd
}
