package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/apitrail/apitrail/client"
)

func newApiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Manage api definitions",
	}
	cmd.AddCommand(apiCreateCmd())
	cmd.AddCommand(apiGetCmd())
	cmd.AddCommand(apiUpdateCmd())
	cmd.AddCommand(apiDeleteCmd())
	cmd.AddCommand(apiRunCmd())
	return cmd
}

func parseID(arg, what string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		fatal("parse "+what, fmt.Errorf("%q is not a positive integer", arg))
	}
	return id
}

func apiCreateCmd() *cobra.Command {
	var projectID, dictionaryID int64
	var method, apiURL, desc string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an api definition",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			apiID, err := apiClient.Apis.Create(context.Background(), &client.CreateApiRequest{
				ProjectID:    projectID,
				DictionaryID: dictionaryID,
				Name:         args[0],
				Method:       method,
				URL:          apiURL,
				Desc:         desc,
			})
			if err != nil {
				fatal("create api", err)
			}
			output(map[string]int64{"api_id": apiID}, strconv.FormatInt(apiID, 10))
		},
	}
	cmd.Flags().Int64Var(&projectID, "project", 0, "Project ID")
	cmd.Flags().Int64Var(&dictionaryID, "dictionary", 0, "Dictionary ID")
	cmd.Flags().StringVar(&method, "method", "GET", "HTTP method")
	cmd.Flags().StringVar(&apiURL, "path", "", "Request path")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.MarkFlagRequired("project")    //nolint:errcheck
	cmd.MarkFlagRequired("dictionary") //nolint:errcheck
	cmd.MarkFlagRequired("path")       //nolint:errcheck
	return cmd
}

func apiGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an api definition",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			detail, err := apiClient.Apis.Get(context.Background(), parseID(args[0], "api id"))
			if err != nil {
				fatal("get api", err)
			}
			output(detail, strconv.FormatInt(detail.ID, 10))
		},
	}
}

func apiUpdateCmd() *cobra.Command {
	var projectID int64
	var editJSON string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Apply one edit to an api definition",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateApiRequest{}
			if err := json.Unmarshal([]byte(editJSON), req); err != nil {
				fatal("parse edit", err)
			}
			req.ProjectID = projectID
			versionID, err := apiClient.Apis.Update(context.Background(), parseID(args[0], "api id"), req)
			if err != nil {
				fatal("update api", err)
			}
			output(map[string]int64{"version_id": versionID}, strconv.FormatInt(versionID, 10))
		},
	}
	cmd.Flags().Int64Var(&projectID, "project", 0, "Project ID")
	cmd.Flags().StringVar(&editJSON, "edit", "", "Edit payload as JSON")
	cmd.MarkFlagRequired("project") //nolint:errcheck
	cmd.MarkFlagRequired("edit")    //nolint:errcheck
	return cmd
}

func apiDeleteCmd() *cobra.Command {
	var projectID int64
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an api definition",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Apis.Delete(context.Background(), parseID(args[0], "api id"), projectID); err != nil {
				fatal("delete api", err)
			}
			fmt.Println("deleted")
		},
	}
	cmd.Flags().Int64Var(&projectID, "project", 0, "Project ID")
	cmd.MarkFlagRequired("project") //nolint:errcheck
	return cmd
}

func apiRunCmd() *cobra.Command {
	var runJSON string
	cmd := &cobra.Command{
		Use:   "run <id>",
		Short: "Run an api against its project environment",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.RunApiRequest{}
			if runJSON != "" {
				if err := json.Unmarshal([]byte(runJSON), req); err != nil {
					fatal("parse run payload", err)
				}
			}
			result, err := apiClient.Apis.Run(context.Background(), parseID(args[0], "api id"), req)
			if err != nil {
				fatal("run api", err)
			}
			output(result, result.Mode)
		},
	}
	cmd.Flags().StringVar(&runJSON, "values", "", "Run values as JSON (params and body)")
	return cmd
}
