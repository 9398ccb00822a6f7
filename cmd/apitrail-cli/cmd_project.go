package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project version history and rollback",
	}
	cmd.AddCommand(projectHistoryCmd())
	cmd.AddCommand(projectVersionCmd())
	cmd.AddCommand(projectRollbackCmd())
	return cmd
}

func projectHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <project-id>",
		Short: "Show the project's version ledger, newest first",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			history, err := apiClient.Projects.History(context.Background(), parseID(args[0], "project id"))
			if err != nil {
				fatal("get history", err)
			}
			if flagFmt == "table" {
				headers := []string{"VERSION", "USER", "CHANGES", "SUMMARY", "CREATED"}
				var rows [][]string
				for _, e := range history {
					changes := make([]string, len(e.ChangeTypes))
					for i, ct := range e.ChangeTypes {
						changes[i] = strconv.Itoa(int(ct))
					}
					rows = append(rows, []string{
						strconv.FormatInt(e.ID, 10),
						e.UserName,
						strings.Join(changes, ","),
						e.Summary,
						e.CreatedAt.Format("2006-01-02 15:04:05"),
					})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, e := range history {
					fmt.Println(e.ID)
				}
				return
			}
			output(history, "")
		},
	}
}

func projectVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version <project-id> <version-id>",
		Short: "Show a single ledger entry",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			version, err := apiClient.Projects.GetVersion(context.Background(),
				parseID(args[0], "project id"), parseID(args[1], "version id"))
			if err != nil {
				fatal("get version", err)
			}
			output(version, strconv.FormatInt(version.ID, 10))
		},
	}
}

func projectRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback <project-id> <version-id>",
		Short: "Reverse a single version",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			err := apiClient.Projects.Rollback(context.Background(),
				parseID(args[0], "project id"), parseID(args[1], "version id"))
			if err != nil {
				fatal("rollback", err)
			}
			fmt.Println("rolled back")
		},
	}
}
