package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"portal/internal/apiclient"
	"portal/internal/logline"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		tail       int
		category   string
		level      string
		requestID  string
		search     string
		follow     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Tail or follow the portal log",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			query := apiclient.LogQuery{
				Tail:      tail,
				Category:  category,
				Level:     level,
				RequestID: requestID,
				Query:     search,
			}
			out := cmd.OutOrStdout()

			printRecord := func(record logline.Record) error {
				if jsonOutput {
					line, err := json.Marshal(record)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, string(line))
					return nil
				}
				fmt.Fprintln(out, formatRecord(record))
				return nil
			}

			if follow {
				err := client.FollowLogs(cmd.Context(), query, printRecord)
				address, _ := ctx.apiAddress()
				return wrapUnavailable(err, address)
			}

			resp, err := client.QueryLogs(cmd.Context(), query)
			if err != nil {
				address, _ := ctx.apiAddress()
				return wrapUnavailable(err, address)
			}
			for _, record := range resp.Items {
				if err := printRecord(record); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&tail, "tail", "n", 0, "Number of trailing records (default 300, max 5000)")
	cmd.Flags().StringVar(&category, "category", "", "Only records with this category field")
	cmd.Flags().StringVar(&level, "level", "", "Only records at this level")
	cmd.Flags().StringVar(&requestID, "request-id", "", "Only records with this request id")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Case-insensitive substring match")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Stream new records as they arrive")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit raw JSON lines")
	return cmd
}

func formatRecord(record logline.Record) string {
	var b strings.Builder
	b.WriteString(record.Timestamp.Local().Format(time.RFC3339))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("%-8s", record.Level))
	if record.Logger != "" {
		b.WriteString(record.Logger)
		b.WriteString(": ")
	}
	b.WriteString(record.Message)

	if len(record.Fields) > 0 {
		keys := make([]string, 0, len(record.Fields))
		for key := range record.Fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			b.WriteString(fmt.Sprintf(" %s=%v", key, record.Fields[key]))
		}
	}
	return b.String()
}
