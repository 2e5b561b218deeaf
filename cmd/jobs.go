package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentsage/internal/logger"
	"github.com/spigell/talentsage/internal/recruitment"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Print job postings with candidate counts per stage",
	Run: func(cmd *cobra.Command, _ []string) {
		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		a, err := newApplication(context.Background(), config, logger)
		if err != nil {
			logger.Fatal("building the application", zap.Error(err))
		}
		defer a.Close()

		printJobs(cmd.OutOrStdout(), a.store)
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}

func printJobs(out io.Writer, store *recruitment.Store) {
	now := time.Now()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := []string{"ID", "TITLE", "DEPARTMENT", "STATUS", "POSTED", "TOTAL"}
	for _, stage := range recruitment.Stages {
		header = append(header, strings.ToUpper(stage.String()))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, job := range store.Jobs() {
		stats := store.JobStats(job.ID)
		row := []string{
			job.ID,
			job.Title,
			job.Department,
			string(job.Status),
			recruitment.TimeAgo(job.PostedAt, now),
			fmt.Sprint(stats.Total),
		}
		for _, stage := range recruitment.Stages {
			row = append(row, fmt.Sprint(stats.ByStage[stage]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	w.Flush()
}
