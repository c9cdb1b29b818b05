package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/mockshop/pkg/app"
	"github.com/shashiranjanraj/mockshop/pkg/database"
	"github.com/shashiranjanraj/mockshop/pkg/queue"
)

var (
	queueWorkersFlag int
	failedLimitFlag  int
)

// mockshop queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Println("Queue worker started. Press Ctrl+C to stop.")
		err := application.Work(ctx, queueWorkersFlag)
		fmt.Println("Queue worker stopped.")
		return err
	},
}

// mockshop queue:failed
var queueFailedCmd = &cobra.Command{
	Use:   "queue:failed",
	Short: "List jobs that exhausted their retries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.ConnectDB(); err != nil {
			return err
		}
		queue.UseDB(database.DB)

		rows, err := queue.Default.ListFailed(cmd.Context(), failedLimitFlag)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("No failed jobs.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tJOB\tATTEMPTS\tFAILED AT\tERROR")
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", r.ID, r.JobType, r.Attempts, r.FailedAt.Format("2006-01-02 15:04:05"), r.Error)
		}
		return w.Flush()
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 0, "Number of concurrent workers (default QUEUE_WORKERS)")
	queueFailedCmd.Flags().IntVarP(&failedLimitFlag, "limit", "n", 50, "Maximum rows to show")
}
