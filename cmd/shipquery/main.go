// Command shipquery is the CLI for ingesting shipment files and asking
// plain-English questions about them.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shipquery/internal/config"
	"shipquery/internal/history"
	"shipquery/internal/logging"
	"shipquery/internal/session"
	"shipquery/internal/store"
	"shipquery/internal/translate"
)

var (
	configPath string
	collection string
	costField  string
	dateField  string
	limit      int
)

func main() {
	root := &cobra.Command{
		Use:           "shipquery",
		Short:         "Query shipment data in plain English",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "shipquery.yaml", "config file path")
	root.PersistentFlags().StringVar(&collection, "collection", "", "target collection (overrides config)")

	ingestCmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest a CSV or Excel shipment file into the store",
		Args:  cobra.ExactArgs(1),
		RunE:  runIngest,
	}

	askCmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Translate a question into a query and run it",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}
	askCmd.Flags().StringVar(&costField, "cost-field", "", "explicit cost field override")
	askCmd.Flags().StringVar(&dateField, "date-field", "", "explicit date field override")

	fieldsCmd := &cobra.Command{
		Use:   "fields",
		Short: "Show the known fields of the target collection",
		Args:  cobra.NoArgs,
		RunE:  runFields,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently asked questions",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "max entries to show")

	root.AddCommand(ingestCmd, askCmd, fieldsCmd, historyCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openSession connects the store and history per the config. The caller must
// invoke the returned cleanup.
func openSession(ctx context.Context) (*session.Session, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if collection != "" {
		cfg.Store.Collection = collection
	}
	log := logging.New(cfg.Debug)

	client, err := store.Connect(ctx, cfg.Store.URI, cfg.Store.Database, log)
	if err != nil {
		return nil, nil, err
	}

	hist, err := history.Open(cfg.History.Path)
	if err != nil {
		log.Warnw("history disabled", "err", err)
		hist = nil
	}

	sess := &session.Session{
		Collection: client.Collection(cfg.Store.Collection),
		History:    hist,
		Loc:        cfg.Location(),
		SampleSize: int64(cfg.SampleSize),
		Log:        log,
	}
	cleanup := func() {
		if hist != nil {
			hist.Close()
		}
		client.Close(context.Background())
	}
	return sess, cleanup, nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, cleanup, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := sess.IngestFile(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Inserted %d rows (%d columns) into %s\n",
		summary.RowsInserted, summary.ColumnsDetected, sess.Collection.Name())
	for _, f := range summary.Fields {
		fmt.Printf("  %-30s %s\n", f.Name, f.Role)
	}
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, cleanup, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	question := strings.Join(args, " ")
	answer, err := sess.Ask(ctx, question, translate.Overrides{
		CostField: costField,
		DateField: dateField,
	})
	if err != nil {
		return err
	}

	fmt.Println(answer.Rendered)
	if answer.Hint != "" {
		fmt.Println()
		fmt.Println(answer.Hint)
	}
	return nil
}

func runFields(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, cleanup, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	fields, err := sess.KnownFields(ctx)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		fmt.Println("No data ingested yet.")
		return nil
	}
	for _, f := range fields {
		fmt.Printf("%-30s %s\n", f.Name, f.Role)
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	hist, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer hist.Close()

	entries, err := hist.ListQuestions(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No questions asked yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("[%s] %-12s %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Status, e.Question)
	}
	return nil
}
