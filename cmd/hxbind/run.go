package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm/hxbind"
	"github.com/pthm/hxbind/lib/dom"
	"github.com/pthm/hxbind/lib/events"
)

var (
	runSelector  string
	runEvent     string
	runShowEvent bool
)

var runCmd = &cobra.Command{
	Use:   "run PAGE",
	Short: "Dispatch an event on a page and print the resulting HTML",
	Long: `Run binds every element of PAGE that carries marker attributes, dispatches
the event on the element matching --on, waits for template loads and timed
toggles to settle and prints the document. PAGE "-" reads stdin.`,
	Example: `  hxbind run page.html --on "#save"
  hxbind run page.html --on "button.next" --event submit --events`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runSelector, "on", "", "selector of the element to dispatch on (required)")
	runCmd.Flags().StringVar(&runEvent, "event", "", "event type (defaults to the configured event)")
	runCmd.Flags().BoolVar(&runShowEvent, "events", false, "print sent events to stderr")
	_ = runCmd.MarkFlagRequired("on")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	loader, err := cfg.Loader()
	if err != nil {
		return err
	}
	doc, err := readPage(cmd, args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := events.NewRegistry()
	if runShowEvent {
		untap := reg.Tap(func(el *dom.Element, evt *dom.Event) {
			fmt.Fprintf(cmd.ErrOrStderr(), "event %s on <%s id=%q> detail=%v\n", evt.Type, el.Tag(), el.ID(), evt.Detail)
		})
		defer untap()
	}

	opts := append(cfg.Options(logger, loader), hxbind.WithRegistry(reg))
	res, err := hxbind.TestDispatchDocument(ctx, doc, runSelector, runEvent, opts...)
	if err != nil {
		return err
	}
	if res.Err != nil {
		logger.Warn("asynchronous instructions failed", "error", res.Err)
	}

	if err := doc.Render(cmd.OutOrStdout()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return cfg.SaveSnapshot(loader)
}
