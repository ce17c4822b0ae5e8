package handlers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/config"
	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/display"
	"github.com/concave-dev/thinkmap/internal/batching"
	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/session"
)

var (
	// editInput and promptOutput are the session terminal. Tests replace them.
	editInput    io.Reader = os.Stdin
	promptOutput io.Writer = os.Stderr
)

// HandleEdit opens an interactive session on a map. Each edit is applied
// locally and queued; the queue is saved and sent for feedback after
// --max-ops edits or --idle seconds without one.
func HandleEdit(cmd *cobra.Command, args []string) error {
	setup()

	if err := config.ValidateEditFlags(); err != nil {
		return err
	}

	_, api, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	m, err := resolveMap(ctx, api, args[0])
	cancel()
	if err != nil {
		return err
	}

	logging.Info("Opening edit session on map %s", logging.FormatMapID(m.ID))
	sess := session.New(m, api, config.BatchingConfig(), batching.WithOnUpdate(display.DisplayEntry))

	fmt.Fprintf(promptOutput, "Editing %q (%s). Feedback after %d changes or %ds idle. Type help for commands.\n",
		m.Title, logging.TruncateID(m.ID), config.Edit.MaxOperations, config.Edit.IdleSeconds)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runEditLoop(sigCtx, sess, editInput)
}

// runEditLoop reads session commands until quit, end of input or ctx is
// done. Queued edits are flushed before it returns.
func runEditLoop(ctx context.Context, sess *session.Session, in io.Reader) error {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

loop:
	for {
		fmt.Fprint(promptOutput, "> ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(promptOutput)
			break loop
		case l, ok := <-lines:
			if !ok {
				break loop
			}
			line = l
		}

		cmd, err := session.ParseCommand(line)
		if err != nil {
			fmt.Fprintln(promptOutput, err)
			continue
		}

		switch cmd.Kind {
		case session.CommandEdit:
			if err := sess.Apply(cmd.Op); err != nil {
				fmt.Fprintf(promptOutput, "rejected: %v\n", err)
			}
		case session.CommandFlush:
			if !sess.Flush() {
				fmt.Fprintln(promptOutput, "Nothing to send")
			}
		case session.CommandStatus:
			display.DisplaySessionStatus(sess.Pending(), sess.Entries())
		case session.CommandShow:
			display.DisplayMap(sess.Map())
		case session.CommandHelp:
			fmt.Fprintln(promptOutput, session.Help)
		case session.CommandQuit:
			break loop
		}
	}

	if pending := sess.Pending(); pending > 0 {
		fmt.Fprintf(promptOutput, "Sending %d queued change(s) before exit...\n", pending)
	}
	sess.Close()

	failed := 0
	for _, e := range sess.Entries() {
		if e.Status == batching.StatusError {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d feedback request(s) failed", failed)
	}
	return nil
}
