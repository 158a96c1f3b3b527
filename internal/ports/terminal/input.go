package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"lora/internal/domain"
)

// MoveSink accepts a card for the open human wait. app.HumanInput implements it.
type MoveSink interface {
	Submit(card domain.Card) bool
	Pending() (domain.Seat, []domain.Card, bool)
}

// ReadMoves reads one card per line from r and submits it to sink until r is
// exhausted or ctx is done. "?" lists the legal cards of the open wait.
// Feedback is written to w.
func ReadMoves(ctx context.Context, r io.Reader, sink MoveSink, w io.Writer) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			return err
		case line := <-lines:
			handleLine(strings.TrimSpace(line), sink, w)
		}
	}
}

func handleLine(line string, sink MoveSink, w io.Writer) {
	if line == "" {
		return
	}
	if line == "?" {
		if _, legal, ok := sink.Pending(); ok {
			fmt.Fprintf(w, "legal: %s\n", JoinCards(legal))
		} else {
			fmt.Fprintln(w, "not your turn")
		}
		return
	}
	card, err := domain.ParseCard(line)
	if err != nil {
		fmt.Fprintf(w, "%v (try KH, 10S or ?)\n", err)
		return
	}
	if !sink.Submit(card) {
		fmt.Fprintln(w, "not your turn")
	}
}
