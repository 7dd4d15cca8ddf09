// Package repl runs the interactive question loop of the chat command.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

const (
	Prompt         = "Ask a question: "
	FailureMessage = "Unable to start the chat. Check the initialization errors."

	maxLineSize = 1024 * 1024
)

type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// REPL reads one question per line and prints one answer per question.
type REPL struct {
	asker Asker
	in    io.Reader
	out   io.Writer
}

func New(asker Asker, in io.Reader, out io.Writer) *REPL {
	return &REPL{asker: asker, in: in, out: out}
}

// Run loops until input ends, ctx is cancelled or a question fails. A failed
// question prints FailureMessage and its error is returned; nothing is retried.
func (r *REPL) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for {
		fmt.Fprint(r.out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return nil
		}
		question := strings.TrimRight(scanner.Text(), "\r")
		answer, err := r.asker.Ask(ctx, question)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("answer question failed", zap.String("kind", appErr.Kind(err)), zap.Error(err))
			fmt.Fprintln(r.out, FailureMessage)
			return err
		}
		fmt.Fprintln(r.out, answer)
	}
}
