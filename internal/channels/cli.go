// Package channels implements the terminal console archbot talks through.
package channels

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const (
	promptText       = ">> "
	continuationText = "... "

	defaultMaxLineBytes = 1 << 20
)

var errLineTooLong = errors.New("input line too long")

type readResult struct {
	line string
	err  error
}

// CLIChannel reads user input from a terminal and renders replies.
// A line ending in a backslash continues onto the next line.
type CLIChannel struct {
	reader  *bufio.Reader
	maxLine int
	// pending is the read left running when a ReadInput was cancelled; the
	// next ReadInput picks it up instead of starting a second reader.
	pending chan readResult

	out io.Writer
	mu  sync.Mutex

	prompt lipgloss.Style
	notice lipgloss.Style
	errorS lipgloss.Style
}

// NewCLIChannel creates a CLIChannel over in/out. Styles degrade to plain
// text when out is not a colour-capable terminal.
func NewCLIChannel(in io.Reader, out io.Writer) *CLIChannel {
	r := lipgloss.NewRenderer(out)

	return &CLIChannel{
		reader:  bufio.NewReaderSize(in, 64*1024),
		maxLine: defaultMaxLineBytes,
		out:     out,
		prompt:  r.NewStyle().Foreground(lipgloss.Color("#06B6D4")).Bold(true),
		notice:  r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		errorS:  r.NewStyle().Foreground(lipgloss.Color("#EF4444")),
	}
}

// ReadInput prompts for and returns one logical input, joining continued
// lines with "\n". It returns io.EOF when input is closed and ctx.Err() when
// ctx is cancelled while waiting. A line over the size limit is reported,
// dropped together with anything it continued, and reading goes on.
func (c *CLIChannel) ReadInput(ctx context.Context) (string, error) {
	var lines []string
	prompt := promptText

	for {
		c.write(c.prompt.Render(prompt))

		line, err := c.nextLine(ctx)
		if errors.Is(err, errLineTooLong) {
			c.Error(fmt.Sprintf("Input ignored: a line exceeded %d bytes.", c.maxLine))
			lines = nil
			prompt = promptText
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(lines) > 0 {
				return strings.Join(lines, "\n"), nil
			}
			return "", err
		}

		if rest, ok := strings.CutSuffix(line, `\`); ok {
			lines = append(lines, rest)
			prompt = continuationText
			continue
		}
		lines = append(lines, line)
		return strings.Join(lines, "\n"), nil
	}
}

// nextLine reads one line on a helper goroutine so a cancelled ctx can end
// a blocked read.
func (c *CLIChannel) nextLine(ctx context.Context) (string, error) {
	if c.pending == nil {
		done := make(chan readResult, 1)
		go func() {
			line, err := c.readLine()
			done <- readResult{line: line, err: err}
		}()
		c.pending = done
	}

	select {
	case r := <-c.pending:
		c.pending = nil
		return r.line, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// readLine returns the next line without its terminator. Once a line grows
// past maxLine the rest of it is consumed and errLineTooLong returned.
func (c *CLIChannel) readLine() (string, error) {
	var buf []byte
	tooLong := false

	for {
		chunk, isPrefix, err := c.reader.ReadLine()
		if err != nil {
			if tooLong {
				return "", errLineTooLong
			}
			return "", err
		}
		if !tooLong {
			if len(buf)+len(chunk) > c.maxLine {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			break
		}
	}

	if tooLong {
		return "", errLineTooLong
	}
	return string(buf), nil
}

// Print writes text verbatim followed by a newline.
func (c *CLIChannel) Print(text string) {
	c.write(text + "\n")
}

// Notice writes a dimmed informational line.
func (c *CLIChannel) Notice(text string) {
	c.write(c.renderLines(c.notice, text) + "\n")
}

// Error writes an error line.
func (c *CLIChannel) Error(text string) {
	c.write(c.renderLines(c.errorS, text) + "\n")
}

// renderLines styles each line on its own so multi-line messages aren't
// padded to a common width.
func (c *CLIChannel) renderLines(s lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = s.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

func (c *CLIChannel) write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, s)
}
