package channels

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInput_SingleLine(t *testing.T) {
	var out bytes.Buffer
	c := NewCLIChannel(strings.NewReader("hello there\nsecond\n"), &out)

	got, err := c.ReadInput(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello there", got)

	got, err = c.ReadInput(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	_, err = c.ReadInput(context.Background())
	assert.ErrorIs(t, err, io.EOF)

	assert.Contains(t, out.String(), promptText)
}

func TestReadInput_Continuation(t *testing.T) {
	var out bytes.Buffer
	c := NewCLIChannel(strings.NewReader("design a cache\\\nwith LRU eviction\n"), &out)

	got, err := c.ReadInput(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "design a cache\nwith LRU eviction", got)
	assert.Contains(t, out.String(), continuationText)
}

func TestReadInput_EOFDuringContinuation(t *testing.T) {
	c := NewCLIChannel(strings.NewReader("partial\\"), io.Discard)

	got, err := c.ReadInput(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "partial", got)
}

func TestReadInput_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	c := NewCLIChannel(pr, io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.ReadInput(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestPrint_Verbatim(t *testing.T) {
	var out bytes.Buffer
	c := NewCLIChannel(strings.NewReader(""), &out)

	c.Print("line one\n\tindented")
	assert.Equal(t, "line one\n\tindented\n", out.String())
}

func TestNoticeAndError_PlainWhenNotTerminal(t *testing.T) {
	var out bytes.Buffer
	c := NewCLIChannel(strings.NewReader(""), &out)

	c.Notice("Welcome")
	c.Error("Error: boom")
	assert.Equal(t, "Welcome\nError: boom\n", out.String())
}

func TestReadInput_OversizedLineIsSkipped(t *testing.T) {
	var out bytes.Buffer
	in := strings.Repeat("x", 200) + "\nhello\n"
	c := NewCLIChannel(strings.NewReader(in), &out)
	c.maxLine = 16

	got, err := c.ReadInput(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Contains(t, out.String(), "Input ignored: a line exceeded 16 bytes.")
}

func TestReadInput_OversizedLineDropsContinuation(t *testing.T) {
	var out bytes.Buffer
	in := "first part\\\n" + strings.Repeat("y", 100) + "\nnext\n"
	c := NewCLIChannel(strings.NewReader(in), &out)
	c.maxLine = 32

	got, err := c.ReadInput(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "next", got)
}

func TestReadInput_OversizedLineAtDefaultLimit(t *testing.T) {
	in := strings.Repeat("z", defaultMaxLineBytes+10) + "\nok\n"
	c := NewCLIChannel(strings.NewReader(in), io.Discard)

	got, err := c.ReadInput(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestReadInput_ResumesAfterCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c := NewCLIChannel(pr, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.ReadInput(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	go func() { _, _ = pw.Write([]byte("after\n")) }()

	got, err := c.ReadInput(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "after", got)
}
