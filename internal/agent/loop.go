package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/crystaldolphin/archbot/internal/schema"
	"github.com/crystaldolphin/archbot/internal/shared/stringutils"
	"github.com/crystaldolphin/archbot/internal/tools"
)

const tracerName = "github.com/crystaldolphin/archbot/internal/agent"

const (
	welcomeText  = "Welcome to archbot, the LLM-enabled tooling interface!"
	hintText     = "Type 'exit' or press Ctrl+C to quit, '/help' for commands. End a line with \\ to continue it."
	farewellText = "Goodbye!"
	exitingText  = "Exiting. Goodbye!"
	toolUsage    = "Usage: /tool <ToolName> <param1=value> <param2=value> ..."
	helpText     = `Commands:
  /tool <ToolName> key=value ...   run a registered tool
  /tools                           list registered tools and their parameters
  /help                            show this help
  exit | quit                      leave
Anything else is sent to the model.`
)

// Console is the terminal the dispatcher reads from and renders to.
type Console interface {
	// ReadInput returns io.EOF when input ends and the context error when
	// the read is interrupted.
	ReadInput(ctx context.Context) (string, error)
	Print(text string)
	Notice(text string)
	Error(text string)
}

// Outcome tells the loop whether to keep reading.
type Outcome int

const (
	Continue Outcome = iota
	Stop
)

// Dispatcher routes each line of user input either to the model client or
// to a registered tool. Commands are processed strictly one at a time.
type Dispatcher struct {
	console  Console
	model    schema.ModelClient
	registry *tools.Registry
	tracer   trace.Tracer
}

// NewDispatcher creates a Dispatcher. The global OpenTelemetry tracer
// provider is used for command spans.
func NewDispatcher(console Console, model schema.ModelClient, registry *tools.Registry) *Dispatcher {
	return &Dispatcher{
		console:  console,
		model:    model,
		registry: registry,
		tracer:   otel.Tracer(tracerName),
	}
}

// Run is the read-eval loop. It returns nil when the user exits, input ends
// or ctx is cancelled; only a broken input stream is returned as an error.
func (d *Dispatcher) Run(ctx context.Context) error {
	slog.Info("Dispatcher started", "tools", d.registry.Names())
	d.console.Notice(welcomeText)
	d.console.Notice(hintText)

	for {
		input, err := d.console.ReadInput(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				d.console.Notice("\n" + exitingText)
				return nil
			}
			slog.Error("Reading input failed", "err", err)
			return fmt.Errorf("read input: %w", err)
		}

		if d.Handle(ctx, input) == Stop {
			return nil
		}
	}
}

// Handle processes one input line. Every failure inside the command is
// contained: it is logged, rendered as an error and the loop continues.
// A command cut short by ctx cancellation renders nothing.
func (d *Dispatcher) Handle(ctx context.Context, input string) (outcome Outcome) {
	cmd := ParseCommand(input)
	switch cmd.Kind {
	case KindEmpty:
		return Continue
	case KindExit:
		d.console.Notice(farewellText)
		return Stop
	}

	id := uuid.NewString()
	ctx, span := d.tracer.Start(ctx, "archbot.command", trace.WithAttributes(
		attribute.String("archbot.invocation_id", id),
		attribute.String("archbot.command.kind", cmd.Kind.String()),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			slog.Error("Unexpected error processing command",
				"id", id, "kind", cmd.Kind.String(), "err", err, "stack", string(debug.Stack()))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			d.console.Error("Error: " + err.Error())
			outcome = Continue
		}
	}()

	if err := d.dispatch(ctx, id, cmd); err != nil {
		if ctx.Err() != nil {
			// Interrupted: Run prints the farewell on its next read.
			slog.Info("Command interrupted", "id", id, "kind", cmd.Kind.String(), "err", err)
			span.SetStatus(codes.Error, "interrupted")
			return Continue
		}
		slog.Error("Command failed", "id", id, "kind", cmd.Kind.String(), "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.console.Error("Error: " + err.Error())
	}
	return Continue
}

func (d *Dispatcher) dispatch(ctx context.Context, id string, cmd Command) error {
	switch cmd.Kind {
	case KindHelp:
		d.console.Notice(helpText)
		return nil
	case KindListTools:
		d.console.Print(formatToolList(d.registry.Names(), d.registry.List()))
		return nil
	case KindTool:
		return d.runTool(ctx, id, cmd)
	default:
		return d.runPrompt(ctx, id, cmd.Text)
	}
}

func (d *Dispatcher) runTool(ctx context.Context, id string, cmd Command) error {
	if cmd.Tool == "" {
		d.console.Notice(toolUsage)
		return nil
	}
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("archbot.tool", cmd.Tool))

	tool, ok := d.registry.Get(cmd.Tool)
	if !ok {
		d.console.Error("No such tool: " + cmd.Tool)
		return nil
	}

	values, err := tool.Schema().Construct(cmd.Params)
	if err != nil {
		slog.Debug("Tool parameters rejected", "id", id, "tool", cmd.Tool, "err", err)
		d.console.Error("Parameter validation error: " + err.Error())
		return nil
	}

	valid, err := tool.Validate(ctx, values)
	if err != nil {
		slog.Error("Tool validation failed unexpectedly", "id", id, "tool", cmd.Tool, "err", err)
		valid = false
	}
	if !valid {
		d.console.Error("Tool parameters validation failed.")
		return nil
	}

	slog.Info("Tool call", "id", id, "tool", cmd.Tool,
		"params", stringutils.Truncate(fmt.Sprint(cmd.Params), 200))

	result := tool.Execute(ctx, values)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("tool %s: %w", cmd.Tool, err)
	}
	if tools.IsErrorResult(result) {
		span.SetStatus(codes.Error, "tool returned an error value")
	}

	rendered, err := RenderResult(result)
	if err != nil {
		return fmt.Errorf("render %s result: %w", cmd.Tool, err)
	}
	d.console.Print("Tool result: " + rendered)
	return nil
}

func (d *Dispatcher) runPrompt(ctx context.Context, id, text string) error {
	slog.Debug("Prompt", "id", id, "chars", len(text))

	reply, err := d.model.GenerateText(ctx, BuildPrompt(text))
	if err != nil {
		return fmt.Errorf("model call: %w", err)
	}
	d.console.Print(reply)
	return nil
}
