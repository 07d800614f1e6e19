package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bububa/pdf-agent/pkg/logging"
	"github.com/bububa/pdf-agent/schema"
)

// ErrUsage is returned for wrong arguments
var ErrUsage = errors.New("usage error")

const (
	noCommandMessage      = "Please provide a command: 'run', 'train', 'replay', or 'test'."
	invalidCommandMessage = "Invalid command. Use 'run', 'train', 'replay', or 'test'."
	urlPrompt             = "Enter the PDF URL: "
	extractingMessage     = "Extracting PDF content from URL..."
)

// DefaultTopic is the topic put in the payload when the runtime sets none
const DefaultTopic = "AI LLMs"

// Orchestrator runs the crew behind each verb
type Orchestrator interface {
	Kickoff(ctx context.Context, inputs schema.Inputs) (*schema.CrewOutput, error)
	Train(ctx context.Context, n int, filename string, inputs schema.Inputs) error
	Replay(ctx context.Context, taskID string) (*schema.CrewOutput, error)
	Test(ctx context.Context, n int, model string, inputs schema.Inputs) error
}

// Extractor fetches a PDF and returns its text
type Extractor interface {
	ExtractText(ctx context.Context, link string) (string, error)
}

// Runtime is what a verb needs to run
type Runtime struct {
	Orchestrator Orchestrator
	Extractor    Extractor
	Topic        string
	Logger       *slog.Logger
}

// Options are the global flags and streams handed to the Factory
type Options struct {
	ConfigFile string
	Verbose    bool
	Chat       bool
	In         *bufio.Reader
	Out        io.Writer
}

// Factory builds the runtime. It is only called by verbs, usage paths never reach it.
type Factory func(ctx context.Context, opts Options) (*Runtime, error)

// App dispatches command line verbs to an orchestrator
type App struct {
	factory Factory
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	now     func() time.Time
	version string
}

type Option func(*App)

// WithInput sets where the PDF URL and human answers are read from
func WithInput(r io.Reader) Option {
	return func(a *App) {
		a.in = bufio.NewReader(r)
	}
}

func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.out = w
	}
}

func WithErrOutput(w io.Writer) Option {
	return func(a *App) {
		a.errOut = w
	}
}

// WithClock sets the clock used for current_year
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

func WithVersion(v string) Option {
	return func(a *App) {
		a.version = v
	}
}

func New(factory Factory, opts ...Option) *App {
	ret := &App{
		factory: factory,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.in == nil {
		ret.in = bufio.NewReader(os.Stdin)
	}
	if ret.out == nil {
		ret.out = os.Stdout
	}
	if ret.errOut == nil {
		ret.errOut = os.Stderr
	}
	return ret
}

// Execute runs the command line args, without the program name
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.command()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) command() *cobra.Command {
	opts := Options{
		In:  a.in,
		Out: a.out,
	}
	root := &cobra.Command{
		Use:   "pdfagent",
		Short: "Feed the text of a PDF to a crew of LLM agents",
		Long: `pdfagent downloads a PDF, extracts its text and hands it to a crew of agents
that store it in a knowledge base and report on it.

Commands:
  run                                         prompt for a PDF URL and run the crew
  train <n_iterations> <filename> <pdf_url>   train the crew with human feedback
  replay <task_id>                            replay the last run from a task
  test <n_iterations> <model_name> <pdf_url>  score the crew outputs with a model`,
		Version:       a.version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(a.out, noCommandMessage)
				return nil
			}
			fmt.Fprintln(a.out, invalidCommandMessage)
			return nil
		},
	}
	// only the four verbs are commands, help is reachable through -h/--help
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetHelpCommand(&cobra.Command{
		Use:    "help",
		Hidden: true,
		Args:   cobra.ArbitraryArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintln(a.out, invalidCommandMessage)
		},
	})
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.ConfigFile, "config", "c", "", "configuration file path")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&opts.Chat, "chat", false, "add the chat agent to the crew")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Prompt for a PDF URL and run the crew",
			Args:  exactArgs("run"),
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := a.run(cmd.Context(), opts); err != nil {
					return fmt.Errorf("an error occurred while running the crew: %w", err)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "train <n_iterations> <filename> <pdf_url>",
			Short: "Train the crew for a number of iterations",
			Args:  exactArgs("train <n_iterations> <filename> <pdf_url>", iterationsArg(0)),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, _ := strconv.Atoi(args[0])
				if err := a.train(cmd.Context(), opts, n, args[1], args[2]); err != nil {
					return fmt.Errorf("an error occurred while training the crew: %w", err)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "replay <task_id>",
			Short: "Replay the last run from a specific task",
			Args:  exactArgs("replay <task_id>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.replay(cmd.Context(), opts, args[0]); err != nil {
					return fmt.Errorf("an error occurred while replaying the crew: %w", err)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "test <n_iterations> <model_name> <pdf_url>",
			Short: "Test the crew and score its outputs",
			Args:  exactArgs("test <n_iterations> <model_name> <pdf_url>", iterationsArg(0)),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, _ := strconv.Atoi(args[0])
				if err := a.test(cmd.Context(), opts, n, args[1], args[2]); err != nil {
					return fmt.Errorf("an error occurred while testing the crew: %w", err)
				}
				return nil
			},
		},
	)
	return root
}

// exactArgs checks the argument count of a verb against its usage line and runs the extra checks
func exactArgs(usage string, checks ...cobra.PositionalArgs) cobra.PositionalArgs {
	want := len(strings.Fields(usage)) - 1
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != want {
			return fmt.Errorf("%w: expected %d argument(s), got %d; usage: pdfagent %s", ErrUsage, want, len(args), usage)
		}
		for _, check := range checks {
			if err := check(cmd, args); err != nil {
				return err
			}
		}
		return nil
	}
}

func iterationsArg(idx int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[idx])
		if err != nil || n < 1 {
			return fmt.Errorf("%w: n_iterations must be a positive integer, got %q", ErrUsage, args[idx])
		}
		return nil
	}
}

func (a *App) runtime(ctx context.Context, opts Options) (context.Context, *Runtime, error) {
	if a.factory == nil {
		return ctx, nil, errors.New("no runtime factory")
	}
	rt, err := a.factory(ctx, opts)
	if err != nil {
		return ctx, nil, err
	}
	if rt.Logger != nil {
		ctx = logging.NewContext(ctx, rt.Logger)
	}
	return ctx, rt, nil
}

func (a *App) run(ctx context.Context, opts Options) error {
	ctx, rt, err := a.runtime(ctx, opts)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, urlPrompt)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return fmt.Errorf("read PDF URL: %w", err)
	}
	fmt.Fprintln(a.out, extractingMessage)
	inputs, err := a.payload(ctx, rt, strings.TrimSpace(line))
	if err != nil {
		return err
	}
	out, err := rt.Orchestrator.Kickoff(ctx, inputs)
	if err != nil {
		return err
	}
	a.printOutput(out)
	return nil
}

func (a *App) train(ctx context.Context, opts Options, n int, filename string, link string) error {
	ctx, rt, err := a.runtime(ctx, opts)
	if err != nil {
		return err
	}
	inputs, err := a.payload(ctx, rt, link)
	if err != nil {
		return err
	}
	return rt.Orchestrator.Train(ctx, n, filename, inputs)
}

func (a *App) replay(ctx context.Context, opts Options, taskID string) error {
	ctx, rt, err := a.runtime(ctx, opts)
	if err != nil {
		return err
	}
	out, err := rt.Orchestrator.Replay(ctx, taskID)
	if err != nil {
		return err
	}
	a.printOutput(out)
	return nil
}

func (a *App) test(ctx context.Context, opts Options, n int, model string, link string) error {
	ctx, rt, err := a.runtime(ctx, opts)
	if err != nil {
		return err
	}
	inputs, err := a.payload(ctx, rt, link)
	if err != nil {
		return err
	}
	return rt.Orchestrator.Test(ctx, n, model, inputs)
}

// payload extracts the PDF text and builds the crew inputs
func (a *App) payload(ctx context.Context, rt *Runtime, link string) (schema.Inputs, error) {
	text, err := rt.Extractor.ExtractText(ctx, link)
	if err != nil {
		return nil, err
	}
	topic := rt.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	logging.FromContext(ctx).DebugContext(ctx, "pdf extracted", slog.String("url", link), slog.Int("chars", len(text)))
	return schema.Inputs{
		schema.PDFContentKey:  text,
		schema.TopicKey:       topic,
		schema.CurrentYearKey: strconv.Itoa(a.now().Year()),
	}, nil
}

func (a *App) printOutput(out *schema.CrewOutput) {
	if out == nil {
		return
	}
	if raw := out.String(); raw != "" {
		fmt.Fprintln(a.out, raw)
	}
	if len(out.Tasks) == 0 {
		return
	}
	fmt.Fprintf(a.out, "\nTasks of kickoff %s (replay one with: pdfagent replay <task_id>):\n", out.KickoffID)
	for _, t := range out.Tasks {
		fmt.Fprintf(a.out, "  %s  %s\n", t.ID, t.Name)
	}
}
