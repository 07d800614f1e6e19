package crew

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"

	"github.com/bububa/pdf-agent/agents"
	"github.com/bububa/pdf-agent/components"
	"github.com/bububa/pdf-agent/components/llm"
	"github.com/bububa/pdf-agent/components/systemprompt/persona"
	"github.com/bububa/pdf-agent/pkg/logging"
	"github.com/bububa/pdf-agent/schema"
	"github.com/bububa/pdf-agent/tools"
)

// DefaultKickoffLog is where the last kickoff is recorded when no store is given
const DefaultKickoffLog = ".pdfagent/kickoff.json"

var (
	ErrNoPDFContent      = errors.New("inputs have no pdf_content")
	ErrInvalidIterations = errors.New("n_iterations must be a positive integer")
	ErrTaskNotFound      = errors.New("task not found in the last kickoff")
	ErrNoAsker           = errors.New("training needs a human input source")
)

// Asker asks the human a question and returns the answer
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Crew runs a sequence of tasks, each handled by an agent, passing earlier outputs as context
type Crew struct {
	def               *Definition
	variant           Variant
	client            llm.Client
	maxIter           int
	toolsets          map[string][]tools.Tool
	store             *KickoffStore
	trainedAgentsFile string
	asker             Asker
	out               io.Writer
}

type Option func(*Crew)

func WithVariant(v Variant) Option {
	return func(c *Crew) {
		c.variant = v
	}
}

func WithClient(clt llm.Client) Option {
	return func(c *Crew) {
		c.client = clt
	}
}

// WithMaxIter sets the tool calling bound of agents that do not set max_iter
func WithMaxIter(n int) Option {
	return func(c *Crew) {
		c.maxIter = n
	}
}

// WithToolset registers the tools an agent gets when it lists name under tools
func WithToolset(name string, list ...tools.Tool) Option {
	return func(c *Crew) {
		c.toolsets[name] = append(c.toolsets[name], list...)
	}
}

func WithKickoffStore(store *KickoffStore) Option {
	return func(c *Crew) {
		c.store = store
	}
}

// WithTrainedAgentsFile loads training feedback from path into the agent prompts
func WithTrainedAgentsFile(path string) Option {
	return func(c *Crew) {
		c.trainedAgentsFile = path
	}
}

func WithAsker(asker Asker) Option {
	return func(c *Crew) {
		c.asker = asker
	}
}

// WithOutput sets where test scores are printed
func WithOutput(w io.Writer) Option {
	return func(c *Crew) {
		c.out = w
	}
}

// New returns a Crew running the tasks of def
func New(def *Definition, opts ...Option) (*Crew, error) {
	if def == nil {
		return nil, errors.New("crew: definition is required")
	}
	ret := &Crew{
		def:      def,
		variant:  VariantDefault,
		maxIter:  agents.DefaultMaxIter,
		toolsets: make(map[string][]tools.Tool),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.client == nil {
		return nil, errors.New("crew: llm client is required")
	}
	if ret.store == nil {
		ret.store = NewKickoffStore(DefaultKickoffLog)
	}
	if ret.out == nil {
		ret.out = os.Stdout
	}
	return ret, nil
}

// Tasks returns the tasks run by a kickoff
func (c *Crew) Tasks() []Task {
	return c.def.TasksFor(c.variant)
}

// Kickoff runs every task in order and records the run in the kickoff log
func (c *Crew) Kickoff(ctx context.Context, inputs schema.Inputs) (*schema.CrewOutput, error) {
	if inputs.PDFContent() == "" {
		return nil, ErrNoPDFContent
	}
	return c.execute(ctx, inputs, c.Tasks(), nil, nil)
}

// Replay re-runs the last kickoff from the task with the given id onward.
// Outputs of the tasks before it are reused as context.
func (c *Crew) Replay(ctx context.Context, taskID string) (*schema.CrewOutput, error) {
	log, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	idx := log.TaskIndex(taskID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	tasks := make([]Task, 0, len(log.Tasks)-idx)
	for _, out := range log.Tasks[idx:] {
		task, ok := c.def.Task(out.Name)
		if !ok {
			return nil, fmt.Errorf("%w: task %s is no longer configured", ErrTaskNotFound, out.Name)
		}
		tasks = append(tasks, task)
	}
	logging.FromContext(ctx).InfoContext(ctx, "replaying kickoff",
		slog.String("kickoff_id", log.KickoffID),
		slog.String("from_task", log.Tasks[idx].Name),
	)
	return c.execute(ctx, log.Inputs, tasks, log.Tasks[:idx], nil)
}

// Train runs n kickoffs and asks the human for feedback after every task.
// Feedback is stored in filename keyed by agent role.
func (c *Crew) Train(ctx context.Context, n int, filename string, inputs schema.Inputs) error {
	if n < 1 {
		return ErrInvalidIterations
	}
	if filename == "" {
		return errors.New("training filename is required")
	}
	if inputs.PDFContent() == "" {
		return ErrNoPDFContent
	}
	if c.asker == nil {
		return ErrNoAsker
	}
	data, err := LoadTrainingData(filename)
	if err != nil {
		return err
	}
	for i := 1; i <= n; i++ {
		after := func(ctx context.Context, task Task, out schema.TaskOutput) error {
			agent := c.def.Agents[task.Agent]
			question := fmt.Sprintf("[training %d/%d] %s produced:\n\n%s\n\nYour feedback for the %s (empty to skip):",
				i, n, task.Name, out.Raw, agent.Role)
			feedback, err := c.asker.Ask(ctx, question)
			if err != nil {
				return fmt.Errorf("collect feedback: %w", err)
			}
			data.Add(agent.Role, TrainingEntry{
				Iteration: i,
				Task:      task.Name,
				Output:    out.Raw,
				Feedback:  feedback,
				CreatedAt: time.Now(),
			})
			return nil
		}
		if _, err := c.execute(ctx, inputs, c.Tasks(), nil, after); err != nil {
			return fmt.Errorf("training iteration %d: %w", i, err)
		}
		if err := data.Save(filename); err != nil {
			return fmt.Errorf("save training data: %w", err)
		}
	}
	return nil
}

// Test runs n kickoffs, scores every task output with model and prints the score table
func (c *Crew) Test(ctx context.Context, n int, model string, inputs schema.Inputs) error {
	if n < 1 {
		return ErrInvalidIterations
	}
	if inputs.PDFContent() == "" {
		return ErrNoPDFContent
	}
	tasks := c.Tasks()
	eval := newEvaluator(c.client, model)
	scores := newScores(tasks)
	usage := new(components.LLMUsage)
	for i := 1; i <= n; i++ {
		scores.NewRun()
		after := func(ctx context.Context, task Task, out schema.TaskOutput) error {
			res, err := eval.Evaluate(ctx, task, inputs, out, usage)
			if err != nil {
				return fmt.Errorf("evaluate %s: %w", task.Name, err)
			}
			scores.Set(task.Name, res.Score)
			logging.FromContext(ctx).DebugContext(ctx, "task evaluated",
				slog.String("task", task.Name),
				slog.Int("score", res.Score),
				slog.String("reason", res.Reason),
			)
			return nil
		}
		if _, err := c.execute(ctx, inputs, tasks, nil, after); err != nil {
			return fmt.Errorf("test iteration %d: %w", i, err)
		}
	}
	logging.FromContext(ctx).InfoContext(ctx, "crew tested",
		slog.Int("iterations", n),
		slog.String("model", model),
		slog.Int64("evaluator_input_tokens", usage.InputTokens),
		slog.Int64("evaluator_output_tokens", usage.OutputTokens),
	)
	return scores.Print(c.out)
}

type afterTaskFunc func(context.Context, Task, schema.TaskOutput) error

func (c *Crew) execute(ctx context.Context, inputs schema.Inputs, tasks []Task, prior []schema.TaskOutput, after afterTaskFunc) (*schema.CrewOutput, error) {
	logger := logging.FromContext(ctx)
	team, err := c.buildAgents(inputs, tasks)
	if err != nil {
		return nil, err
	}
	ret := &schema.CrewOutput{
		KickoffID: xid.New().String(),
		Tasks:     append(make([]schema.TaskOutput, 0, len(prior)+len(tasks)), prior...),
	}
	for _, task := range tasks {
		agent := team[task.Agent]
		agent.ResetMemory()
		out := schema.TaskOutput{
			ID:          uuid.NewString(),
			Name:        task.Name,
			Agent:       c.def.Agents[task.Agent].Role,
			Description: inputs.Interpolate(task.Description),
			OutputFile:  task.OutputFile,
			StartedAt:   time.Now(),
		}
		logger.InfoContext(ctx, "task started",
			slog.String("task", task.Name),
			slog.String("task_id", out.ID),
			slog.String("agent", out.Agent),
		)
		resp := new(components.LLMResponse)
		raw, err := agent.Run(ctx, task.Prompt(inputs, ret.Tasks), resp)
		ret.Usage.Merge(resp.Usage)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", task.Name, err)
		}
		out.Raw = raw
		out.FinishedAt = time.Now()
		if err := task.writeOutput(raw); err != nil {
			return nil, fmt.Errorf("task %s: write %s: %w", task.Name, task.OutputFile, err)
		}
		logger.InfoContext(ctx, "task finished",
			slog.String("task", task.Name),
			slog.String("task_id", out.ID),
			slog.Duration("duration", out.Duration()),
		)
		ret.Tasks = append(ret.Tasks, out)
		ret.Raw = raw
		if after != nil {
			if err := after(ctx, task, out); err != nil {
				return nil, err
			}
		}
	}
	if err := c.store.Save(&KickoffLog{
		KickoffID: ret.KickoffID,
		Variant:   c.variant,
		Inputs:    inputs,
		Tasks:     ret.Tasks,
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("save kickoff log: %w", err)
	}
	return ret, nil
}

func (c *Crew) buildAgents(inputs schema.Inputs, tasks []Task) (map[string]*agents.Agent, error) {
	training, err := LoadTrainingData(c.trainedAgentsFile)
	if err != nil {
		return nil, err
	}
	ret := make(map[string]*agents.Agent, len(tasks))
	for _, task := range tasks {
		if _, ok := ret[task.Agent]; ok {
			continue
		}
		cfg := c.def.Agents[task.Agent]
		var list []tools.Tool
		for _, name := range cfg.Tools {
			set, ok := c.toolsets[name]
			if !ok {
				return nil, fmt.Errorf("agent %s: tool set %s is not available", task.Agent, name)
			}
			list = append(list, set...)
		}
		var genOpts []persona.Option
		if provider := training.ContextProvider(cfg.Role); provider != nil {
			genOpts = append(genOpts, persona.WithContextProviders(provider))
		}
		maxIter := cfg.MaxIter
		if maxIter <= 0 {
			maxIter = c.maxIter
		}
		ret[task.Agent] = agents.NewAgent(
			agents.WithName(task.Agent),
			agents.WithClient(c.client),
			agents.WithModel(cfg.LLM),
			agents.WithMaxIter(maxIter),
			agents.WithTools(list...),
			agents.WithSystemPromptGenerator(persona.New(
				inputs.Interpolate(cfg.Role),
				inputs.Interpolate(cfg.Goal),
				inputs.Interpolate(cfg.Backstory),
				genOpts...,
			)),
		)
	}
	return ret, nil
}
