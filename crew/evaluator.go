package crew

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/go-playground/validator/v10"

	"github.com/bububa/pdf-agent/agents"
	"github.com/bububa/pdf-agent/components"
	"github.com/bububa/pdf-agent/components/llm"
	"github.com/bububa/pdf-agent/components/systemprompt/simple"
	"github.com/bububa/pdf-agent/schema"
)

// ErrInvalidEvaluation is returned when the evaluator reply is not a valid score
var ErrInvalidEvaluation = errors.New("invalid evaluation")

const evaluatorPrompt = `You are an impartial reviewer of task results.
You receive a task description, the expected output and the actual output produced by an agent.
Score how well the actual output fulfils the task on a scale from 1 (useless) to 10 (perfect).
Reply with a single JSON object {"score": <integer from 1 to 10>, "reason": "<one sentence>"} and nothing else.`

// Evaluation is the evaluator verdict on a task output
type Evaluation struct {
	Score  int    `json:"score" validate:"min=1,max=10"`
	Reason string `json:"reason"`
}

type evaluator struct {
	agent *agents.Agent
}

func newEvaluator(clt llm.Client, model string) *evaluator {
	return &evaluator{
		agent: agents.NewAgent(
			agents.WithName("evaluator"),
			agents.WithClient(clt),
			agents.WithModel(model),
			agents.WithSystemPromptGenerator(simple.New(evaluatorPrompt)),
		),
	}
}

func (e *evaluator) Evaluate(ctx context.Context, task Task, inputs schema.Inputs, out schema.TaskOutput, usage *components.LLMUsage) (*Evaluation, error) {
	e.agent.ResetMemory()
	prompt := fmt.Sprintf("Task description:\n%s\n\nExpected output:\n%s\n\nActual output:\n%s",
		inputs.Interpolate(task.Description),
		inputs.Interpolate(task.ExpectedOutput),
		out.Raw,
	)
	resp := new(components.LLMResponse)
	reply, err := e.agent.Run(ctx, prompt, resp)
	usage.Merge(resp.Usage)
	if err != nil {
		return nil, err
	}
	return decodeEvaluation(reply)
}

// decodeEvaluation reads the first JSON object found in reply
func decodeEvaluation(reply string) (*Evaluation, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in %q", ErrInvalidEvaluation, reply)
	}
	ret := new(Evaluation)
	if err := json.Unmarshal([]byte(reply[start:end+1]), ret); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvaluation, err)
	}
	if err := validator.New().Struct(ret); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvaluation, err)
	}
	return ret, nil
}

// Scores collects evaluation scores per task and run
type Scores struct {
	tasks  []string
	values map[string][]int
	runs   int
}

func newScores(tasks []Task) *Scores {
	ret := &Scores{
		values: make(map[string][]int, len(tasks)),
	}
	for _, t := range tasks {
		ret.tasks = append(ret.tasks, t.Name)
	}
	return ret
}

// NewRun starts a new column of scores
func (s *Scores) NewRun() {
	s.runs++
	for _, name := range s.tasks {
		s.values[name] = append(s.values[name], 0)
	}
}

// Set records the score of task in the current run
func (s *Scores) Set(task string, score int) {
	if s.runs == 0 {
		return
	}
	if list, ok := s.values[task]; ok {
		list[s.runs-1] = score
	}
}

// Average returns the mean score of task over the runs where it was scored
func (s *Scores) Average(task string) float64 {
	return average(s.values[task])
}

// RunAverage returns the mean score of all tasks in run i (0 based)
func (s *Scores) RunAverage(i int) float64 {
	list := make([]int, 0, len(s.tasks))
	for _, name := range s.tasks {
		list = append(list, s.values[name][i])
	}
	return average(list)
}

func average(list []int) float64 {
	var (
		sum float64
		n   int
	)
	for _, v := range list {
		if v <= 0 {
			continue
		}
		sum += float64(v)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Print writes the score table
func (s *Scores) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"Task"}
	for i := 1; i <= s.runs; i++ {
		header = append(header, fmt.Sprintf("Run %d", i))
	}
	header = append(header, "Avg. Total")
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, name := range s.tasks {
		row := []string{name}
		for _, v := range s.values[name] {
			row = append(row, formatScore(float64(v)))
		}
		row = append(row, formatScore(s.Average(name)))
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	crewRow := []string{"Crew"}
	var total []float64
	for i := 0; i < s.runs; i++ {
		avg := s.RunAverage(i)
		total = append(total, avg)
		crewRow = append(crewRow, formatScore(avg))
	}
	var sum float64
	for _, v := range total {
		sum += v
	}
	if len(total) > 0 {
		sum /= float64(len(total))
	}
	crewRow = append(crewRow, formatScore(sum))
	fmt.Fprintln(tw, strings.Join(crewRow, "\t"))
	return tw.Flush()
}

func formatScore(v float64) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}
