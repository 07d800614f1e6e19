package crew

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed config/agents.yaml config/tasks.yaml
var embeddedConfig embed.FS

const (
	agentsFile = "agents.yaml"
	tasksFile  = "tasks.yaml"
)

// Tool set names an agent may list under tools
const (
	RAGToolset        = "rag"
	HumanInputToolset = "human_input"
)

// Variant selects which tasks take part in a kickoff
type Variant string

const (
	VariantDefault Variant = "default"
	VariantChat    Variant = "chat"
)

// AgentConfig is one entry of agents.yaml
type AgentConfig struct {
	Role      string `yaml:"role" validate:"required"`
	Goal      string `yaml:"goal" validate:"required"`
	Backstory string `yaml:"backstory" validate:"required"`
	// LLM overrides the model of the crew
	LLM     string   `yaml:"llm"`
	MaxIter int      `yaml:"max_iter" validate:"min=0,max=50"`
	Tools   []string `yaml:"tools" validate:"dive,oneof=rag human_input"`
}

// TaskConfig is one entry of tasks.yaml
type TaskConfig struct {
	Description    string  `yaml:"description" validate:"required"`
	ExpectedOutput string  `yaml:"expected_output" validate:"required"`
	Agent          string  `yaml:"agent" validate:"required"`
	OutputFile     string  `yaml:"output_file"`
	Variant        Variant `yaml:"variant" validate:"omitempty,oneof=default chat"`
}

// Definition is the decoded crew configuration. Tasks keep the order of tasks.yaml.
type Definition struct {
	Agents map[string]AgentConfig
	Tasks  []Task
}

// LoadDefinition reads agents.yaml and tasks.yaml from dir, or the embedded defaults when dir is empty
func LoadDefinition(dir string) (*Definition, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(embeddedConfig, "config")
		if err != nil {
			return nil, err
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}
	agentsBuf, err := fs.ReadFile(fsys, agentsFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", agentsFile, err)
	}
	tasksBuf, err := fs.ReadFile(fsys, tasksFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", tasksFile, err)
	}
	return ParseDefinition(agentsBuf, tasksBuf)
}

// ParseDefinition decodes and validates agents and tasks yaml documents
func ParseDefinition(agentsYAML, tasksYAML []byte) (*Definition, error) {
	def := &Definition{
		Agents: make(map[string]AgentConfig),
	}
	if err := yaml.NewDecoder(bytes.NewReader(agentsYAML)).Decode(&def.Agents); err != nil {
		return nil, fmt.Errorf("decode %s: %w", agentsFile, err)
	}
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(tasksYAML)).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode %s: %w", tasksFile, err)
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode %s: expected a mapping of tasks", tasksFile)
	}
	mapping := root.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		task := Task{Name: mapping.Content[i].Value}
		if err := mapping.Content[i+1].Decode(&task.TaskConfig); err != nil {
			return nil, fmt.Errorf("decode task %s: %w", task.Name, err)
		}
		def.Tasks = append(def.Tasks, task)
	}
	def.normalize()
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func (d *Definition) normalize() {
	for name, agent := range d.Agents {
		agent.Role = strings.TrimSpace(agent.Role)
		agent.Goal = strings.TrimSpace(agent.Goal)
		agent.Backstory = strings.TrimSpace(agent.Backstory)
		agent.LLM = strings.TrimSpace(agent.LLM)
		d.Agents[name] = agent
	}
	for i := range d.Tasks {
		t := &d.Tasks[i]
		t.Description = strings.TrimSpace(t.Description)
		t.ExpectedOutput = strings.TrimSpace(t.ExpectedOutput)
		t.Agent = strings.TrimSpace(t.Agent)
		t.OutputFile = strings.TrimSpace(t.OutputFile)
	}
}

// Validate checks field constraints and that every task names a known agent
func (d *Definition) Validate() error {
	if len(d.Tasks) == 0 {
		return errors.New("invalid crew config: no tasks")
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	for name, agent := range d.Agents {
		if err := validate.Struct(agent); err != nil {
			return fmt.Errorf("invalid agent %s: %w", name, err)
		}
	}
	seen := make(map[string]struct{}, len(d.Tasks))
	for _, task := range d.Tasks {
		if err := validate.Struct(task.TaskConfig); err != nil {
			return fmt.Errorf("invalid task %s: %w", task.Name, err)
		}
		if _, ok := d.Agents[task.Agent]; !ok {
			return fmt.Errorf("invalid task %s: unknown agent %q", task.Name, task.Agent)
		}
		if _, ok := seen[task.Name]; ok {
			return fmt.Errorf("invalid task %s: duplicated", task.Name)
		}
		seen[task.Name] = struct{}{}
	}
	return nil
}

// TasksFor returns the tasks taking part in a kickoff of the given variant
func (d *Definition) TasksFor(variant Variant) []Task {
	ret := make([]Task, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		if t.Variant == "" || t.Variant == VariantDefault || t.Variant == variant {
			ret = append(ret, t)
		}
	}
	return ret
}

// Task returns the named task
func (d *Definition) Task(name string) (Task, bool) {
	for _, t := range d.Tasks {
		if t.Name == name {
			return t, true
		}
	}
	return Task{}, false
}
