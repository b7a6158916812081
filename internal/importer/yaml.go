// Package importer loads sections and tasks from YAML into a board.
package importer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nhle/taskdash/internal/board"
	"github.com/nhle/taskdash/internal/model"
)

// YAMLTask is a single task in the YAML input.
type YAMLTask struct {
	Text        string   `yaml:"text"`
	Description string   `yaml:"description,omitempty"`
	DueDate     string   `yaml:"due_date"`
	DueTime     string   `yaml:"due_time"`
	Priority    string   `yaml:"priority,omitempty"`
	Status      string   `yaml:"status,omitempty"`
	Important   bool     `yaml:"important,omitempty"`
	SubTasks    []string `yaml:"subtasks,omitempty"`
}

// YAMLSection groups tasks under a section name.
type YAMLSection struct {
	Name  string     `yaml:"name"`
	Tasks []YAMLTask `yaml:"tasks"`
}

// YAMLInput is the root of the YAML input. Top-level tasks go to the
// section that is active when the import runs.
type YAMLInput struct {
	Sections []YAMLSection `yaml:"sections,omitempty"`
	Tasks    []YAMLTask    `yaml:"tasks,omitempty"`
}

// Result counts what an import created.
type Result struct {
	Sections int
	Tasks    int
}

// ImportFile reads path and imports it into b.
func ImportFile(ctx context.Context, b *board.Board, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Import(ctx, b, string(data))
}

// Import parses a YAML document and creates its sections and tasks through
// b, so the usual validation applies. Sections are matched by name, case
// insensitively, and created when missing. The active section is restored
// afterwards. On error, everything created before the failure is kept.
func Import(ctx context.Context, b *board.Board, yamlStr string) (Result, error) {
	var input YAMLInput
	if err := yaml.Unmarshal([]byte(yamlStr), &input); err != nil {
		return Result{}, fmt.Errorf("YAML parse error: %w", err)
	}
	if len(input.Sections) == 0 && len(input.Tasks) == 0 {
		return Result{}, fmt.Errorf("no sections or tasks found in YAML")
	}

	active := b.ActiveSection()
	defer func() {
		_ = b.SetActiveSection(ctx, active)
	}()

	var res Result
	for _, t := range input.Tasks {
		if err := importTask(ctx, b, t); err != nil {
			return res, err
		}
		res.Tasks++
	}

	for _, ys := range input.Sections {
		id, created, err := resolveSection(ctx, b, ys.Name)
		if err != nil {
			return res, err
		}
		if created {
			res.Sections++
		}
		if err := b.SetActiveSection(ctx, id); err != nil {
			return res, fmt.Errorf("select section %q: %w", ys.Name, err)
		}
		for _, t := range ys.Tasks {
			if err := importTask(ctx, b, t); err != nil {
				return res, err
			}
			res.Tasks++
		}
	}
	return res, nil
}

func resolveSection(ctx context.Context, b *board.Board, name string) (string, bool, error) {
	snap, err := b.Snapshot(ctx, time.Now())
	if err != nil {
		return "", false, err
	}
	for _, s := range snap.Sections {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s.ID, false, nil
		}
	}
	s, err := b.AddSection(ctx, name)
	if err != nil {
		return "", false, fmt.Errorf("add section %q: %w", name, err)
	}
	return s.ID, true, nil
}

func importTask(ctx context.Context, b *board.Board, yt YAMLTask) error {
	status := model.Status(strings.ToLower(strings.TrimSpace(yt.Status)))
	if status != "" && !status.Valid() {
		return fmt.Errorf("task %q: unknown status %q: %w", yt.Text, yt.Status, board.ErrValidation)
	}

	task, err := b.AddTask(ctx, board.TaskInput{
		Text:        yt.Text,
		Description: yt.Description,
		DueDate:     yt.DueDate,
		DueTime:     yt.DueTime,
		Priority:    model.Priority(strings.ToLower(yt.Priority)),
		SubTasks:    yt.SubTasks,
	})
	if err != nil {
		return fmt.Errorf("add task %q: %w", yt.Text, err)
	}

	if status != "" {
		if err := b.SetStatus(ctx, task.ID, status); err != nil {
			return fmt.Errorf("set status for %q: %w", yt.Text, err)
		}
	}
	if yt.Important {
		if err := b.ToggleImportant(ctx, task.ID); err != nil {
			return fmt.Errorf("mark %q important: %w", yt.Text, err)
		}
	}
	return nil
}
