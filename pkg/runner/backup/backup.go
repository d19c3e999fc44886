// Package backup exports and imports the task and trash lists.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/printers"
	"tableflip.dev/progressly/pkg/task"
)

// DocumentVersion is written into every export.
const DocumentVersion = 1

// Document is the export format. JSON and YAML renderings carry the same
// fields.
type Document struct {
	Version    int         `json:"version"`
	ExportedAt int64       `json:"exportedAt"`
	Tasks      []task.Task `json:"tasks"`
	Trash      []task.Task `json:"trash"`
}

// Export writes both lists as JSON or YAML.
type Export struct {
	Format string
	Out    io.Writer

	Service *app.Service
}

func (n *Export) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not export, no service")
	}
	tasks, err := n.Service.Tasks(ctx)
	if err != nil {
		return err
	}
	trash, err := n.Service.Trash(ctx)
	if err != nil {
		return err
	}
	format := n.Format
	if format == "" {
		format = printers.FormatJSON
	}
	return printers.Structured(n.Out, format, Document{
		Version:    DocumentVersion,
		ExportedAt: n.Service.Clock().UnixMilli(),
		Tasks:      nonNil(tasks),
		Trash:      nonNil(trash),
	})
}

func nonNil(tasks []task.Task) []task.Task {
	if tasks == nil {
		return []task.Task{}
	}
	return tasks
}

// Import reads a Document, or a bare task array as stored under the tasks
// key, in JSON or YAML.
type Import struct {
	In      io.Reader
	Replace bool
	Out     io.Writer

	Service *app.Service
}

func (n *Import) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not import, no service")
	}
	raw, err := io.ReadAll(n.In)
	if err != nil {
		return err
	}
	doc, err := Decode(raw)
	if err != nil {
		return err
	}
	if err := n.Service.Import(ctx, doc.Tasks, doc.Trash, n.Replace); err != nil {
		return err
	}
	out := n.Out
	if out != nil {
		mode := "merged"
		if n.Replace {
			mode = "replaced"
		}
		_, _ = fmt.Fprintf(out, "Imported %d tasks and %d trashed tasks (%s).\n", len(doc.Tasks), len(doc.Trash), mode)
	}
	return nil
}

// Decode parses an export. YAML is a superset of JSON so both go through
// the YAML to JSON conversion.
func Decode(raw []byte) (Document, error) {
	j, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", task.ErrInvalid, err)
	}
	var doc Document
	if len(j) > 0 && j[0] == '[' {
		if err := json.Unmarshal(j, &doc.Tasks); err != nil {
			return Document{}, fmt.Errorf("%w: %v", task.ErrInvalid, err)
		}
		return doc, nil
	}
	if err := json.Unmarshal(j, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", task.ErrInvalid, err)
	}
	if doc.Version > DocumentVersion {
		return Document{}, fmt.Errorf("%w: export version %d is newer than supported version %d", task.ErrInvalid, doc.Version, DocumentVersion)
	}
	return doc, nil
}
