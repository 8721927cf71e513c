// Package convert runs the filter and path extraction for one program.
package convert

import (
	"fmt"
	"os"
	"path/filepath"

	"sbpconv/internal/filter"
	"sbpconv/internal/model"
	"sbpconv/internal/plot"
)

// Convert filters a PenguinCAM program and extracts its toolpath.
// name is only used to derive the output file name.
func Convert(name, input string) model.Conversion {
	lines := filter.ProcessLines(input)
	output := filter.Join(lines)

	return model.Conversion{
		InputName:  filepath.Base(name),
		OutputName: filter.OutputName(name),
		Output:     output,
		Lines:      lines,
		Summary:    filter.Summarize(lines),
		Path:       plot.ExtractPath(output),
	}
}

// ConvertFile reads path from disk and converts it.
func ConvertFile(path string) (model.Conversion, error) {
	input, err := model.ReadProgram(path)
	if err != nil {
		return model.Conversion{}, err
	}
	return Convert(path, input), nil
}

// WriteOutput writes the converted program next to dir/OutputName and
// returns the path written. An empty dir means the current directory.
func WriteOutput(conv model.Conversion, dir string) (string, error) {
	dest := filepath.Join(model.ExpandTilde(dir), conv.OutputName)
	if err := os.WriteFile(dest, []byte(conv.Output), 0644); err != nil {
		return "", fmt.Errorf("could not write %s: %w", dest, err)
	}
	return dest, nil
}

// Preview lays out the conversion's toolpath. It returns plot.ErrNoData when
// no coordinates were found; the conversion itself is still usable.
func Preview(conv model.Conversion, opts plot.Options) (*plot.Figure, error) {
	return plot.Render(conv.Path, opts)
}
