package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/atul48kumar90/resume-tailor-agent/internal/schemas"
	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

// Output formats for commands that can print either JSON or a summary box.
const (
	outputJSON = "json"
	outputText = "text"
)

func checkOutput(format string) error {
	if format != outputJSON && format != outputText {
		return fmt.Errorf("invalid --output %q (want json or text)", format)
	}
	return nil
}

// readDocument reads and validates a resume document file. "-" reads stdin.
func readDocument(path string, stdin io.Reader) (*types.ResumeDocument, error) {
	raw, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}
	doc, err := schemas.DecodeDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid resume document %s: %w", path, err)
	}
	if doc == nil {
		doc = &types.ResumeDocument{}
	}
	return doc, nil
}

// readRequirements reads a requirement set file in any accepted shape. An
// empty path returns nil.
func readRequirements(path string, stdin io.Reader) (*types.JobRequirementSet, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}
	reqs, err := schemas.DecodeRequirements(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid requirements %s: %w", path, err)
	}
	return reqs, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return raw, nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
