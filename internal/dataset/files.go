package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrInputNotFound is returned when an input dataset file does not exist.
var ErrInputNotFound = errors.New("input file not found")

// LoadGenerations reads a JSON array of generation records.
func LoadGenerations(path string) ([]GenerationRecord, error) {
	var records []GenerationRecord
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadEvaluations reads a JSON array of evaluation records.
func LoadEvaluations(path string) ([]EvaluationRecord, error) {
	var records []EvaluationRecord
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// WriteJSON stores v as indented JSON. The payload goes to a temporary file in
// the same directory first and is renamed into place, so an interrupted run
// never leaves a truncated file behind.
func WriteJSON(path string, v any) error {
	return writeAtomic(path, func(w *bufio.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	})
}

// WriteJSONL stores one compact JSON object per line.
func WriteJSONL(path string, entries []ChatEntry) error {
	return writeAtomic(path, func(w *bufio.Writer) error {
		encoder := json.NewEncoder(w)
		for _, entry := range entries {
			if err := encoder.Encode(entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteText stores raw text, used to keep unparsable model responses around.
func WriteText(path, text string) error {
	return writeAtomic(path, func(w *bufio.Writer) error {
		_, err := w.WriteString(text)
		return err
	})
}

func writeAtomic(path string, write func(*bufio.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	buf := bufio.NewWriter(tmp)
	if err := write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := buf.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
