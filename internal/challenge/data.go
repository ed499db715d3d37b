package challenge

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tidwall/jsonc"
)

// Data resolves challenge input files inside a directory.
type Data struct {
	dir   string
	files map[string]string
}

// NewData returns a resolver for dir. An optional JSONC manifest maps
// challenge numbers to file names relative to dir.
func NewData(dir, manifest string) (*Data, error) {
	d := &Data{dir: dir, files: map[string]string{}}

	if manifest == "" {
		return d, nil
	}

	files, err := LoadManifest(manifest)
	if err != nil {
		return nil, err
	}

	d.files = files

	return d, nil
}

// LoadManifest reads a JSONC object of "number": "file" entries.
func LoadManifest(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from user-supplied config
	if err != nil {
		return nil, fmt.Errorf("reading manifest %q: %w", path, err)
	}

	clean := jsonc.ToJSONInPlace(data)

	var files map[string]string
	if err := json.Unmarshal(clean, &files); err != nil {
		return nil, fmt.Errorf("parsing manifest %q: %w", path, err)
	}

	for key := range files {
		if _, err := strconv.Atoi(key); err != nil {
			return nil, fmt.Errorf("manifest %q: key %q is not a challenge number", path, key)
		}
	}

	return files, nil
}

// Path returns the file used for challenge n.
func (d *Data) Path(n int) string {
	if name, ok := d.files[strconv.Itoa(n)]; ok {
		return filepath.Join(d.dir, name)
	}

	return filepath.Join(d.dir, strconv.Itoa(n)+".txt")
}

// Read returns the raw contents of challenge n's file.
func (d *Data) Read(n int) ([]byte, error) {
	path := d.Path(n)

	data, err := os.ReadFile(path) //nolint:gosec // path is built from the data directory
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingData, path)
	}

	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}

	return data, nil
}

// Lines returns the non-empty lines of challenge n's file.
func (d *Data) Lines(n int) ([]string, error) {
	data, err := d.Read(n)
	if err != nil {
		return nil, err
	}

	var lines []string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		if line := bytes.TrimSpace(scanner.Bytes()); len(line) > 0 {
			lines = append(lines, string(line))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %q: %w", d.Path(n), err)
	}

	return lines, nil
}

// Base64 decodes the whole file as one base64 document, ignoring line breaks.
func (d *Data) Base64(n int) ([]byte, error) {
	lines, err := d.Lines(n)
	if err != nil {
		return nil, err
	}

	var joined bytes.Buffer
	for _, line := range lines {
		joined.WriteString(line)
	}

	out, err := base64.StdEncoding.DecodeString(joined.String())
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", d.Path(n), err)
	}

	return out, nil
}

// Base64Lines decodes every line separately.
func (d *Data) Base64Lines(n int) ([][]byte, error) {
	return d.decodeLines(n, base64.StdEncoding.DecodeString)
}

// HexLines decodes every line as hex.
func (d *Data) HexLines(n int) ([][]byte, error) {
	return d.decodeLines(n, hex.DecodeString)
}

func (d *Data) decodeLines(n int, decode func(string) ([]byte, error)) ([][]byte, error) {
	lines, err := d.Lines(n)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, 0, len(lines))

	for i, line := range lines {
		b, err := decode(line)
		if err != nil {
			return nil, fmt.Errorf("decoding %q line %d: %w", d.Path(n), i+1, err)
		}

		out = append(out, b)
	}

	return out, nil
}
