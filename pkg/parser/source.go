package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize folds full-width characters to their ASCII forms (NFKC) and
// converts CRLF and CR line endings to LF.
func Normalize(raw string) string {
	s := norm.NFKC.String(raw)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// ReadAll reads a document line by line, checking ctx between lines. Lines
// have no length limit, so an oversized line reaches the parser and is
// skipped there like any other malformed line.
func ReadAll(ctx context.Context, r io.Reader) (string, error) {
	br := bufio.NewReader(r)

	var sb strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		line, err := br.ReadString('\n')
		sb.WriteString(line)
		if err == io.EOF {
			if line != "" && !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
	}
}

// ReadFile reads a log export from disk.
func ReadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return "", fmt.Errorf("opening log file %s: %w", path, err)
	}
	defer f.Close()

	doc, err := ReadAll(ctx, f)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return doc, nil
}

// ParseFile reads and parses a log export.
func ParseFile(ctx context.Context, path string, opts ...Option) (*Result, error) {
	doc, err := ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return Parse(doc, opts...)
}

// ParseReader reads and parses a log export from r.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Result, error) {
	doc, err := ReadAll(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	return Parse(doc, opts...)
}
