// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// JSONLLoader reads line-delimited recipe records, the format the harvesting
// stage emits. Blank lines are ignored; malformed lines are tallied, never
// fatal.
type JSONLLoader struct {
	Path string
}

// Load reads the whole file. Record ids are derived from the line number,
// which is stable for a given input file.
func (l *JSONLLoader) Load(ctx context.Context) (*LoadResult, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus file: %w", err)
	}
	defer f.Close()

	result := &LoadResult{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		id := fmt.Sprintf("line-%d", lineNo)

		var raw rawRecord
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			result.skip(l.Path, id, err)
			continue
		}
		recipe, err := raw.toRecipe(id)
		if err != nil {
			result.skip(l.Path, id, err)
			continue
		}
		result.keep(recipe)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus file: %w", err)
	}
	return result, nil
}
