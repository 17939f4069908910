package scenario

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/ZelongGuo/dislocation/internal/disloc"
)

// ReadArray reads a plain-text numeric array with rows of the given width.
// Values are separated by commas or whitespace; '#' starts a comment.
// Line breaks are not significant, only the total count must divide by width.
func ReadArray(path string, width int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := parseArray(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w: no values", path, disloc.ErrEmpty)
	}
	if len(data)%width != 0 {
		return nil, fmt.Errorf("%s: %w: %d values do not form rows of %d", path, disloc.ErrShape, len(data), width)
	}
	return data, nil
}

func parseArray(r io.Reader) ([]float64, error) {
	var data []float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.FieldsFunc(text, func(c rune) bool {
			return c == ',' || c == ';' || unicode.IsSpace(c)
		})
		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			data = append(data, v)
		}
	}
	return data, sc.Err()
}

// ReadPatches reads an [n x 10] patch array file
func ReadPatches(path string) ([]disloc.FaultPatch, error) {
	data, err := ReadArray(path, disloc.PatchColumns)
	if err != nil {
		return nil, err
	}
	return disloc.PatchesFromFlat(data)
}

// ReadObservations reads an [n x 3] station array file
func ReadObservations(path string) ([]disloc.ObservationPoint, error) {
	data, err := ReadArray(path, disloc.ObservationColumns)
	if err != nil {
		return nil, err
	}
	return disloc.ObservationsFromFlat(data)
}
