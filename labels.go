package autoaim

import (
	"bufio"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// LoadLabels reads the armor class names the model was trained with from the
// given text file, one label per line in class order.  Blank lines are
// skipped.
func LoadLabels(file string) ([]string, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, errors.Wrap(err, "error opening file")
	}

	defer f.Close()

	scanner := bufio.NewScanner(f)

	var labels []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		labels = append(labels, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading file")
	}

	return labels, nil
}
