// Package export contains the thin consumer surfaces of the arrangement
// engine: reading and writing arrangement files and exporting an arrangement
// as a standard MIDI file. The engine itself performs no IO; everything here
// is replaceable glue for the surrounding application.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/norppa/takt"
)

// ReadArrangement reads an arrangement from r, accepting either JSON or YAML.
func ReadArrangement(r io.Reader) (takt.Arrangement, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return takt.Arrangement{}, fmt.Errorf("reading arrangement: %w", err)
	}
	var a takt.Arrangement
	if errJSON := json.Unmarshal(b, &a); errJSON != nil {
		if errYaml := yaml.Unmarshal(b, &a); errYaml != nil {
			return takt.Arrangement{}, fmt.Errorf("unmarshaling arrangement: %v / %v", errYaml, errJSON)
		}
	}
	if err := a.Validate(); err != nil {
		return takt.Arrangement{}, fmt.Errorf("invalid arrangement: %w", err)
	}
	return a, nil
}

// WriteArrangement writes the arrangement to w as YAML.
func WriteArrangement(w io.Writer, a takt.Arrangement) error {
	contents, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling arrangement: %w", err)
	}
	_, err = w.Write(contents)
	return err
}

// WriteArrangementJSON writes the arrangement to w as JSON.
func WriteArrangementJSON(w io.Writer, a takt.Arrangement) error {
	contents, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling arrangement: %w", err)
	}
	_, err = w.Write(contents)
	return err
}
