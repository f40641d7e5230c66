package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/pretty"
)

// WriteJSON writes v as indented JSON, syntax-highlighted when colour is set.
func WriteJSON(w io.Writer, v any, colour bool) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	out := pretty.Pretty(raw)
	if colour {
		out = pretty.Color(out, nil)
	}
	_, err = w.Write(out)
	return err
}
