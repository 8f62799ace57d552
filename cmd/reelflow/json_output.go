package main

import (
	"encoding/json"
	"fmt"
	"io"
)

func printJSON(out io.Writer, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON output: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
