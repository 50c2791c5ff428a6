package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gift-tracker-go/internal/app"
	"gift-tracker-go/pkg/logger"
	"github.com/spf13/cobra"
)

func newImportCmd(log logger.Logger) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import gifts or people from a JSON file",
	}
	cmd.PersistentFlags().BoolVar(&strict, "strict", false, "Exit non-zero when any record fails")

	cmd.AddCommand(&cobra.Command{
		Use:   "gifts FILE",
		Short: "Import gift records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRecords(args[0], "gifts")
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), log)
			if err != nil {
				return err
			}
			defer application.Close()

			result, err := application.Services().Imports.ImportGifts(cmd.Context(), records)
			if result != nil {
				if printErr := printJSON(cmd.OutOrStdout(), result); printErr != nil {
					return printErr
				}
			}
			if err != nil {
				return err
			}
			return failIfStrict(strict, len(result.Errors))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "people FILE",
		Short: "Import person records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRecords(args[0], "people")
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), log)
			if err != nil {
				return err
			}
			defer application.Close()

			result, err := application.Services().Imports.ImportPeople(cmd.Context(), records)
			if result != nil {
				if printErr := printJSON(cmd.OutOrStdout(), result); printErr != nil {
					return printErr
				}
			}
			if err != nil {
				return err
			}
			return failIfStrict(strict, len(result.Errors))
		},
	})

	return cmd
}

// readRecords accepts either a bare JSON array or an object holding the
// array under key, matching the HTTP request body.
func readRecords(path, key string) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if wrapped, ok := payload.(map[string]any); ok {
		return wrapped[key], nil
	}
	return payload, nil
}

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func failIfStrict(strict bool, failures int) error {
	if strict && failures > 0 {
		return fmt.Errorf("%d records failed", failures)
	}
	return nil
}
