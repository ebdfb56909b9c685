/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	executeInput  string
	executeOutput string
	executeJSON   bool
)

var executeCmd = &cobra.Command{
	Use:   `execute "<text>$#<destination>"`,
	Short: "Translate text with the configured backend",
	Long: `Run the translation task on a single input string.

The input joins the text and the destination language code with "$#":

  transtask execute 'Bonjour le monde$#en'
  transtask execute 'Hello$#'            # destination defaults to en
  echo 'Hallo Welt$#fr' | transtask execute -i -

Prints the translated text and, on stderr, the detected source language.
With --json both are printed as one JSON object on stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readExecuteInput(args)
		if err != nil {
			return err
		}

		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		t, cleanup, err := buildTask(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := t.Execute(cmd.Context(), raw)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if executeOutput != "" {
			f, err := os.Create(executeOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		if executeJSON {
			enc := json.NewEncoder(out)
			enc.SetEscapeHTML(false)
			return enc.Encode(res)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Detected source language: %s\n", res.SourceLang)
		_, err = fmt.Fprintln(out, res.Text)
		return err
	},
}

// readExecuteInput takes the raw input from the argument or from --input,
// where "-" means stdin. A single trailing newline from a file is dropped.
func readExecuteInput(args []string) (string, error) {
	switch {
	case len(args) == 1 && executeInput != "":
		return "", fmt.Errorf("pass the input either as an argument or with --input, not both")
	case len(args) == 1:
		return args[0], nil
	case executeInput == "":
		return "", fmt.Errorf(`missing input: expected "<text>$#<destination>"`)
	}

	var data []byte
	var err error
	if executeInput == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(executeInput)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r"), nil
}

func init() {
	rootCmd.AddCommand(executeCmd)

	executeCmd.Flags().StringVarP(&executeInput, "input", "i", "", `File holding the raw input ("-" for stdin)`)
	executeCmd.Flags().StringVarP(&executeOutput, "output", "o", "", "Write the translation to this file instead of stdout")
	executeCmd.Flags().BoolVar(&executeJSON, "json", false, "Print the result as JSON")

	executeCmd.Flags().Bool("cache", false, "Use the translation memory cache")
	executeCmd.Flags().String("db", "./data/transtask.db", "Database path for translation memory")
	viper.BindPFlag("cache.enabled", executeCmd.Flags().Lookup("cache"))
	viper.BindPFlag("cache.db", executeCmd.Flags().Lookup("db"))
}
