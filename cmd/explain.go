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
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/valpere/transtask/internal/task"
	"github.com/valpere/transtask/internal/translator"
)

var describeFormat string

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Print what the translation task does",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, cleanup, err := taskForMetadata(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Explain())
		return err
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the task descriptor used for registration",
	Long: `Print the static task descriptor (name, chat name, description, inputs,
outputs, output type) that an agent runtime reads to register the task.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, cleanup, err := taskForMetadata(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		return writeDescriptor(cmd.OutOrStdout(), t.Descriptor(), describeFormat)
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages the configured backend supports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		svc, err := translator.New(cmd.Context(), cfg.Backend, cfg.ServiceConfig())
		if err != nil {
			return &task.ConfigurationError{Hint: task.InstallHint, Err: err}
		}
		defer svc.Close()

		langs, err := svc.SupportedLanguages(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list languages: %w", err)
		}
		sort.Strings(langs)

		fmt.Fprintf(cmd.OutOrStdout(), "%s supports %d languages:\n", svc.Name(), len(langs))
		_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(langs, " "))
		return err
	},
}

// taskForMetadata builds the task so metadata commands fail the same way
// execute does when the backend is unavailable.
func taskForMetadata(cmd *cobra.Command) (*task.TranslationTask, func(), error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	cfg.Cache.Enabled = false
	return buildTask(cmd.Context(), cfg, log)
}

func writeDescriptor(w io.Writer, d task.Descriptor, format string) error {
	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("failed to encode descriptor: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}

func init() {
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(languagesCmd)

	describeCmd.Flags().StringVarP(&describeFormat, "format", "f", "yaml", "Output format: yaml or json")
}
