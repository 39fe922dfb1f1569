package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"exitlayer/internal/audit"
	"exitlayer/internal/questionnaire"
	"exitlayer/internal/scoring"
	"exitlayer/internal/shared/util"
	"exitlayer/internal/skills"
	"exitlayer/internal/submissions"
)

// NewRootCmd builds the exitlayer command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "exitlayer",
		Short:         "Score ExitLayer audits and render their documents offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(newQuestionsCmd(), newScoreCmd(), newRenderCmd())
	return root
}

func newQuestionsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Print the questionnaire",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, questionnaire.Sections())
			}
			for _, s := range questionnaire.Sections() {
				fmt.Fprintf(w, "## %s\n", s.Title)
				for _, q := range s.Questions {
					marker := ""
					if q.Required {
						marker = " *"
					}
					fmt.Fprintf(w, "- %s (%s)%s: %s\n", q.Key, q.Type, marker, q.Label)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the questionnaire as JSON")
	return cmd
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <answers.json|answers.yaml>",
		Short: "Print the ExitLayer score for a set of answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := LoadAnswers(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), scoring.Calculate(answers))
		},
	}
}

func newRenderCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "render <answers.json|answers.yaml>",
		Short: "Write every generated document for a set of answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := LoadAnswers(args[0])
			if err != nil {
				return err
			}
			written, err := Render(answers, outDir, time.Now())
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "Directory to write documents into")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// LoadAnswers reads a flat answer map from JSON or YAML. Reserved transport
// keys are dropped.
func LoadAnswers(path string) (audit.Response, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var answers audit.Response
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &answers)
	default:
		err = json.Unmarshal(raw, &answers)
	}
	if err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	if answers == nil {
		answers = audit.Response{}
	}
	clean, _ := answers.Split()
	return clean, nil
}

// Render writes the markdown documents, one SKILL.md per skill and the bundle
// JSON under dir. It returns the written paths relative to dir.
func Render(answers audit.Response, dir string, now time.Time) ([]string, error) {
	folder := util.ClientFolder(answers.CompanyName(), "offline")
	b := submissions.Build(answers, scoring.DefaultWeights(), audit.Reserved{}, folder, now)

	var written []string
	write := func(rel string, data []byte) error {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("mkdir for %s: %w", rel, err)
		}
		if err := os.WriteFile(full, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
		written = append(written, rel)
		return nil
	}

	for _, kind := range submissions.Kinds() {
		if err := write(kind+".md", []byte(b.Markdown[kind])); err != nil {
			return written, err
		}
	}
	for _, s := range b.Skills.Skills {
		doc, err := skills.Document(s)
		if err != nil {
			return written, fmt.Errorf("render skill %s: %w", s.Name, err)
		}
		if err := write("skills/"+s.Name+"/SKILL.md", doc); err != nil {
			return written, err
		}
	}
	raw, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return written, fmt.Errorf("marshal bundle: %w", err)
	}
	if err := write("bundle.json", raw); err != nil {
		return written, err
	}
	return written, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
