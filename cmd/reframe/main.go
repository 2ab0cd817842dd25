package main

// #region imports
import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quietwire/reframe/go-pipeline/internal/alignment"
	"github.com/quietwire/reframe/go-pipeline/internal/pipeline"
	"github.com/quietwire/reframe/go-pipeline/internal/provenance"
	"github.com/quietwire/reframe/go-pipeline/internal/replay"
	"github.com/quietwire/reframe/go-pipeline/internal/store"
	"github.com/quietwire/reframe/go-pipeline/internal/subject"
	"github.com/quietwire/reframe/go-pipeline/internal/template"
)

// #endregion imports

// #region flags
var (
	dbPath        string
	branch        string
	padding       string
	recipient     string
	templatesPath string
	seed          int64
)

// #endregion flags

// #region root
var rootCmd = &cobra.Command{
	Use:   "reframe",
	Short: "Message rewriting pipeline",
	Long:  `Filters filler, classifies intent, tracks subjects, and reformats messages per relationship context.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", envOr("REFRAME_DB", "reframe.db"), "path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&branch, "branch", envOr("REFRAME_BRANCH", "familyFriends"), "communication branch (familyFriends|professional)")
	rootCmd.PersistentFlags().StringVar(&padding, "padding", envOr("REFRAME_PADDING", "medium"), "padding level (none|minimal|medium|more)")
	rootCmd.PersistentFlags().StringVar(&recipient, "recipient", "", "recipient name substituted into templates")
	rootCmd.PersistentFlags().StringVar(&templatesPath, "templates", "", "JSON file of template overrides")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "alignment RNG seed (0 = time-derived)")

	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.AddCommand(inspectSessionsCmd)
	inspectCmd.AddCommand(inspectSubjectsCmd)
	inspectCmd.AddCommand(inspectLogCmd)

	replayCmd.Flags().String("fixture", "", "path to fixture JSON")
	replayCmd.MarkFlagRequired("fixture")
	inspectSubjectsCmd.Flags().Int("limit", 10, "number of subjects to show")
	inspectLogCmd.Flags().String("session", "", "restrict to one session")
	inspectLogCmd.Flags().Int("limit", 20, "number of entries to show")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// #endregion root

// #region repl
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive message-rewriting loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewStore(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := provenance.EnsureSchema(st.DB()); err != nil {
			return err
		}
		subjStore, err := subject.NewStore(st.DB())
		if err != nil {
			return fmt.Errorf("open subject store: %w", err)
		}

		tracker := subject.NewTracker()
		if err := subjStore.Hydrate(tracker); err != nil {
			log.Printf("hydrate subjects: %v", err)
		}

		tbl := template.New()
		if templatesPath != "" {
			if err := mergeTemplateFile(tbl, templatesPath); err != nil {
				return err
			}
		}

		pipe := pipeline.New(tbl, tracker, nil)
		sess := pipe.NewSession(pipeline.SessionConfig{
			Branch:    template.Branch(branch),
			Padding:   template.Padding(padding),
			Recipient: recipient,
			Seed:      seed,
		})

		if _, err := st.CreateInitial(sess.ID(), sess.State(), sess.Flags()); err != nil {
			return fmt.Errorf("create initial version: %w", err)
		}

		fmt.Println("Reframe pipeline ready.")
		fmt.Printf("  DB: %s | Branch: %s | Padding: %s | Session: %s\n", dbPath, branch, padding, sess.ID()[:8])
		fmt.Println("Type a message (or 'quit' to exit):")

		scanner := bufio.NewScanner(os.Stdin)
		turnNum := 0
		prevSubject := ""

		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			message := strings.TrimSpace(scanner.Text())
			if message == "" {
				continue
			}
			if message == "quit" || message == "exit" {
				break
			}

			turnNum++
			res := sess.Process(message)
			rep := res.Report

			fmt.Printf("\n%s\n\n", res.Response)

			if _, err := st.Commit(sess.ID(), rep.Alignment, rep.Flags, turnNum); err != nil {
				log.Printf("commit error: %v", err)
			}

			if rep.Subject != "" {
				if err := subjStore.RecordSubject(rep.Subject); err != nil {
					log.Printf("record subject: %v", err)
				}
				if rep.SubjectChanged && prevSubject != "" {
					if err := subjStore.RecordEdge(prevSubject, rep.Subject); err != nil {
						log.Printf("record edge: %v", err)
					}
				}
				prevSubject = rep.Subject
			}

			err := provenance.Log(st.DB(), provenance.Entry{
				SessionID:         sess.ID(),
				TurnID:            rep.TurnID,
				Subject:           rep.Subject,
				SubjectChanged:    rep.SubjectChanged,
				ResponseFormat:    string(rep.ResponseFormat),
				ResolveTrace:      rep.FormatTrace,
				ShieldDelta:       rep.Shield.LastDelta,
				AlignmentSeverity: string(rep.Integrity.Severity),
			})
			if err != nil {
				log.Printf("logging error: %v", err)
			}

			fmt.Printf("[turn-%d] format=%s subject=%q intact=%v\n",
				turnNum, rep.ResponseFormat, rep.Subject, rep.Integrity.Intact)
		}
		return nil
	},
}

// mergeTemplateFile layers a JSON override file onto the template table.
func mergeTemplateFile(tbl *template.Table, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read templates %s: %w", path, err)
	}
	var overrides map[string]map[string]map[string]string
	if err := json.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("parse templates %s: %w", path, err)
	}
	tbl.Merge(overrides)
	return nil
}

// #endregion repl

// #region replay
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-run a recorded conversation against expected outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		fixturePath, _ := cmd.Flags().GetString("fixture")

		f, err := replay.LoadFixture(fixturePath)
		if err != nil {
			return err
		}

		results := replay.Replay(f)
		summary := replay.Verify(f, results)

		fmt.Printf("Fixture: %s\n", f.Description)
		fmt.Printf("%-8s %-24s %-20s %s\n", "TURN", "FORMAT", "SUBJECT", "INTACT")
		for _, r := range results {
			fmt.Printf("%-8s %-24s %-20s %v\n", r.TurnID, r.ResponseFormat, r.Subject, r.IntegrityOK)
		}

		fmt.Printf("\n%d turns, %d subject changes, %d integrity breaks\n",
			summary.TotalTurns, summary.SubjectChanges, summary.IntegrityBreaks)

		if !summary.Passed() {
			for _, m := range summary.Mismatches {
				fmt.Fprintf(os.Stderr, "MISMATCH turn %s: %s = %q, want %q\n", m.TurnID, m.Field, m.Got, m.Want)
			}
			os.Exit(1)
		}
		fmt.Println("PASS")
		return nil
	},
}

// #endregion replay

// #region inspect
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect persisted sessions, subjects, and the turn log",
}

var inspectSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions and their active alignment version",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewStore(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ids, err := st.Sessions()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("no sessions")
			return nil
		}

		fmt.Printf("%-38s %-6s %-12s %-12s %s\n", "SESSION", "TURN", "PRIMARY", "DERIVED", "INTACT")
		for _, id := range ids {
			cur, err := st.GetCurrent(id)
			if err != nil {
				return err
			}
			rep := alignment.CheckIntegrity(cur.State, 0)
			fmt.Printf("%-38s %-6d %-12.6f %-12.6f %v\n",
				id, cur.Turn, cur.State.PrimaryScalar, cur.State.DerivedScalar, rep.Intact)
		}
		return nil
	},
}

var inspectSubjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "Show the most frequent subjects",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := store.NewStore(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		subjStore, err := subject.NewStore(st.DB())
		if err != nil {
			return err
		}
		top, err := subjStore.TopSubjects(limit)
		if err != nil {
			return err
		}
		if len(top) == 0 {
			fmt.Println("no subjects")
			return nil
		}

		fmt.Printf("%-24s %-8s %s\n", "SUBJECT", "COUNT", "RELATED")
		for _, s := range top {
			related, err := subjStore.RelatedTerms(s.Term)
			if err != nil {
				return err
			}
			fmt.Printf("%-24s %-8d %s\n", s.Term, s.Count, strings.Join(related, ", "))
		}
		return nil
	},
}

var inspectLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Tail the per-turn provenance log",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := store.NewStore(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := provenance.EnsureSchema(st.DB()); err != nil {
			return err
		}
		entries, err := provenance.Tail(st.DB(), sessionID, limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no entries")
			return nil
		}

		fmt.Printf("%-20s %-24s %-18s %-8s %-8s %s\n", "TURN", "FORMAT", "SUBJECT", "CHANGED", "DELTA", "SEVERITY")
		for _, e := range entries {
			fmt.Printf("%-20s %-24s %-18s %-8v %-8d %s\n",
				e.TurnID, e.ResponseFormat, e.Subject, e.SubjectChanged, e.ShieldDelta, e.AlignmentSeverity)
		}
		return nil
	},
}

// #endregion inspect

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
