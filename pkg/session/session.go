// Package session runs the interactive command loop: read one line, parse
// and validate it, then dispatch to the scrape pipeline, the network-mode
// stub, or the night-ops scheduler.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/briandowns/spinner"

	"github.com/King-RAM/kno-url/internal/utils"
	"github.com/King-RAM/kno-url/pkg/category"
	"github.com/King-RAM/kno-url/pkg/extract"
	"github.com/King-RAM/kno-url/pkg/nightops"
	"github.com/King-RAM/kno-url/pkg/pipeline"
	"github.com/King-RAM/kno-url/pkg/storage"
	"github.com/King-RAM/kno-url/pkg/whttp"
)

const banner = "Kusanagi Night Ops: URL Scrapper"

// FetchFunc is the external fetch capability: one blocking GET for the
// page's raw markup.
type FetchFunc func(url string) (*whttp.Response, error)

// Session holds the per-process state of the command loop. Nothing here
// mutates across iterations except the input cursor; each line's parsed
// state is constructed and discarded independently.
type Session struct {
	In  *bufio.Reader
	Out io.Writer

	Fetch    FetchFunc
	NightOps *nightops.Runner

	// History is optional; nil disables run recording.
	History     *storage.DB
	HistoryLock *utils.HistoryLock

	ShowSpinner bool
}

// Run drives the read-parse-dispatch cycle until input ends or a completed
// night-ops path terminates the session. It always returns nil: nothing an
// operator types is fatal to the loop.
func (s *Session) Run() error {
	fmt.Fprintln(s.Out, banner)

	for {
		fmt.Fprint(s.Out, "Main URL: ")
		line, err := s.In.ReadString('\n')
		if line != "" {
			if done := s.Handle(strings.TrimSpace(line)); done {
				return nil
			}
		}
		if err != nil {
			// End of input terminates the loop cleanly.
			fmt.Fprintln(s.Out)
			return nil
		}
	}
}

// Handle runs one session line. It reports true when the session should
// terminate (a completed night-ops path).
func (s *Session) Handle(line string) bool {
	if line == "" {
		fmt.Fprintln(s.Out, msgNoURL)
		return false
	}

	if line == "history" {
		s.printHistory()
		return false
	}

	cmd, err := Parse(line)
	if err != nil {
		fmt.Fprintln(s.Out, err)
		return false
	}

	switch cmd.Kind {
	case KindHelp:
		s.printHelp()
		return false
	case KindNightOps:
		if !s.NightOps.Confirm(s.In, s.Out) {
			fmt.Fprintln(s.Out, "[*] --night-ops canceled; no cleanup performed.")
			return false
		}
		s.NightOps.Cleanup(s.Out)
		return true
	}

	return s.scrape(cmd)
}

func (s *Session) scrape(cmd Command) bool {
	if cmd.Flags.NetworkMode {
		s.networkStub()
		return false
	}

	fmt.Fprintf(s.Out, "[*] Fetching HTML from %s ...\n", cmd.URL)
	res, err := s.fetchPage(cmd.URL)
	switch {
	case err != nil:
		// A failed fetch discards the line but never a scheduled
		// self-destruct; the countdown below still runs.
		utils.Log.Error("Failed to fetch ", cmd.URL, ": ", err)
	case cmd.Flags.FullDump:
		if res.IsJSON {
			utils.Log.Info("Response body is a JSON document")
		}
		if cmd.Flags.OutputPath != "" {
			if err := pipeline.WriteFile(cmd.Flags.OutputPath, res.Body); err != nil {
				utils.Log.Error("Failed to write full dump to ", cmd.Flags.OutputPath, ": ", err)
			} else {
				fmt.Fprintf(s.Out, "[*] Full HTML written to %s\n", cmd.Flags.OutputPath)
			}
		}
		fmt.Fprintln(s.Out, res.Body)
	default:
		if res.Title != "" {
			utils.Log.Debug("Page title: ", res.Title)
		}
		urls := extract.URLs(res.Body)
		result := pipeline.Run(urls, pipeline.Options{
			SearchTerms: cmd.Flags.SearchTerms,
			Categories:  cmd.Flags.Categories,
			Exclude:     cmd.Flags.NoMedia,
		})
		pipeline.Emit(s.Out, result, cmd.Flags.OutputPath)
		s.recordRun(cmd.URL, len(res.Body), len(urls), result)
	}

	if cmd.Flags.NightOps && cmd.Flags.DelaySeconds > 0 {
		s.NightOps.Wait(cmd.Flags.DelaySeconds, s.Out)
		s.NightOps.Cleanup(s.Out)
		return true
	}

	return false
}

func (s *Session) fetchPage(url string) (*whttp.Response, error) {
	if !s.ShowSpinner {
		return s.Fetch(url)
	}
	sp := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	sp.Suffix = " fetching " + url
	sp.Start()
	defer sp.Stop()
	return s.Fetch(url)
}

// networkStub shows the red-team noise warning and, if the operator insists,
// reports that network capture is not supported in this version.
func (s *Session) networkStub() {
	fmt.Fprint(s.Out, "WARNING: Network mode may be noisy for a stealthy Red Team Op, would you like to proceed? [y/N]: ")
	line, err := s.In.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(s.Out, "\n[*] Network mode canceled.")
		return
	}
	ans := strings.ToLower(strings.TrimSpace(line))
	if ans == "y" || ans == "yes" {
		fmt.Fprintln(s.Out, "Network mode not supported in this version")
	} else {
		fmt.Fprintln(s.Out, "[*] Network mode canceled.")
	}
}

// recordRun appends the scrape to the history database, best effort. A
// missing or locked database never disturbs the session.
func (s *Session) recordRun(url string, bodyBytes, extracted int, res pipeline.Result) {
	if s.History == nil {
		return
	}
	if s.HistoryLock != nil {
		if err := s.HistoryLock.Lock(); err != nil {
			utils.Log.Debug("Could not lock history database: ", err)
			return
		}
		defer s.HistoryLock.Unlock()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.History.RecordRun(ctx, storage.Run{
		URL:       url,
		FetchedAt: time.Now().UTC(),
		BodyBytes: bodyBytes,
		Extracted: extracted,
		Matched:   res.Matched,
		Scripts:   res.Counts[category.Scripts],
		Media:     res.Counts[category.Media],
		API:       res.Counts[category.API],
		Documents: res.Counts[category.Documents],
		HTML:      res.Counts[category.HTML],
		Other:     res.Counts[category.Other],
	})
	if err != nil {
		utils.Log.Debug("Could not record scrape run: ", err)
	}
}

// printHistory lists recent scrape runs inside the session, same data the
// history subcommand prints.
func (s *Session) printHistory() {
	if s.History == nil {
		fmt.Fprintln(s.Out, "[*] History recording is disabled.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	runs, err := s.History.RecentRuns(ctx, 20)
	if err != nil {
		utils.Log.Error("Could not read scrape history: ", err)
		return
	}
	if len(runs) == 0 {
		fmt.Fprintln(s.Out, "[*] No scrape runs recorded yet.")
		return
	}

	w := tabwriter.NewWriter(s.Out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FETCHED\tURL\tEXTRACTED\tMATCHED\t")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t\n",
			r.FetchedAt.Format("2006-01-02 15:04:05"), r.URL, r.Extracted, r.Matched)
	}
	w.Flush()
}

func (s *Session) printHelp() {
	fmt.Fprint(s.Out, banner+`
HTML mode flags:
  -s -md -a -d -ht -O    category filters (scripts, media, api, docs, html, other)
  --no-media             treat selected categories as exclusions
  --search term1,term2   case-insensitive substring filter
  --full                 dump the full fetched body, skipping URL extraction
  -o file                write output to a file
  -u url                 explicit URL token
Session:
  history                print recent scrape runs
Network mode:
  -n                     network capture (not supported in this version)
Night Ops:
  --night-ops            cleanup & self-destruct (standalone, asks first)
  <url> --night-ops -sd 90s
                         scrape, then scheduled self-destruct, no questions
`)
}
