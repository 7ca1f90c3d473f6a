// Package pipeline turns a raw extracted URL sequence into the categorized,
// filtered and sorted results view.
package pipeline

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"

	"github.com/King-RAM/kno-url/internal/utils"
	"github.com/King-RAM/kno-url/pkg/category"
	"github.com/King-RAM/kno-url/pkg/extract"
)

// Options selects which extracted URLs survive into the results view.
type Options struct {
	// SearchTerms are OR-matched case-insensitive substrings; empty means
	// no search filtering.
	SearchTerms []string

	// Categories holds the flagged categories. Empty means no category
	// filtering. With Exclude set, flagged categories are dropped instead
	// of kept; Exclude with no flagged categories is a documented no-op.
	Categories map[category.Category]bool
	Exclude    bool
}

// Group is one rendered category block: the has-extension segment sorted by
// (extension, URL), then the no-extension segment in encounter order.
type Group struct {
	Category category.Category
	URLs     []string
}

// Result is the outcome of one pipeline run.
type Result struct {
	Groups  []Group
	Lines   []string // category label, member URLs, blank separator, repeated
	Matched int
	Counts  map[category.Category]int

	// BlobSeen reports whether any extracted URL (filtered or not) used the
	// blob: scheme; the session surfaces a network-mode hint for those.
	BlobSeen bool

	// Domains are the unique registrable domains among surviving URLs.
	Domains []string
}

// Run applies the search and category filters, groups survivors by category
// in display order, and renders the output line sequence. It never touches
// the console; Emit does that.
func Run(urls []string, opts Options) Result {
	res := Result{Counts: make(map[category.Category]int)}

	grouped := make(map[category.Category][]string)
	var survivors []string

	for _, u := range urls {
		if strings.HasPrefix(u, "blob:") {
			res.BlobSeen = true
		}
		if !matchesSearch(u, opts.SearchTerms) {
			continue
		}

		cat := category.Categorize(u)
		if len(opts.Categories) > 0 {
			flagged := opts.Categories[cat]
			if opts.Exclude {
				if flagged {
					continue
				}
			} else if !flagged {
				continue
			}
		}

		grouped[cat] = append(grouped[cat], u)
		survivors = append(survivors, u)
		res.Matched++
		res.Counts[cat]++
	}

	for _, cat := range category.DisplayOrder {
		members := grouped[cat]
		if len(members) == 0 {
			continue
		}
		ordered := orderGroup(members)
		res.Groups = append(res.Groups, Group{Category: cat, URLs: ordered})
		res.Lines = append(res.Lines, cat.String())
		res.Lines = append(res.Lines, ordered...)
		res.Lines = append(res.Lines, "")
	}

	res.Domains = registrableDomains(survivors)

	return res
}

// Emit writes the rendered result to w and, when outputPath is set, to a
// file. A file write failure is reported but never suppresses the console
// output.
func Emit(w io.Writer, res Result, outputPath string) {
	if len(res.Lines) == 0 {
		fmt.Fprintln(w, "[*] No URLs matched filters.")
	} else {
		for _, line := range res.Lines {
			fmt.Fprintln(w, line)
		}
		if outputPath != "" {
			if err := WriteLines(outputPath, res.Lines); err != nil {
				utils.Log.Error("Failed to write results to ", outputPath, ": ", err)
			} else {
				fmt.Fprintf(w, "[*] Results written to %s\n", outputPath)
			}
		}
		if n := len(res.Domains); n > 0 {
			utils.Log.Info("Results span ", n, " registrable domain(s)")
		}
	}

	if res.BlobSeen {
		fmt.Fprintln(w, "\n[!] Detected blob: URLs in the HTML.")
		fmt.Fprintln(w, "    Consider using network mode (-n) to see beyond blob: URLs.")
	}
}

// WriteLines overwrites path with one line per entry, UTF-8, trailing newline.
func WriteLines(path string, lines []string) error {
	return WriteFile(path, strings.Join(lines, "\n")+"\n")
}

// WriteFile overwrites path with content.
func WriteFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func matchesSearch(u string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	lowered := strings.ToLower(u)
	for _, term := range terms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

func orderGroup(urls []string) []string {
	var withExt, noExt []string
	for _, u := range urls {
		if extract.Ext(u) != "" {
			withExt = append(withExt, u)
		} else {
			noExt = append(noExt, u)
		}
	}

	sort.Slice(withExt, func(i, j int) bool {
		ei, ej := extract.Ext(withExt[i]), extract.Ext(withExt[j])
		if ei != ej {
			return ei < ej
		}
		return withExt[i] < withExt[j]
	})

	return append(withExt, noExt...)
}

// registrableDomains reduces the surviving URLs to their unique registrable
// domains, a quick read on how many distinct properties a page pulls from.
func registrableDomains(urls []string) []string {
	seen := make(map[string]struct{})
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			continue
		}
		host := u.Hostname()
		if !strings.Contains(host, ".") {
			continue
		}
		domain, err := publicsuffix.Domain(host)
		if err != nil {
			continue
		}
		seen[domain] = struct{}{}
	}

	domains := make([]string, 0, len(seen))
	for d := range seen {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}
