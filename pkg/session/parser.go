package session

import (
	"fmt"
	"strings"

	"github.com/King-RAM/kno-url/pkg/category"
	"github.com/King-RAM/kno-url/pkg/extract"
)

// Kind discriminates what a parsed input line asks for.
type Kind int

const (
	KindHelp Kind = iota
	KindNightOps // bare --night-ops, the standalone destruct path
	KindScrape
)

// Flags is the validated flag set for one scrape line.
type Flags struct {
	Categories  map[category.Category]bool
	NoMedia     bool // flips flagged categories into exclusions
	SearchTerms []string
	OutputPath  string
	FullDump    bool
	NetworkMode bool
	NightOps    bool

	// DelaySeconds is the parsed -sd value; zero means no scheduled
	// self-destruct. Only ever non-zero together with NightOps.
	DelaySeconds int64
}

// Command is the parsed intent of one input line.
type Command struct {
	Kind  Kind
	URL   string
	Flags Flags
}

// Rejection is a per-line parse failure. It never aborts the session loop;
// the offending line is discarded and the operator re-prompted.
type Rejection struct {
	msg string
}

func (r *Rejection) Error() string {
	return r.msg
}

func rejectf(format string, a ...interface{}) error {
	return &Rejection{msg: fmt.Sprintf(format, a...)}
}

const msgNoURL = "[-] No URL detected. Use -h or --help for usage, or use '--night-ops' alone for cleanup."

// knownFlags is the full recognized flag universe. The network-mode resource
// type flags (-fx and friends) are accepted by the parser even though network
// capture itself is stubbed out, so operator muscle memory from the full
// toolchain does not trip the unknown-flag rejection.
var knownFlags = map[string]bool{
	"-s": true, "-md": true, "-a": true, "-d": true, "-ht": true, "-O": true,
	"--no-media": true, "--search": true, "--full": true,
	"-o": true, "-u": true, "-h": true, "--help": true,
	"--night-ops": true, "-sd": true, "-n": true,
	"-fx": true, "-css": true, "-js": true, "-f": true,
	"-img": true, "-mf": true, "-wasm": true,
	"-t": true, "--live": true,
}

// Parse tokenizes and validates one raw input line.
func Parse(line string) (Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Command{}, rejectf("%s", msgNoURL)
	}

	if len(tokens) == 1 {
		switch tokens[0] {
		case "-h", "--help":
			return Command{Kind: KindHelp}, nil
		case "--night-ops":
			return Command{Kind: KindNightOps}, nil
		}
	}

	url, args := splitURL(tokens)
	if url == "" {
		return Command{}, rejectf("%s", msgNoURL)
	}

	// Unknown flags reject before any other validation.
	for _, tok := range args {
		if strings.HasPrefix(tok, "-") && !knownFlags[tok] {
			return Command{}, rejectf("Error: That flag does not exist: %s", tok)
		}
	}

	flags := Flags{Categories: make(map[category.Category]bool)}
	sdPresent := false
	sdRaw := ""

	for i := 0; i < len(args); i++ {
		tok := args[i]
		if cat, ok := category.FromFlag(tok); ok {
			flags.Categories[cat] = true
			continue
		}
		switch tok {
		case "--no-media":
			flags.NoMedia = true
		case "--full":
			flags.FullDump = true
		case "-n":
			flags.NetworkMode = true
		case "--night-ops":
			flags.NightOps = true
		case "-o":
			if i+1 < len(args) {
				flags.OutputPath = args[i+1]
				i++
			}
		case "--search":
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
				return Command{}, rejectf("Error: --search requires a value, e.g. '--search mp4' or '--search mp4,cdn'.")
			}
			for _, term := range strings.Split(args[i+1], ",") {
				term = strings.ToLower(strings.TrimSpace(term))
				if term != "" {
					flags.SearchTerms = append(flags.SearchTerms, term)
				}
			}
			if len(flags.SearchTerms) == 0 {
				return Command{}, rejectf("Error: --search requires at least one non-empty term.")
			}
			i++
		case "-sd":
			if sdPresent {
				return Command{}, rejectf("Error: -sd specified multiple times.")
			}
			sdPresent = true
			// The duration may span several tokens ("1h 30m"); consume the
			// run of non-flag tokens that follows.
			var parts []string
			for i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				parts = append(parts, args[i+1])
				i++
			}
			sdRaw = strings.Join(parts, " ")
		}
	}

	if sdPresent && !flags.NightOps {
		return Command{}, rejectf("Error: -sd can only be used together with --night-ops.")
	}
	if flags.NightOps && !sdPresent {
		return Command{}, rejectf("Error: --night-ops can't be ran along side other commands unless -sd is defined with a time to execute")
	}
	if sdPresent {
		if sdRaw == "" {
			return Command{}, rejectf("Error: -sd requires a duration like '90s' or '1h30m'.")
		}
		seconds, err := ParseDurationSeconds(sdRaw)
		if err != nil {
			return Command{}, rejectf("Error: invalid -sd duration: %s", sdRaw)
		}
		flags.DelaySeconds = seconds
	}

	return Command{Kind: KindScrape, URL: url, Flags: flags}, nil
}

// splitURL locates the URL token: an explicit -u pair first, then the first
// non-flag token, then any token that already looks like a URL. Everything
// after the consumed URL token is the flag/argument list.
func splitURL(tokens []string) (string, []string) {
	if tokens[0] == "-u" && len(tokens) >= 2 {
		return extract.Normalize(tokens[1]), tokens[2:]
	}
	if !strings.HasPrefix(tokens[0], "-") {
		return extract.Normalize(tokens[0]), tokens[1:]
	}
	for i, tok := range tokens {
		if strings.HasPrefix(tok, "http://") || strings.HasPrefix(tok, "https://") || strings.HasPrefix(tok, "www.") {
			return extract.Normalize(tok), tokens[i+1:]
		}
	}
	return "", tokens
}
