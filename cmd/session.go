package cmd

import (
	"bufio"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/King-RAM/kno-url/internal/utils"
	"github.com/King-RAM/kno-url/pkg/nightops"
	"github.com/King-RAM/kno-url/pkg/session"
	"github.com/King-RAM/kno-url/pkg/storage"
	"github.com/King-RAM/kno-url/pkg/whttp"

	homedir "github.com/mitchellh/go-homedir"
)

const (
	cacheDirName  = ".kno-url"
	historyDBName = "history.sqlite"
)

// cachePaths resolves the executable path (captured once, threaded into the
// night-ops runner) and the tool's cache directories: one next to the
// binary, one under the user's home.
func cachePaths() (exePath string, dirs []string) {
	exePath, err := os.Executable()
	if err != nil {
		exePath = ""
	} else {
		dirs = append(dirs, filepath.Join(filepath.Dir(exePath), cacheDirName))
	}
	if home, err := homedir.Dir(); err == nil {
		dirs = append(dirs, filepath.Join(home, cacheDirName))
	}
	return exePath, dirs
}

// newSession wires the interactive session from flags and config. The
// returned func closes the history database, if one was opened.
func newSession(quiet bool) (*session.Session, func()) {
	proxy, _ := rootCmd.PersistentFlags().GetString("proxy")
	insecure, _ := rootCmd.PersistentFlags().GetBool("insecure")
	timeout, _ := rootCmd.PersistentFlags().GetInt("timeout")
	noHistory, _ := rootCmd.PersistentFlags().GetBool("no-history")

	client := whttp.NewClient(whttp.Options{
		Timeout:  time.Duration(timeout) * time.Second,
		Insecure: insecure,
		Proxy:    proxy,
	})
	userAgent := viper.GetString("useragent")

	exePath, cacheDirs := cachePaths()

	s := &session.Session{
		In:  bufio.NewReader(os.Stdin),
		Out: os.Stdout,
		Fetch: func(url string) (*whttp.Response, error) {
			return whttp.Fetch(client, url, userAgent)
		},
		NightOps: nightops.New(nightops.Config{
			ExePath:   exePath,
			CacheDirs: cacheDirs,
		}),
		ShowSpinner: !quiet,
	}

	closeSession := func() {}
	if !noHistory && viper.GetBool("history.enabled") && len(cacheDirs) > 0 {
		dbPath := filepath.Join(cacheDirs[0], historyDBName)
		if err := os.MkdirAll(cacheDirs[0], 0o755); err != nil {
			utils.Log.Debug("Could not create cache directory: ", err)
		} else if db, err := storage.Open(dbPath); err != nil {
			utils.Log.Debug("History database unavailable: ", err)
		} else {
			s.History = db
			if lock, err := utils.NewHistoryLock(dbPath); err == nil {
				s.HistoryLock = lock
			}
			closeSession = func() { db.Close() }
		}
	}

	return s, closeSession
}
