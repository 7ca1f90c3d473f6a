package cmd

import (
	"github.com/spf13/cobra"
)

// execCmd represents the exec command
var execCmd = &cobra.Command{
	Use:   "exec \"<line>\"",
	Short: "Run a single session line non-interactively",
	Long: `Runs one command line exactly as the interactive session would parse it,
then exits. Example:

  kno-url exec "example.com -md --search img -o media.txt"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeSession := newSession(true)
		defer closeSession()
		s.Handle(args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
