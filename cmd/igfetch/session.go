package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"igfetch/pkg/session"
	"igfetch/pkg/ui"
)

var sessionUseAfterImport bool

// sessionCmd represents the session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored browser sessions",
	Long: `Manage stored Instagram sessions.

A session is a cookie export kept as <session dir>/<username>.session. It is
only read, never refreshed: when it expires, import a new one. The default
username is kept in the system keychain when one is available and in a
file next to the sessions otherwise.`,
}

var sessionImportCmd = &cobra.Command{
	Use:   "import <username> [file]",
	Short: "Store a session for a username",
	Long: `Store a session for a username.

The session is read from the file argument, from stdin when it is piped,
or from a hidden prompt for the sessionid cookie.

` + session.ExportGuide,
	Example: `  # Import a cookies.txt export
  igfetch session import myuser ~/Downloads/cookies.txt

  # Paste the sessionid cookie at a hidden prompt and make it the default
  igfetch session import myuser --use`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSessionImport,
}

var sessionUseCmd = &cobra.Command{
	Use:   "use <username>",
	Short: "Set the default session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionUse,
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear [username]",
	Short: "Clear the default session, or delete a stored one",
	Long: `Without a username, forget the default session so requests go out
anonymously. With a username, delete that session file as well.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionClear,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionList,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionImportCmd)
	sessionCmd.AddCommand(sessionUseCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	sessionCmd.AddCommand(sessionListCmd)

	sessionImportCmd.Flags().BoolVar(&sessionUseAfterImport, "use", false, "also make this the default session")
}

func runSessionImport(cmd *cobra.Command, args []string) error {
	a, err := loadApp(nil)
	if err != nil {
		return err
	}
	username := strings.TrimSpace(args[0])

	var data []byte
	switch {
	case len(args) == 2:
		data, err = os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read session file: %w", err)
		}
	case !ui.IsTerminal(os.Stdin):
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read session from stdin: %w", err)
		}
	default:
		fmt.Fprintln(cmd.ErrOrStderr(), session.ExportGuide)
		fmt.Fprintln(cmd.ErrOrStderr())
		data, err = promptSession(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}

	path, err := a.sessions.Files().Import(username, data)
	if err != nil {
		return err
	}
	ui.PrintSuccess("Session stored for " + username)
	ui.PrintInfo("Path", path)

	if sessionUseAfterImport {
		if err := a.sessions.SetDefault(username); err != nil {
			return err
		}
		ui.PrintInfo("Default session", username)
	}
	return nil
}

// promptSession asks for the cookies at a hidden prompt and encodes them as
// a JSON cookie map.
func promptSession(w io.Writer) ([]byte, error) {
	fmt.Fprint(w, "sessionid cookie value: ")
	sessionID, err := readPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to read sessionid: %w", err)
	}
	if sessionID == "" {
		return nil, errors.New("sessionid is required")
	}

	fmt.Fprint(w, "csrftoken cookie value (optional): ")
	csrf, err := readPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to read csrftoken: %w", err)
	}

	cookies := map[string]string{"sessionid": sessionID}
	if csrf != "" {
		cookies["csrftoken"] = csrf
	}
	return json.Marshal(cookies)
}

// readPassword reads a line from stdin without echoing
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		value, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err == nil {
			return strings.TrimSpace(string(value)), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func runSessionUse(cmd *cobra.Command, args []string) error {
	a, err := loadApp(nil)
	if err != nil {
		return err
	}

	username := strings.TrimSpace(args[0])
	if err := a.sessions.SetDefault(username); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return fmt.Errorf("no stored session for %s, run 'igfetch session import %s' first", username, username)
		}
		return err
	}
	ui.PrintSuccess("Default session set to " + username)
	return nil
}

func runSessionClear(cmd *cobra.Command, args []string) error {
	a, err := loadApp(nil)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if err := a.sessions.ClearDefault(); err != nil {
			return err
		}
		ui.PrintSuccess("Default session cleared")
		return nil
	}

	username := strings.TrimSpace(args[0])
	if def, err := a.sessions.Default(); err == nil && def == username {
		if err := a.sessions.ClearDefault(); err != nil {
			return err
		}
	}
	if err := a.sessions.Files().Delete(username); err != nil {
		return fmt.Errorf("failed to delete session for %s: %w", username, err)
	}
	ui.PrintSuccess("Session deleted for " + username)
	return nil
}

func runSessionList(cmd *cobra.Command, args []string) error {
	a, err := loadApp(nil)
	if err != nil {
		return err
	}

	infos, err := a.sessions.Files().List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		ui.PrintWarning("No stored sessions")
		fmt.Fprintf(cmd.ErrOrStderr(), "\nTo store one, run:\n  igfetch session import <username>\n")
		return nil
	}

	def, _ := a.sessions.Default()
	out := cmd.OutOrStdout()
	for _, info := range infos {
		mark := " "
		if info.Username == def {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %-24s %s  %s\n", mark, info.Username, info.LastModified.Format("2006-01-02 15:04"), info.Path)
	}
	return nil
}
