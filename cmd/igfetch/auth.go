package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"igfetch/pkg/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Instagram sessions",
	Long: `Manage stored Instagram sessions.

Sessions are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (IGFETCH_SESSION_ID, IGFETCH_CSRF_TOKEN)

Never share your session cookies or config files.`,
}

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Store an Instagram session securely",
	Long: `Store Instagram session cookies in the system keychain or an
encrypted file.

You will be prompted for the sessionid and csrftoken cookie values, and
optionally ds_user_id and a user agent. See the printed guide for how to
extract them from a logged-in browser.`,
	Example: `  # Interactive login
  igfetch auth login

  # Login for a named account
  igfetch auth login myusername`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored session status",
	Long: `Show whether a usable session is stored and which accounts are known.

This only reports local knowledge: whether the stored cookies are still
accepted by Instagram is learned on the first real request.`,
	Run: runStatus,
}

var logoutCmd = &cobra.Command{
	Use:   "logout [username]",
	Short: "Remove a stored session",
	Long: `Remove stored Instagram sessions.

With a username, removes that account. Without one, removes the single
stored account after confirmation, or lists accounts to choose from.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fatal("failed to initialize credential manager", err)
	}

	var username string
	if len(args) > 0 {
		username = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	auth.ShowCookieExtractionGuide()

	fmt.Print("Ready to enter your cookies? (Y/n): ")
	ready, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(ready)) == "n" {
		fmt.Println("\nRun 'igfetch auth login' when you're ready.")
		return
	}
	fmt.Println()

	if username == "" {
		fmt.Print("Instagram username: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fatal("failed to read username", err)
		}
		username = strings.TrimSpace(input)
	}
	if username == "" {
		fatal("username is required", nil)
	}

	if existing, _ := manager.Retrieve(username); existing != nil {
		fmt.Printf("\nAccount '%s' already exists. Update session? (y/N): ", username)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Println("\nEnter your cookie values (hidden as you type):")
	fmt.Println()

	sessionID := promptSecret(reader, "sessionid cookie value: ", func(v string) string {
		if len(v) < 20 || !strings.Contains(v, "%") {
			return "That doesn't look like a valid sessionid: it should be a long string containing % symbols."
		}
		return ""
	})

	csrfToken := promptSecret(reader, "\ncsrftoken cookie value: ", func(v string) string {
		if len(v) < 20 || len(v) > 50 {
			return "That doesn't look like a valid csrftoken: it should be around 32 characters."
		}
		return ""
	})

	fmt.Print("\n\nds_user_id cookie value (optional, press Enter to skip): ")
	dsUserID, _ := reader.ReadString('\n')
	dsUserID = strings.TrimSpace(dsUserID)

	fmt.Print("User agent (press Enter for default): ")
	userAgent, _ := reader.ReadString('\n')
	userAgent = strings.TrimSpace(userAgent)

	account := &auth.Account{
		Username:  username,
		SessionID: sessionID,
		CSRFToken: csrfToken,
		DSUserID:  dsUserID,
		UserAgent: userAgent,
	}

	fmt.Println("\nStoring session securely...")
	if err := manager.Store(account); err != nil {
		fatal("failed to store session", err)
	}

	fmt.Printf("Session stored for '%s'.\n", username)
	fmt.Println("\nTry it:")
	fmt.Println("  igfetch get https://www.instagram.com/p/<shortcode>/")
}

func runStatus(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fatal("failed to initialize credential manager", err)
	}

	status := manager.Status()
	if !status.HasCredentials {
		fmt.Println("No session stored.")
		fmt.Println("\nRun 'igfetch auth login' to store one, or set:")
		fmt.Printf("  export %s=...\n", auth.EnvSessionID)
		fmt.Printf("  export %s=...\n", auth.EnvCSRFToken)
		os.Exit(1)
	}

	fmt.Printf("Session stored for '%s' (%d account(s) known).\n", status.Username, status.Accounts)
	fmt.Println()

	accounts, err := manager.List()
	if err != nil || len(accounts) == 0 {
		return
	}
	for _, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("  %s\n", sanitized.Username)
		fmt.Printf("    session id: %s\n", sanitized.SessionID)
		fmt.Printf("    csrf token: %s\n", sanitized.CSRFToken)
		if sanitized.DSUserID != "" {
			fmt.Printf("    ds user id: %s\n", sanitized.DSUserID)
		}
		if !sanitized.LastModified.IsZero() {
			fmt.Printf("    stored:     %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		}
	}
	fmt.Println("\nWhether the session is still accepted by Instagram is checked on the first request.")
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fatal("failed to initialize credential manager", err)
	}

	if len(args) > 0 {
		if err := manager.Delete(args[0]); err != nil {
			fatal("failed to remove account", err)
		}
		fmt.Println("Account removed:", args[0])
		return
	}

	accounts, err := manager.List()
	if err != nil || len(accounts) == 0 {
		fmt.Println("No stored accounts.")
		return
	}

	reader := bufio.NewReader(os.Stdin)

	if len(accounts) == 1 {
		account := accounts[0]
		fmt.Printf("Remove account '%s'? (y/N): ", account.Username)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
		if err := manager.Delete(account.Username); err != nil {
			fatal("failed to remove account", err)
		}
		fmt.Println("Account removed:", account.Username)
		return
	}

	fmt.Println("Select account to remove:")
	for i, account := range accounts {
		fmt.Printf("  %d. %s\n", i+1, account.Username)
	}
	fmt.Printf("  %d. Remove all accounts\n", len(accounts)+1)
	fmt.Println("  0. Cancel")
	fmt.Print("\nChoice: ")
	input, _ := reader.ReadString('\n')

	var choice int
	fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

	switch {
	case choice == 0:
		return
	case choice == len(accounts)+1:
		fmt.Print("Remove ALL accounts? This cannot be undone. (yes/N): ")
		confirm, _ := reader.ReadString('\n')
		if strings.TrimSpace(confirm) != "yes" {
			return
		}
		if err := manager.DeleteAll(); err != nil {
			fatal("failed to remove all accounts", err)
		}
		fmt.Println("All accounts removed.")
	case choice > 0 && choice <= len(accounts):
		account := accounts[choice-1]
		if err := manager.Delete(account.Username); err != nil {
			fatal("failed to remove account", err)
		}
		fmt.Println("Account removed:", account.Username)
	default:
		fatal("invalid choice", nil)
	}
}

// promptSecret reads a hidden value, re-prompting while validate rejects it.
func promptSecret(reader *bufio.Reader, prompt string, validate func(string) string) string {
	for {
		fmt.Print(prompt)
		value, err := readPassword()
		if err != nil {
			fatal("failed to read input", err)
		}
		if msg := validate(value); msg != "" {
			fmt.Println("\n" + msg)
			fmt.Print("Try again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				os.Exit(1)
			}
			continue
		}
		return value
	}
}

// readPassword reads a line from stdin without echoing when possible.
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(password), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
