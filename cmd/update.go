package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var updateVersionFlag string

// Seams overridden in tests.
var (
	lookPath      = exec.LookPath
	execCommand   = exec.Command
	getExecutable = os.Executable
	printInfo     = func(msg string) { fmt.Println(msg) }
	getVersion    = func() string { return version }
	httpClient    = &http.Client{Timeout: 10 * time.Second}
)

// ErrCurlNotFound is returned when curl is not available in PATH.
var ErrCurlNotFound = errors.New("curl not found")

// ErrScriptFailed is returned when the install script execution fails.
var ErrScriptFailed = errors.New("script execution failed")

const installScriptURL = "https://raw.githubusercontent.com/MalayathiGeetha/MailMind-AI/main/install.sh"
const githubReleasesAPI = "https://api.github.com/repos/MalayathiGeetha/MailMind-AI/releases/latest"

type githubRelease struct {
	TagName string `json:"tag_name"`
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update mailmind to the latest version",
	Long: `Update mailmind by running the install script.

By default, updates to the latest release. Use --version to install a
specific version.

Examples:
  mailmind update                   # Update to latest version
  mailmind update --version v1.2.0  # Install specific version`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVarP(&updateVersionFlag, "version", "v", "", "specific version to install (e.g., v1.2.0)")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if isHomebrewInstallation() {
		printInfo("mailmind was installed via Homebrew. Use: brew upgrade mailmind")
		return nil
	}

	if err := checkPrerequisites(); err != nil {
		return err
	}

	// Skip the reinstall when the binary is already at the latest release.
	// When the release check itself fails, update anyway.
	if updateVersionFlag == "" {
		latest, err := fetchLatestRelease()
		if err == nil && isAlreadyLatest(getVersion(), latest) {
			printInfo(fmt.Sprintf("Already on the latest version (%s)", latest))
			return nil
		}
	}

	if updateVersionFlag != "" {
		printInfo(fmt.Sprintf("Installing version: %s", updateVersionFlag))
	} else {
		printInfo("Updating to latest version...")
	}

	return executeInstallScript(updateVersionFlag)
}

func executeInstallScript(version string) error {
	script := fmt.Sprintf("curl -sSL %s | bash", installScriptURL)
	bashCmd := execCommand("bash", "-c", script)

	bashCmd.Env = os.Environ()
	if version != "" {
		bashCmd.Env = append(bashCmd.Env, "VERSION="+version)
	}

	bashCmd.Stdout = os.Stdout
	bashCmd.Stderr = os.Stderr

	if err := bashCmd.Run(); err != nil {
		return fmt.Errorf("%w: %s", ErrScriptFailed, err.Error())
	}
	return nil
}

func checkPrerequisites() error {
	if _, err := lookPath("curl"); err != nil {
		return fmt.Errorf("%w: curl is required but not found in PATH", ErrCurlNotFound)
	}
	return nil
}

// isHomebrewInstallation reports whether the running binary lives under a
// Homebrew prefix, in which case brew owns updates.
func isHomebrewInstallation() bool {
	execPath, err := getExecutable()
	if err != nil {
		return false
	}
	for _, indicator := range []string{"/opt/homebrew/", "/usr/local/Cellar/", "/Cellar/", "/homebrew/"} {
		if strings.Contains(execPath, indicator) {
			return true
		}
	}
	return false
}

func fetchLatestRelease() (string, error) {
	resp, err := httpClient.Get(githubReleasesAPI)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	return release.TagName, nil
}

// isAlreadyLatest compares versions ignoring the 'v' prefix and any dev
// suffix like "-6-gaa951141-dirty".
func isAlreadyLatest(current, latest string) bool {
	current = strings.TrimPrefix(current, "v")
	latest = strings.TrimPrefix(latest, "v")
	if idx := strings.Index(current, "-"); idx != -1 {
		current = current[:idx]
	}
	if idx := strings.Index(latest, "-"); idx != -1 {
		latest = latest[:idx]
	}
	return current == latest
}
