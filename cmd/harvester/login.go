package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-harvester/internal/scrape"
)

var (
	loginCookieFile string
	loginTimeout    int
	loginVerbose    bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Capture a marketplace login session",
	Long:  `Opens a browser window for an interactive login and saves the session cookies. Pass the saved file to run/serve via --cookies so the harvester browses with your account.`,
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginCookieFile, "cookies", "cookies.json", "Where to store the captured session")
	loginCmd.Flags().IntVar(&loginTimeout, "timeout", 300, "Seconds to wait for the login to complete")
	loginCmd.Flags().BoolVarP(&loginVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(loginCmd)
}

func runLogin(_ *cobra.Command, _ []string) error {
	err := scrape.Login(context.Background(), scrape.LoginOptions{
		CookieFile: loginCookieFile,
		Timeout:    time.Duration(loginTimeout) * time.Second,
		Verbose:    loginVerbose,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Session saved to %s\n", loginCookieFile)
	return nil
}
