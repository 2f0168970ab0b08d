package commands

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/cimillas/tech-event-tracker/internal/auth"
	"golang.org/x/term"
)

// HashPassword handles the hash-password subcommand: it prompts for
// credentials and writes the auth secret file for the admin endpoints.
func HashPassword(args []string) {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)
	file := fs.String("file", "auth.secret", "Path of the auth file to write")
	overwrite := fs.Bool("overwrite", false, "Overwrite an existing auth file")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: event-tracker hash-password [OPTIONS]\n\n")
		fmt.Fprintf(os.Stderr, "Creates an auth file with an argon2id password hash.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if env := os.Getenv("AUTH_FILE"); env != "" {
		*file = env
	}

	if _, err := os.Stat(*file); err == nil && !*overwrite {
		fmt.Fprintf(os.Stderr, "Auth file already exists: %s (use -overwrite to replace)\n", *file)
		os.Exit(1)
	}

	fmt.Print("Enter username: ")
	var username string
	if _, err := fmt.Scanln(&username); err != nil || username == "" {
		fmt.Fprintf(os.Stderr, "Username cannot be empty\n")
		os.Exit(1)
	}

	password := readPassword("Enter password:   ")
	confirm := readPassword("Confirm password: ")

	if password == "" {
		fmt.Fprintf(os.Stderr, "Password cannot be empty\n")
		os.Exit(1)
	}
	if password != confirm {
		fmt.Fprintf(os.Stderr, "Passwords do not match\n")
		os.Exit(1)
	}

	if err := auth.CreateFile(*file, username, password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Auth file created: %s (mode: 0400 read-only)\n", *file)
	fmt.Printf("   Username: %s\n", username)
}

func readPassword(prompt string) string {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
		os.Exit(1)
	}
	return string(password)
}
