package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func promptPassphrase() (string, error) {
	fmt.Print("Room passphrase: ")
	b, err := readPassword()
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	if len(b) == 0 {
		return "", fmt.Errorf("passphrase must not be empty")
	}
	return string(b), nil
}
