package credentials

import (
	"errors"
	"fmt"
	"os"

	"bloodbridge/cmd/cli/tools/prompt"
	"bloodbridge/pkg/remote/obj"

	"golang.org/x/term"
)

// Read asks for the email, unless given, then for the password without
// echoing it.
func Read(email string) (obj.Credentials, error) {
	email = prompt.Text("Enter email", email)
	if email == "" {
		return obj.Credentials{}, errors.New("an email is required")
	}

	password, err := Password(fmt.Sprintf("password for %s", email))
	if err != nil {
		return obj.Credentials{}, err
	}
	return obj.Credentials{Email: email, Password: password}, nil
}

func Password(msg string) (string, error) {
	fmt.Printf("%s: ", msg)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read the password: %w", err)
	}
	fmt.Println()

	return string(password), nil
}
