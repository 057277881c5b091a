package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

const (
	envMQTTPassword = "ROOMBRIDGE_MQTT_PASSWORD"
	envWSPassword   = "ROOMBRIDGE_WS_PASSWORD"
)

// getPassword returns the password from envVar, then the stored value,
// then an interactive prompt. The prompt is skipped when interactive is
// false or stdin is not a terminal.
func getPassword(label, envVar, stored string, interactive bool) (string, error) {
	if pw := os.Getenv(envVar); pw != "" {
		return pw, nil
	}
	if stored != "" {
		return stored, nil
	}
	if !interactive || !term.IsTerminal(int(syscall.Stdin)) {
		return "", nil
	}

	fmt.Fprintf(os.Stderr, "%s password: ", label)

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}
