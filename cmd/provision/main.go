// Command provision creates the root identity interactively. It is meant to
// be run once against a fresh database; the schema enforces a single root.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/secureportal/internal/common"
	"github.com/dmitrijs2005/secureportal/internal/server"
	"github.com/dmitrijs2005/secureportal/internal/server/config"
	"github.com/dmitrijs2005/secureportal/internal/server/services"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func getSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func getPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	if err := app.Bootstrap(ctx); err != nil {
		log.Fatalf("%v", err)
	}

	reader := bufio.NewReader(os.Stdin)
	username, err := getSimpleText(reader, "Root username", os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	email, err := getSimpleText(reader, "Email", os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	name, err := getSimpleText(reader, "Display name", os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer common.WipeByteArray(password)

	identity, err := app.Auth.ProvisionRoot(ctx, services.RegisterParams{
		Username: username,
		Password: string(password),
		Email:    email,
		Name:     name,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("Root identity %q created (id %s)\n", identity.Username, identity.ID)
}
