package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/memkeeper/internal/keyring"
)

type KeyringSetCmd struct {
	ConnString string `arg:"" optional:"" help:"Postgres connection string; prompted if omitted."`
}

func (c *KeyringSetCmd) Run(ctx *Context) error {
	connStr := c.ConnString
	if connStr == "" {
		fmt.Print("Postgres connection string: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read connection string: %w", err)
		}
		connStr = strings.TrimSpace(line)
	}

	if err := keyring.SetConnectionString(connStr); err != nil {
		return err
	}

	fmt.Println("✓ Connection string stored in OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (c *KeyringStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("OS keyring: unavailable")
		return nil
	}

	fmt.Println("OS keyring: available")
	if _, err := keyring.GetConnectionString(); err != nil {
		if err == keyring.ErrNotFound {
			fmt.Println("Credentials: not stored")
			return nil
		}
		return err
	}
	fmt.Println("Credentials: stored")
	return nil
}

type KeyringClearCmd struct{}

func (c *KeyringClearCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if err == keyring.ErrNotFound {
			fmt.Println("No credentials stored")
			return nil
		}
		return err
	}
	fmt.Println("✓ Credentials removed from OS keyring")
	return nil
}
