package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/freehandle/minddapp/client"
	"github.com/freehandle/minddapp/crypto"
	"github.com/freehandle/minddapp/middleware/config"
	"github.com/freehandle/minddapp/middleware/questions"
	"github.com/shopspring/decimal"
)

const commandTimeout = 2 * time.Minute

func parseCommandArgs(cmd byte, args []string) Command {
	switch cmd {
	case createCmd:
		return &CreateCommand{}
	case networkCmd:
		if len(args) < 1 {
			fmt.Println("insufficient arguments")
			return nil
		}
		command := &NetworkCommand{Name: strings.ToLower(args[0])}
		if command.Name == "custom" {
			if len(args) < 4 {
				fmt.Println("insufficient arguments")
				return nil
			}
			command.Address, command.ChainID, command.Prefix = args[1], args[2], args[3]
		}
		return command
	case importCmd:
		if len(args) < 2 {
			fmt.Println("insufficient arguments")
			return nil
		}
		command := &ImportCommand{Account: args[0], Role: strings.ToLower(args[1])}
		if len(args) > 2 {
			command.File = args[2]
		}
		return command
	case loginCmd:
		if len(args) < 1 {
			fmt.Println("insufficient arguments")
			return nil
		}
		return &LoginCommand{Account: args[0]}
	case keysCmd:
		return &KeysCommand{}
	case askCmd:
		if len(args) < 2 {
			fmt.Println("insufficient arguments")
			return nil
		}
		command := &AskCommand{Account: args[0], Title: args[1]}
		if len(args) > 2 {
			command.Body = args[2]
		}
		if len(args) > 3 {
			command.Tags = args[3]
		}
		if len(args) > 4 {
			command.Bounty = args[4]
		}
		return command
	case listCmd:
		command := &ListCommand{}
		if len(args) > 0 {
			command.Filter = args[0]
		}
		return command
	default:
		return nil
	}
}

type Command interface {
	Execute(*Wallet) error
}

type CreateCommand struct{}

func (c *CreateCommand) Execute(wallet *Wallet) error {
	if wallet != nil {
		return errors.New("vault already exists")
	}
	password := readPassword("Enter pass phrase to secure the vault:")
	password2 := readPassword("Reenter pass phrase to secure the vault:")
	if string(password) != string(password2) {
		return errors.New("passwords do not match")
	}
	wallet, err := NewWallet(password, os.Args[1])
	if err != nil {
		return fmt.Errorf("could not create vault: %v", err)
	}
	return wallet.Close()
}

type NetworkCommand struct {
	Name    string
	Address string
	ChainID string
	Prefix  string
}

func (c *NetworkCommand) Execute(wallet *Wallet) error {
	var cfg client.Config
	switch c.Name {
	case "testnet":
		cfg = client.TestnetConfig()
	case "mainnet":
		cfg = client.DefaultConfig()
	case "custom":
		cfg = client.Config{Address: c.Address, ChainID: c.ChainID, AddressPrefix: c.Prefix}
	default:
		return fmt.Errorf("unknown network %q: use testnet, mainnet or custom", c.Name)
	}
	if err := wallet.SetNetwork(Network{Address: cfg.Address, ChainID: cfg.ChainID, Prefix: cfg.AddressPrefix}); err != nil {
		return err
	}
	fmt.Printf("network set to %s\n", cfg.Address)
	return nil
}

func validRole(role string) bool {
	switch role {
	case crypto.RoleOwner, crypto.RoleActive, crypto.RolePosting, crypto.RoleMemo:
		return true
	}
	return false
}

type ImportCommand struct {
	Account string
	Role    string
	File    string
}

func (c *ImportCommand) Execute(wallet *Wallet) error {
	if !validRole(c.Role) {
		return fmt.Errorf("unknown role %q", c.Role)
	}
	var secret crypto.PrivateKey
	var err error
	if c.File != "" {
		secret, err = config.ParseCredentials(c.File, crypto.ZeroPublicKey)
	} else {
		secret, err = crypto.PrivateKeyFromString(string(readPassword("Enter WIF private key:")))
	}
	if err != nil {
		return err
	}
	if err := wallet.StoreKey(c.Account, c.Role, secret); err != nil {
		return err
	}
	fmt.Printf("%s %s key %s\n", c.Account, c.Role, secret.PublicKey().WithPrefix(wallet.Network.Prefix))
	return nil
}

// LoginCommand stores the posting and active keys derived from the account
// password.
type LoginCommand struct {
	Account string
}

func (c *LoginCommand) Execute(wallet *Wallet) error {
	password := string(readPassword(fmt.Sprintf("Enter %s account password:", c.Account)))
	for _, role := range []string{crypto.RolePosting, crypto.RoleActive} {
		secret := crypto.PrivateKeyFromLogin(c.Account, password, role)
		if err := wallet.StoreKey(c.Account, role, secret); err != nil {
			return err
		}
		fmt.Printf("%s %s key %s\n", c.Account, role, secret.PublicKey().WithPrefix(wallet.Network.Prefix))
	}
	return nil
}

type KeysCommand struct{}

func (c *KeysCommand) Execute(wallet *Wallet) error {
	fmt.Printf("network\t%s\t%s\n", wallet.Network.Address, wallet.Network.Prefix)
	for _, key := range wallet.Keys {
		fmt.Printf("%s\t%s\t%s\n", key.Account, key.Role, key.Secret.PublicKey().WithPrefix(wallet.Network.Prefix))
	}
	return nil
}

type AskCommand struct {
	Account string
	Title   string
	Body    string
	Tags    string
	Bounty  string
}

func (c *AskCommand) Execute(wallet *Wallet) error {
	bounty := decimal.Zero
	if c.Bounty != "" {
		var err error
		if bounty, err = decimal.NewFromString(c.Bounty); err != nil {
			return fmt.Errorf("invalid bounty %q", c.Bounty)
		}
	}
	posting := wallet.Key(c.Account, crypto.RolePosting)
	if !posting.IsValid() {
		return fmt.Errorf("no posting key for %s in vault", c.Account)
	}
	active := wallet.Key(c.Account, crypto.RoleActive)
	if !bounty.IsZero() && !active.IsValid() {
		return fmt.Errorf("no active key for %s in vault", c.Account)
	}
	board, err := walletBoard(wallet)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()
	question := questions.Question{
		Author: c.Account,
		Title:  c.Title,
		Body:   c.Body,
		Tags:   strings.Fields(c.Tags),
		Bounty: bounty,
	}
	result, err := board.Ask(ctx, question, posting, active)
	if result != nil {
		fmt.Printf("included in block %d\n%s\n", result.PostBlock, result.Link)
		if result.BountyID != "" {
			fmt.Printf("bounty transferred in block %d\n", result.BountyBlock)
		}
	}
	return err
}

type ListCommand struct {
	Filter string
}

func (c *ListCommand) Execute(wallet *Wallet) error {
	board, err := walletBoard(wallet)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()
	summaries, err := board.List(ctx, c.Filter)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No result.")
	}
	for _, summary := range summaries {
		fmt.Printf("%s asked %s\n\t%s\n\t%s\n", summary.Author, summary.Created.Format("Mon Jan 02 2006"), summary.Title, summary.Link)
	}
	return nil
}

func walletBoard(wallet *Wallet) (*questions.Board, error) {
	c, err := wallet.Client()
	if err != nil {
		return nil, err
	}
	return questions.NewBoard(c, questions.DefaultConfig()), nil
}

func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
