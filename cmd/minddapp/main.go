package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

var usage = `Usage: 

	minddapp <path-to-vault-file> <command> [arguments] 
	minddapp serve [config-file]

The commands are:

	create    create new vault file
	network   choose the network node
	import    import an account role key
	login     derive account keys from its password
	keys      list the keys in the vault
	ask       post a question with an optional bounty
	list      list the newest questions
	
Use "minddapp help <command>" for more information about a command.

`

const (
	noCmd byte = iota
	createCmd
	networkCmd
	importCmd
	loginCmd
	keysCmd
	askCmd
	listCmd
)

func readPassword(phrase string) []byte {
	fmt.Println(phrase)
	for {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			fmt.Printf("Error reading password: %v\n", err)
			os.Exit(1)
		}
		if len(password) > 0 {
			return password
		}
		fmt.Printf("Try again:\n")
	}
}

func yesorno(caption string) bool {
	var yes string
	fmt.Print(caption)
	fmt.Scan(&yes)
	yes = strings.TrimSpace(strings.ToLower(yes))
	return yes == "yes" || yes == "y"
}

func parseCommand() byte {
	if len(os.Args) < 3 {
		return noCmd
	}
	switch strings.ToLower(os.Args[2]) {
	case "create":
		return createCmd
	case "network":
		return networkCmd
	case "import":
		return importCmd
	case "login":
		return loginCmd
	case "keys":
		return keysCmd
	case "ask":
		return askCmd
	case "list":
		return listCmd
	default:
		return noCmd
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		return
	}
	switch os.Args[1] {
	case "help":
		if len(os.Args) > 2 {
			help(os.Args[2])
		} else {
			fmt.Print(usage)
		}
		return
	case "serve":
		path := ""
		if len(os.Args) > 2 {
			path = os.Args[2]
		}
		if err := serve(path); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		return
	}
	cmd := parseCommand()
	if cmd == noCmd {
		fmt.Print(usage)
		return
	}
	command := parseCommandArgs(cmd, os.Args[3:])
	if command == nil {
		help(strings.ToLower(os.Args[2]))
		return
	}
	if stat, _ := os.Stat(os.Args[1]); stat == nil {
		if cmd != createCmd && !yesorno("File does not exist. Create new [yes/no]? ") {
			return
		}
		if err := (&CreateCommand{}).Execute(nil); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if cmd == createCmd {
			return
		}
	} else if stat.IsDir() {
		fmt.Println("File is a directory")
		return
	} else if cmd == createCmd {
		fmt.Println("File already exists")
		return
	}
	password := readPassword("Enter pass phrase to open vault:")
	wallet, err := OpenWallet(password, os.Args[1])
	if err != nil {
		fmt.Printf("Could not open vault: %v\n", err)
		os.Exit(1)
	}
	defer wallet.Close()
	if err := command.Execute(wallet); err != nil {
		fmt.Println(err)
		wallet.Close()
		os.Exit(1)
	}
}
