package main

import "fmt"

const helpCreate = `usage: minddapp <path-to-vault-file> create

Create a new secure vault. The vault is encrypted with a pass phrase provided
by the user and starts configured for the community testnet.
`

const helpNetwork = `usage: minddapp <path-to-vault-file> network [testnet|mainnet|custom <address> <chain-id> <prefix>]

Set the node the vault broadcasts to. testnet is https://testnet.steem.vc with
STX keys, mainnet is https://api.steemit.com with STM keys. A custom network
needs the node address, the hex encoded chain id and the three letter public
key prefix.
`

const helpImport = `usage: minddapp <path-to-vault-file> import <account> <role> [key-file]

Import the private key of an account role (owner, active, posting or memo).
The key is read from a PEM or WIF key file when given, otherwise it is
prompted for without echo. The public key is printed to the standard output.
`

const helpLogin = `usage: minddapp <path-to-vault-file> login <account>

Derive the posting and active keys of an account from its password and store
them in the vault. The password itself is not stored.
`

const helpKeys = `usage: minddapp <path-to-vault-file> keys

List the network and the public keys of every account role in the vault.
`

const helpAsk = `usage: minddapp <path-to-vault-file> ask <account> <title> [body] [tags] [bounty]

Post a question under the minddappquestion tag signed with the account posting
key. Tags are separated by spaces. A non zero bounty (in SBD) is transferred
to the board account after the question is included, signed with the active
key, with the question link as memo.
`

const helpList = `usage: minddapp <path-to-vault-file> list [tag]

List the newest questions, only those tagged with tag when given.
`

const helpServe = `usage: minddapp serve [config-file]

Serve the question board as a JSON API. Without a configuration file the
gateway listens on localhost:7000 and talks to the community testnet. Private
keys travel in request bodies: keep the gateway on a loopback address.
`

func help(cmd string) {
	switch cmd {
	case "create":
		fmt.Print(helpCreate)
	case "network":
		fmt.Print(helpNetwork)
	case "import":
		fmt.Print(helpImport)
	case "login":
		fmt.Print(helpLogin)
	case "keys":
		fmt.Print(helpKeys)
	case "ask":
		fmt.Print(helpAsk)
	case "list":
		fmt.Print(helpList)
	case "serve":
		fmt.Print(helpServe)
	default:
		fmt.Print(usage)
	}
}
