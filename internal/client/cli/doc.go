// Package cli is the interactive shell of the accounts client.
//
// The App reads commands from stdin in a simple REPL and forwards them to
// a client.Client. Passwords are read without echo and wiped after use.
//
// Commands
//
//	register          create an account
//	login             log in with a username or an email
//	me                show the logged in profile
//	users             list all accounts
//	user <id>         show one account
//	avatar <file>     upload a new avatar
//	logout            forget the token
//	help, exit
package cli
