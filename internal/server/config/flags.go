package config

import (
	"flag"
	"os"

	"tgvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-t string   Telegram bot token
//	-i int      allowed Telegram user id
//	-k string   field encryption passphrase
//	-m string   admin shared secret
//	-u string   public base URL for webhook registration
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config JSON flags.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-i", "-k", "-m", "-u"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.BotToken, "t", config.BotToken, "telegram bot token")
	fs.Int64Var(&config.AllowedUserID, "i", config.AllowedUserID, "allowed telegram user id")
	fs.StringVar(&config.EncryptKey, "k", config.EncryptKey, "encryption passphrase")
	fs.StringVar(&config.AdminSecret, "m", config.AdminSecret, "admin shared secret")
	fs.StringVar(&config.PublicURL, "u", config.PublicURL, "public base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
