// Command gosession-seed creates a user record in the SQL store.
//
//	gosession-seed --driver sqlite --dsn gosession.db --name Alice --email alice@example.com
//
// The password is read from --password or, when omitted, SEED_PASSWORD.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/MrEthical07/goSession/internal/config"
	"github.com/MrEthical07/goSession/password"
	"github.com/MrEthical07/goSession/store/sqlstore"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

type options struct {
	driver   string
	dsn      string
	name     string
	email    string
	password string
	algo     string
	cost     int
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags reads args on top of defaults taken from envCfg.
func parseFlags(args []string, envCfg config.Seed) (options, error) {
	var o options
	flags := pflag.NewFlagSet("gosession-seed", pflag.ContinueOnError)
	flags.StringVar(&o.driver, "driver", envCfg.StoreDriver, "sql driver: sqlite or postgres")
	flags.StringVar(&o.dsn, "dsn", envCfg.StoreDSN, "data source name")
	flags.StringVar(&o.name, "name", "", "display name")
	flags.StringVar(&o.email, "email", "", "login email (matched exactly)")
	flags.StringVar(&o.password, "password", "", "plaintext password (default: $SEED_PASSWORD)")
	flags.StringVar(&o.algo, "algo", "bcrypt", "hash algorithm: bcrypt or argon2id")
	flags.IntVar(&o.cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	if err := flags.Parse(args); err != nil {
		return options{}, err
	}

	if o.password == "" {
		o.password = envCfg.SeedPassword
	}
	o.email = strings.TrimSpace(o.email)
	if o.email == "" || o.password == "" {
		return options{}, errors.New("--email and a password are required")
	}
	return o, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	envCfg, err := config.LoadSeed()
	if err != nil {
		return err
	}
	o, err := parseFlags(args, envCfg)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	hash, err := hashPassword(o)
	if err != nil {
		return err
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	st, err := sqlstore.Open(openCtx, o.driver, o.dsn)
	if err != nil {
		return err
	}
	defer st.Close()

	u, err := st.CreateUser(ctx, o.name, o.email, hash)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Fprintf(out, "created user %s <%s>\n", u.ID, u.Email)
	return nil
}

func hashPassword(o options) (string, error) {
	switch o.algo {
	case "bcrypt":
		return password.NewBcrypt(o.cost).Hash(o.password)
	case "argon2id", "argon2":
		a, err := password.NewArgon2(password.DefaultArgon2Config())
		if err != nil {
			return "", err
		}
		return a.Hash(o.password)
	default:
		return "", fmt.Errorf("unknown hash algorithm %q", o.algo)
	}
}
